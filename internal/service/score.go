package service

import (
	"github.com/yourusername/quant-share/internal/models"
)

// ScoreWeights controls the composite score blend. Weights mirror the
// defaults the optimizer fleet uses when ranking shared results.
type ScoreWeights struct {
	TotalReturn     float64 `mapstructure:"total_return"`
	SharpeRatio     float64 `mapstructure:"sharpe_ratio"`
	MaxDrawdown     float64 `mapstructure:"max_drawdown"`
	WinRate         float64 `mapstructure:"win_rate"`
	ProfitFactor    float64 `mapstructure:"profit_factor"`
	LivePerformance float64 `mapstructure:"live_performance"`
	RiskAssessment  float64 `mapstructure:"risk_assessment"`
}

// DefaultScoreWeights returns the standard blend.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		TotalReturn:     0.25,
		SharpeRatio:     0.20,
		MaxDrawdown:     0.15,
		WinRate:         0.10,
		ProfitFactor:    0.10,
		LivePerformance: 0.15,
		RiskAssessment:  0.05,
	}
}

// ScoreCalculator computes a weighted composite score over a result's
// backtest performance, live-trading record and risk assessment. Missing
// groups simply contribute nothing; the score never fails.
type ScoreCalculator struct {
	weights ScoreWeights
}

// NewScoreCalculator creates a calculator with the given weights. Zero-value
// weights fall back to the defaults.
func NewScoreCalculator(weights ScoreWeights) *ScoreCalculator {
	if weights == (ScoreWeights{}) {
		weights = DefaultScoreWeights()
	}
	return &ScoreCalculator{weights: weights}
}

// Score computes the composite score for one result.
func (c *ScoreCalculator) Score(result *models.SharedResult) float64 {
	score := 0.0

	perf := result.Performance
	if perf != nil {
		if v, ok := perf.Float64(models.MetricTotalReturn); ok {
			score += v * c.weights.TotalReturn
		}
		if v, ok := perf.Float64(models.MetricSharpeRatio); ok {
			score += v * c.weights.SharpeRatio
		}
		if v, ok := perf.Float64(models.MetricMaxDrawdown); ok {
			// drawdown is a percentage; less is better
			score += (1 - v/100) * c.weights.MaxDrawdown
		}
		if v, ok := perf.Float64(models.MetricWinRate); ok {
			score += v * c.weights.WinRate
		}
		if v, ok := perf.Float64(models.MetricProfitFactor); ok {
			score += v * c.weights.ProfitFactor
		}
	}

	if live := result.LiveTradingInfo; live != nil {
		liveReturn, _ := live.Float64("live_return")
		liveSharpe, _ := live.Float64("live_sharpe")
		liveDrawdown, _ := live.Float64("live_drawdown")
		liveWinRate, _ := live.Float64("live_win_rate")

		liveScore := liveReturn*0.4 + liveSharpe*0.3 + (1-liveDrawdown/100)*0.2 + liveWinRate*0.1
		score += liveScore * c.weights.LivePerformance
	}

	if risk := result.RiskAssessment; risk != nil {
		infoRatio, _ := risk.Float64("information_ratio")
		treynor, _ := risk.Float64("treynor_ratio")
		jensen, _ := risk.Float64("jensen_alpha")

		riskScore := infoRatio*0.4 + treynor*0.3 + jensen*0.3
		score += riskScore * c.weights.RiskAssessment
	}

	return score
}
