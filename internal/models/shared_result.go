package models

import (
	"time"

	"github.com/google/uuid"
)

// Declared performance metric keys. Submitted values under these keys must be
// finite numbers; anything else in the performance group is carried opaquely.
const (
	MetricTotalReturn       = "total_return"
	MetricAnnualReturn      = "annual_return"
	MetricMonthlyReturn     = "monthly_return"
	MetricDailyReturn       = "daily_return"
	MetricMaxDrawdown       = "max_drawdown"
	MetricVolatility        = "volatility"
	MetricSharpeRatio       = "sharpe_ratio"
	MetricSortinoRatio      = "sortino_ratio"
	MetricCalmarRatio       = "calmar_ratio"
	MetricTotalTrades       = "total_trades"
	MetricWinRate           = "win_rate"
	MetricProfitFactor      = "profit_factor"
	MetricAverageWin        = "average_win"
	MetricAverageLoss       = "average_loss"
	MetricLargestWin        = "largest_win"
	MetricLargestLoss       = "largest_loss"
	MetricConsecutiveWins   = "consecutive_wins"
	MetricConsecutiveLosses = "consecutive_losses"
)

// NumericPerformanceMetrics lists every declared numeric key in the
// performance group. best_month and worst_month are free text and excluded.
var NumericPerformanceMetrics = []string{
	MetricTotalReturn, MetricAnnualReturn, MetricMonthlyReturn, MetricDailyReturn,
	MetricMaxDrawdown, MetricVolatility, MetricSharpeRatio, MetricSortinoRatio,
	MetricCalmarRatio, MetricTotalTrades, MetricWinRate, MetricProfitFactor,
	MetricAverageWin, MetricAverageLoss, MetricLargestWin, MetricLargestLoss,
	MetricConsecutiveWins, MetricConsecutiveLosses,
}

// SharedResult is one persisted strategy result submitted for discovery by
// others. ID and CreatedAt are server-assigned at insert and immutable; every
// other field except ShareInfo.Rating is immutable once stored.
type SharedResult struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TaskID       string    `db:"task_id" json:"task_id"`
	StrategyName string    `db:"strategy_name" json:"strategy_name"`
	Version      string    `db:"version" json:"version"`
	SharedBy     string    `db:"shared_by" json:"shared_by"`

	Parameters       Document `db:"parameters" json:"parameters"`
	Performance      Document `db:"performance" json:"performance"`
	Reproducibility  Document `db:"reproducibility" json:"reproducibility"`
	StrategySupport  Document `db:"strategy_support" json:"strategy_support"`
	BacktestInfo     Document `db:"backtest_info" json:"backtest_info"`
	LiveTradingInfo  Document `db:"live_trading_info" json:"live_trading_info,omitempty"`
	RiskAssessment   Document `db:"risk_assessment" json:"risk_assessment"`
	MarketAdaptation Document `db:"market_adaptation" json:"market_adaptation"`

	ShareInfo ShareInfo `db:"share_info" json:"share_info"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ShareInfo describes the act of sharing. These fields drive keyword search
// and the rating mutation, so they are typed rather than opaque.
type ShareInfo struct {
	ShareMethod      string   `json:"share_method"`
	SharePlatform    string   `json:"share_platform"`
	ShareDescription string   `json:"share_description"`
	Tags             []string `json:"tags"`
	Rating           float64  `json:"rating"`
}

// PerformanceMetric returns the named numeric metric from the performance
// group. The boolean reports presence; filters must treat a missing metric as
// non-matching, never as a wildcard.
func (r *SharedResult) PerformanceMetric(key string) (float64, bool) {
	if r.Performance == nil {
		return 0, false
	}
	return r.Performance.Float64(key)
}

// Clone returns a deep copy safe to hand to readers.
func (r *SharedResult) Clone() *SharedResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Parameters = r.Parameters.Clone()
	out.Performance = r.Performance.Clone()
	out.Reproducibility = r.Reproducibility.Clone()
	out.StrategySupport = r.StrategySupport.Clone()
	out.BacktestInfo = r.BacktestInfo.Clone()
	out.LiveTradingInfo = r.LiveTradingInfo.Clone()
	out.RiskAssessment = r.RiskAssessment.Clone()
	out.MarketAdaptation = r.MarketAdaptation.Clone()
	out.ShareInfo.Tags = DedupeTags(r.ShareInfo.Tags)
	return &out
}

// DedupeTags collapses duplicate tags while preserving first-appearance order.
func DedupeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
