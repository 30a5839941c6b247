package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quant-share/internal/models"
)

func validResult() *models.SharedResult {
	return &models.SharedResult{
		TaskID:       "task_001",
		StrategyName: "MomentumBreakout",
		Version:      "1.0.0",
		SharedBy:     "optimizer-7",
		Performance: models.Document{
			"total_return": 25.0,
			"max_drawdown": 12.0,
			"sharpe_ratio": 1.9,
			"win_rate":     0.6,
		},
		BacktestInfo: models.Document{
			"start_date": "2020-01-01",
			"end_date":   "2023-12-31",
		},
	}
}

func TestValidateAcceptsValidResult(t *testing.T) {
	v := NewResultValidator()
	assert.NoError(t, v.Validate(validResult()))
}

func TestValidateRequiredFields(t *testing.T) {
	v := NewResultValidator()

	tests := []struct {
		name   string
		mutate func(*models.SharedResult)
		field  string
	}{
		{"missing task_id", func(r *models.SharedResult) { r.TaskID = "" }, "task_id"},
		{"missing strategy_name", func(r *models.SharedResult) { r.StrategyName = "" }, "strategy_name"},
		{"missing version", func(r *models.SharedResult) { r.Version = "" }, "version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validResult()
			tt.mutate(result)

			err := v.Validate(result)
			require.Error(t, err)
			require.True(t, models.IsValidationError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidateNilResult(t *testing.T) {
	v := NewResultValidator()
	assert.Error(t, v.Validate(nil))
}

func TestValidateNonNumericMetric(t *testing.T) {
	v := NewResultValidator()

	result := validResult()
	result.Performance["sharpe_ratio"] = "very good"

	err := v.Validate(result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sharpe_ratio")
}

func TestValidateNonFiniteMetric(t *testing.T) {
	v := NewResultValidator()

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		result := validResult()
		result.Performance["total_return"] = bad

		err := v.Validate(result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "finite")
	}
}

func TestValidateWinRateBounds(t *testing.T) {
	v := NewResultValidator()

	tests := []struct {
		winRate float64
		wantErr bool
	}{
		{0.0, false},
		{1.0, false},
		{0.5, false},
		{1.0001, true},
		{-0.01, true},
	}

	for _, tt := range tests {
		result := validResult()
		result.Performance["win_rate"] = tt.winRate

		err := v.Validate(result)
		if tt.wantErr {
			require.Error(t, err, "win_rate=%v", tt.winRate)
			assert.Contains(t, err.Error(), "win_rate")
		} else {
			assert.NoError(t, err, "win_rate=%v", tt.winRate)
		}
	}
}

func TestValidateUnknownMetricsAccepted(t *testing.T) {
	v := NewResultValidator()

	result := validResult()
	result.Performance["future_metric_xyz"] = "free text"
	result.Performance["another_unknown"] = []interface{}{1, 2}

	assert.NoError(t, v.Validate(result))
}

func TestValidateBacktestDateOrder(t *testing.T) {
	v := NewResultValidator()

	result := validResult()
	result.BacktestInfo["start_date"] = "2024-01-01"
	result.BacktestInfo["end_date"] = "2020-01-01"

	err := v.Validate(result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestValidateBacktestDatesOptional(t *testing.T) {
	v := NewResultValidator()

	result := validResult()
	result.BacktestInfo = nil
	assert.NoError(t, v.Validate(result))

	result = validResult()
	delete(result.BacktestInfo, "end_date")
	assert.NoError(t, v.Validate(result))
}

func TestValidateMissingPerformanceGroup(t *testing.T) {
	v := NewResultValidator()

	result := validResult()
	result.Performance = nil
	assert.NoError(t, v.Validate(result))
}
