package service

import (
	"fmt"
	"math"

	"github.com/yourusername/quant-share/internal/models"
)

// ResultValidator checks a submitted shared result for structural and
// semantic well-formedness before acceptance. It is a pure function of its
// input: no logging, no store access, no mutation.
type ResultValidator struct{}

// NewResultValidator creates a new result validator
func NewResultValidator() *ResultValidator {
	return &ResultValidator{}
}

// Validate returns nil for an acceptable record, or a *models.ValidationError
// naming the first offending field. Unknown keys inside nested groups are
// never rejected; newer strategy versions may carry metrics this service has
// not heard of yet.
func (v *ResultValidator) Validate(result *models.SharedResult) error {
	if result == nil {
		return models.NewValidationError("body", "record is required")
	}

	if result.TaskID == "" {
		return models.NewValidationError("task_id", "is required")
	}
	if result.StrategyName == "" {
		return models.NewValidationError("strategy_name", "is required")
	}
	if result.Version == "" {
		return models.NewValidationError("version", "is required")
	}

	if err := v.validatePerformance(result.Performance); err != nil {
		return err
	}

	return v.validateBacktestDates(result.BacktestInfo)
}

// validatePerformance checks every declared numeric metric that is present.
func (v *ResultValidator) validatePerformance(perf models.Document) error {
	if perf == nil {
		return nil
	}

	for _, key := range models.NumericPerformanceMetrics {
		raw, present := perf[key]
		if !present {
			continue
		}

		field := "performance." + key
		value, numeric := perf.Float64(key)
		if !numeric {
			return models.NewValidationError(field, fmt.Sprintf("must be a number, got %T", raw))
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return models.NewValidationError(field, "must be a finite number")
		}
	}

	if winRate, ok := perf.Float64(models.MetricWinRate); ok {
		if winRate < 0 || winRate > 1 {
			return models.NewValidationError("performance.win_rate",
				fmt.Sprintf("must be within [0, 1], got %v", winRate))
		}
	}

	return nil
}

// validateBacktestDates rejects a backtest window that ends before it starts.
// Dates arrive as ISO-8601 strings, which order correctly under plain string
// comparison, so the check is lexical on both sides for consistency.
func (v *ResultValidator) validateBacktestDates(info models.Document) error {
	if info == nil {
		return nil
	}

	start, hasStart := info.String("start_date")
	end, hasEnd := info.String("end_date")
	if !hasStart || !hasEnd || start == "" || end == "" {
		return nil
	}

	if start > end {
		return models.NewValidationError("backtest_info.start_date",
			fmt.Sprintf("must not be later than end_date (%s > %s)", start, end))
	}
	return nil
}
