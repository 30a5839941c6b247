package database

import (
	"context"
	"fmt"
)

// Schema for the shared results table. Nested result groups are jsonb so
// that unknown keys submitted by newer strategy versions survive untouched.
const sharedResultsSchema = `
CREATE TABLE IF NOT EXISTS shared_results (
	id                UUID PRIMARY KEY,
	task_id           TEXT NOT NULL,
	strategy_name     TEXT NOT NULL,
	version           TEXT NOT NULL,
	shared_by         TEXT NOT NULL DEFAULT '',
	parameters        JSONB NOT NULL DEFAULT '{}'::jsonb,
	performance       JSONB NOT NULL DEFAULT '{}'::jsonb,
	reproducibility   JSONB NOT NULL DEFAULT '{}'::jsonb,
	strategy_support  JSONB NOT NULL DEFAULT '{}'::jsonb,
	backtest_info     JSONB NOT NULL DEFAULT '{}'::jsonb,
	live_trading_info JSONB,
	risk_assessment   JSONB NOT NULL DEFAULT '{}'::jsonb,
	market_adaptation JSONB NOT NULL DEFAULT '{}'::jsonb,
	share_info        JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_shared_results_created_at
	ON shared_results (created_at DESC, id ASC);

CREATE INDEX IF NOT EXISTS idx_shared_results_task_id
	ON shared_results (task_id);

CREATE INDEX IF NOT EXISTS idx_shared_results_performance
	ON shared_results USING GIN (performance);
`

// InitSchema applies the shared_results schema. Safe to run repeatedly.
func InitSchema(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, sharedResultsSchema); err != nil {
		return fmt.Errorf("failed to apply shared_results schema: %w", err)
	}
	return nil
}
