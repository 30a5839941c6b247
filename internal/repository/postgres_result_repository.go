package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/quant-share/internal/database"
	"github.com/yourusername/quant-share/internal/models"
)

const errScanSharedResult = "failed to scan shared result: %w"

const sharedResultColumns = `id, task_id, strategy_name, version, shared_by,
	parameters, performance, reproducibility, strategy_support, backtest_info,
	live_trading_info, risk_assessment, market_adaptation, share_info, created_at`

// PostgresResultRepository implements ResultRepository for PostgreSQL
type PostgresResultRepository struct {
	db *database.DB
}

// NewPostgresResultRepository creates a new shared result repository
func NewPostgresResultRepository(db *database.DB) *PostgresResultRepository {
	return &PostgresResultRepository{db: db}
}

// Insert persists a shared result, assigning id and created_at server-side.
// The single-statement insert is atomic: readers see the whole record or
// nothing.
func (r *PostgresResultRepository) Insert(ctx context.Context, result *models.SharedResult) (uuid.UUID, error) {
	query := `
		INSERT INTO shared_results (
			id, task_id, strategy_name, version, shared_by,
			parameters, performance, reproducibility, strategy_support, backtest_info,
			live_trading_info, risk_assessment, market_adaptation, share_info, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`

	id := uuid.New()
	createdAt := time.Now().UTC()
	shareInfo := result.ShareInfo
	shareInfo.Tags = models.DedupeTags(shareInfo.Tags)

	_, err := r.db.GetPool().Exec(ctx, query,
		id, result.TaskID, result.StrategyName, result.Version, result.SharedBy,
		result.Parameters, result.Performance, result.Reproducibility, result.StrategySupport, result.BacktestInfo,
		result.LiveTradingInfo, result.RiskAssessment, result.MarketAdaptation, shareInfo, createdAt,
	)
	if err != nil {
		return uuid.Nil, storeError("failed to insert shared result", err)
	}
	return id, nil
}

// GetByID retrieves a single shared result
func (r *PostgresResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SharedResult, error) {
	query := `SELECT ` + sharedResultColumns + ` FROM shared_results WHERE id = $1`

	result := &models.SharedResult{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&result.ID, &result.TaskID, &result.StrategyName, &result.Version, &result.SharedBy,
		&result.Parameters, &result.Performance, &result.Reproducibility, &result.StrategySupport, &result.BacktestInfo,
		&result.LiveTradingInfo, &result.RiskAssessment, &result.MarketAdaptation, &result.ShareInfo, &result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, storeError("failed to get shared result", err)
	}
	return result, nil
}

// Scan streams all shared results for the query engine. Postgres MVCC gives
// the required snapshot semantics without blocking concurrent inserts.
func (r *PostgresResultRepository) Scan(ctx context.Context) ([]*models.SharedResult, error) {
	query := `SELECT ` + sharedResultColumns + ` FROM shared_results`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, storeError("failed to scan shared results", err)
	}
	defer rows.Close()

	var results []*models.SharedResult
	for rows.Next() {
		result := &models.SharedResult{}
		if err := rows.Scan(
			&result.ID, &result.TaskID, &result.StrategyName, &result.Version, &result.SharedBy,
			&result.Parameters, &result.Performance, &result.Reproducibility, &result.StrategySupport, &result.BacktestInfo,
			&result.LiveTradingInfo, &result.RiskAssessment, &result.MarketAdaptation, &result.ShareInfo, &result.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanSharedResult, err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

// UpdateRating overwrites share_info.rating in place. The jsonb_set runs as
// one statement, so readers see the old or the new rating, never a torn value.
func (r *PostgresResultRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	query := `
		UPDATE shared_results
		SET share_info = jsonb_set(share_info, '{rating}', to_jsonb($2::double precision))
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, rating)
	if err != nil {
		return storeError("failed to update rating", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Count reports the number of stored shared results
func (r *PostgresResultRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, `SELECT COUNT(*) FROM shared_results`).Scan(&count)
	if err != nil {
		return 0, storeError("failed to count shared results", err)
	}
	return count, nil
}

// storeError tags a persistence failure so callers can map it to the
// store-unavailable taxonomy without inspecting driver errors.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(models.ErrStoreUnavailable, err))
}
