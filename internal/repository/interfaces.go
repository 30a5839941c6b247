package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/quant-share/internal/models"
)

// ResultRepository defines durable keyed storage for shared results.
//
// Insert assigns the server-side id and created_at and persists atomically:
// a concurrent Scan never observes a partially written record, and a Scan
// issued after Insert returns includes the new record. UpdateRating is the
// only permitted post-insert mutation.
type ResultRepository interface {
	Insert(ctx context.Context, result *models.SharedResult) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.SharedResult, error)

	// Scan returns a point-in-time snapshot of all records. It is consumed
	// by the query engine only and never exposed raw to external callers.
	Scan(ctx context.Context) ([]*models.SharedResult, error)

	// UpdateRating overwrites share_info.rating. Returns models.ErrNotFound
	// when id does not exist.
	UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error

	Count(ctx context.Context) (int, error)
}
