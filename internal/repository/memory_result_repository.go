package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/quant-share/internal/models"
)

// MemoryResultRepository implements ResultRepository in process memory.
// It backs the memory storage mode and the test suite. Records are deep
// copied on the way in and out, so callers never alias store-owned state.
type MemoryResultRepository struct {
	mu      sync.RWMutex
	results map[uuid.UUID]*models.SharedResult

	// insertion order, used to keep Scan deterministic for equal timestamps
	order []uuid.UUID

	now func() time.Time
}

// NewMemoryResultRepository creates an empty in-memory result repository.
func NewMemoryResultRepository() *MemoryResultRepository {
	return &MemoryResultRepository{
		results: make(map[uuid.UUID]*models.SharedResult),
		now:     time.Now,
	}
}

// Insert assigns a fresh id and server timestamp and stores a deep copy.
// The record is visible to any Scan that starts after Insert returns.
func (r *MemoryResultRepository) Insert(ctx context.Context, result *models.SharedResult) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	stored := result.Clone()
	stored.ID = uuid.New()
	stored.CreatedAt = r.now().UTC()

	r.mu.Lock()
	r.results[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	return stored.ID, nil
}

// GetByID retrieves a single record.
func (r *MemoryResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SharedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result, ok := r.results[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return result.Clone(), nil
}

// Scan returns a snapshot of all records in insertion order.
func (r *MemoryResultRepository) Scan(ctx context.Context) ([]*models.SharedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*models.SharedResult, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.results[id].Clone())
	}
	return snapshot, nil
}

// UpdateRating overwrites share_info.rating on the stored record.
func (r *MemoryResultRepository) UpdateRating(ctx context.Context, id uuid.UUID, rating float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	result, ok := r.results[id]
	if !ok {
		return models.ErrNotFound
	}
	result.ShareInfo.Rating = rating
	return nil
}

// Count reports the number of stored records.
func (r *MemoryResultRepository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results), nil
}
