package repository

import (
	"fmt"

	"github.com/yourusername/quant-share/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Result ResultRepository
}

// NewRepositories creates Postgres-backed repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Result: NewPostgresResultRepository(db),
	}, nil
}

// NewMemoryRepositories creates in-memory repository implementations for the
// memory storage backend and for tests.
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Result: NewMemoryResultRepository(),
	}
}
