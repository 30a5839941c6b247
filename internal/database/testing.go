package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the database named by QUANT_SHARE_TEST_DSN and
// applies the schema. Tests that need Postgres skip when the variable is
// unset so the suite stays runnable without infrastructure.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("QUANT_SHARE_TEST_DSN")
	if dsn == "" {
		t.Skip("QUANT_SHARE_TEST_DSN not set; skipping database integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	db := &DB{pool: pool}
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		t.Fatalf("failed to apply test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}
