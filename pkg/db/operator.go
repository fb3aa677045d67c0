// Package db defines the PostgreSQL operator used by the postgres
// backend of the name index.
package db

import (
	"context"

	"github.com/gnames/gnidx/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages the lifecycle of a PostgreSQL connection pool and
// exposes the pool to the components that run their own SQL.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pgxpool.Pool. It is nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
