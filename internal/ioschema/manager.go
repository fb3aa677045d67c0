// Package ioschema implements schema.Manager with GORM AutoMigrate.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/gnames/gnidx/pkg/db"
	"github.com/gnames/gnidx/pkg/schema"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type manager struct {
	operator db.Operator
}

// NewManager creates a new schema.Manager.
func NewManager(op db.Operator) schema.Manager {
	return &manager{operator: op}
}

// Migrate creates or updates the tables of the name index and sets
// "C" collation on the key column.
func (m *manager) Migrate(ctx context.Context) error {
	pool := m.operator.Pool()
	if pool == nil {
		return NotConnectedError()
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		return GORMConnectionError(err)
	}

	if err = schema.Migrate(gormDB.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}

	// keys are compared bytewise, locale collation would slow down
	// the key index and make it depend on the server settings.
	q := `ALTER TABLE name_entries ALTER COLUMN key TYPE TEXT COLLATE "C"`
	if _, err = pool.Exec(ctx, q); err != nil {
		return CollationError("name_entries", "key", err)
	}

	slog.Info("Name index schema is up to date")
	return nil
}
