package schema

import (
	"context"

	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate.
func AllModels() []any {
	return []any{
		&NameEntry{},
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// Manager creates or updates the schema of the name index.
// Migration is idempotent and safe to run on every start.
type Manager interface {
	Migrate(ctx context.Context) error
}
