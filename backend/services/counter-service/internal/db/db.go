package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	libdb "bclub/backend/libs/db"
	"bclub/backend/services/counter-service/internal/models"
)

// activeTableIndex guarantees at most one running session per table.
const activeTableIndex = `CREATE UNIQUE INDEX IF NOT EXISTS ux_billiard_active_table
	ON billiard_sessions (table_identifier) WHERE is_active = true`

// Open connects to Postgres and wraps the pool with gorm.
func Open(dsn string, opts libdb.PoolOptions, logger *zap.Logger) (*gorm.DB, *sql.DB, error) {
	sqlDB, err := libdb.NewPostgresDB(dsn, opts)
	if err != nil {
		return nil, nil, err
	}
	gdb, err := libdb.NewGorm(sqlDB, logger)
	if err != nil {
		sqlDB.Close()
		return nil, nil, err
	}
	return gdb, sqlDB, nil
}

// Models lists every table owned by the counter service.
func Models() []interface{} {
	return []interface{}{
		&models.Settings{},
		&models.BilliardTable{},
		&models.BilliardSession{},
		&models.ConsoleGame{},
		&models.ConsoleTimeOption{},
		&models.ConsoleSession{},
		&models.InventoryItem{},
		&models.BarOrder{},
		&models.Client{},
	}
}

// Migrate creates or updates the schema, including the partial unique index on active sessions.
func Migrate(ctx context.Context, gdb *gorm.DB) error {
	tx := gdb.WithContext(ctx)
	if err := tx.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := tx.Exec(activeTableIndex).Error; err != nil {
		return fmt.Errorf("migrate: active table index: %w", err)
	}
	return nil
}
