package infra

import (
	"fmt"

	"canteenpos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.BundleComponent{},
		&model.InventoryRecord{},
		&model.Order{},
		&model.OrderLineItem{},
		&model.Sale{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully handle.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// The per-day sequence count in transaction number generation scans
		// today's orders on every placement.
		`CREATE INDEX IF NOT EXISTS idx_orders_created_at_date ON orders ((created_at::date))`,
		// FIFO deduction reads the open records of one product oldest-first.
		`CREATE INDEX IF NOT EXISTS idx_inventory_records_open
		     ON inventory_records (product_id, created_at)
		     WHERE quantity > 0`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.BundleComponent{},
		&model.InventoryRecord{},
		&model.Order{},
		&model.OrderLineItem{},
		&model.Sale{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
