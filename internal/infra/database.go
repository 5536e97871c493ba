package infra

import (
	"fmt"

	"github.com/osama347/general-store-management-system-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches that GORM
// cannot express (CHECK constraints, partial behavior on existing DBs).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
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

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates / updates the schema and applies constraint patches.
// Also used by integration test setups.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Location{},
		&model.PoolRecord{},
		&model.StockRecord{},
		&model.TransferRecord{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches adds DB-level guards that AutoMigrate does not create.
// The ledger's guarded UPDATEs are the authoritative check; the CHECK
// constraints are a second line of defense so no code path — including manual
// SQL — can ever persist a negative quantity. Each statement is guarded by an
// existence check so re-running on an already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"pool_ledger non-negative quantities", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_pool_ledger_nonnegative') THEN
    ALTER TABLE pool_ledger ADD CONSTRAINT chk_pool_ledger_nonnegative
      CHECK (total_quantity >= 0 AND reserved_quantity >= 0 AND total_quantity >= reserved_quantity);
  END IF;
END $$`},
		{"location_stock non-negative quantity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_location_stock_nonnegative') THEN
    ALTER TABLE location_stock ADD CONSTRAINT chk_location_stock_nonnegative
      CHECK (quantity >= 0);
  END IF;
END $$`},
		{"transfers positive quantity and distinct endpoints", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_transfers_valid') THEN
    ALTER TABLE transfers ADD CONSTRAINT chk_transfers_valid
      CHECK (quantity > 0 AND from_location_id <> to_location_id);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
