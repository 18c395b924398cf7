package infra

import (
	"fmt"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx, migrates the unit
// catalog and mapping tables, then applies the constraints GORM tags cannot
// express.
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

// RunMigrations creates or updates the tables and applies schema patches.
// Safe to run repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.UnitCategory{},
		&model.Unit{},
		&model.UnitConversion{},
		&model.Ingredient{},
		&model.IngredientUnitMapping{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches adds CHECK constraints and the one-base-unit-per-category
// partial index. Each statement is guarded so re-running is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"units factor_to_base > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_units_factor_positive') THEN
    ALTER TABLE units ADD CONSTRAINT chk_units_factor_positive CHECK (factor_to_base > 0);
  END IF;
END $$`},
		{"unit_conversions factor > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_unit_conversions_factor_positive') THEN
    ALTER TABLE unit_conversions ADD CONSTRAINT chk_unit_conversions_factor_positive CHECK (factor > 0);
  END IF;
END $$`},
		{"ingredient_unit_mappings quantity > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ingredient_unit_mappings_quantity_positive') THEN
    ALTER TABLE ingredient_unit_mappings
      ADD CONSTRAINT chk_ingredient_unit_mappings_quantity_positive CHECK (quantity > 0);
  END IF;
END $$`},
		{"ingredients density > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_ingredients_density_positive') THEN
    ALTER TABLE ingredients ADD CONSTRAINT chk_ingredients_density_positive CHECK (density IS NULL OR density > 0);
  END IF;
END $$`},
		// A category has exactly one base unit.
		{"one base unit per category",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_units_one_base_per_category
			    ON units (category_id) WHERE is_base_unit`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
