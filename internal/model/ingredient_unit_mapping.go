package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// IngredientUnitMapping states that one CountUnit of the ingredient equals
// Quantity of MeasurableUnit (1 "quả" of egg = 60 "g").
type IngredientUnitMapping struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IngredientID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_count_unit"`
	CountUnitID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_ingredient_count_unit"`
	MeasurableUnitID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Ingredient     *Ingredient `gorm:"foreignKey:IngredientID"`
	CountUnit      *Unit       `gorm:"foreignKey:CountUnitID"`
	MeasurableUnit *Unit       `gorm:"foreignKey:MeasurableUnitID"`
}

func (IngredientUnitMapping) TableName() string { return "ingredient_unit_mappings" }
