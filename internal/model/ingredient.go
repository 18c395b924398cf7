package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ingredient is owned by the recipe side of the application. The conversion
// engine only reads UnitID, Density and CurrentPrice.
type Ingredient struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NameVi       string           `gorm:"index;not null"`
	NameEn       *string
	UnitID       *uuid.UUID       `gorm:"type:uuid;index"`
	Density      *decimal.Decimal `gorm:"type:decimal(10,4)"` // g/ml
	CurrentPrice *decimal.Decimal `gorm:"type:decimal(14,4)"` // per UnitID
	// DefaultUnit is the free-text unit from before units were normalised.
	DefaultUnit *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Unit *Unit `gorm:"foreignKey:UnitID"`
}

func (Ingredient) TableName() string { return "ingredients" }
