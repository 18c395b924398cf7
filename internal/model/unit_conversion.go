package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UnitConversion is a curated factor between two units, mostly used for
// legacy cross-category pairs. Applying Factor to a quantity in FromUnit
// yields the quantity in ToUnit. The inverse row is stored separately.
type UnitConversion struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FromUnitID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_unit_conversion_pair"`
	ToUnitID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_unit_conversion_pair"`
	Factor     decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	IsDirect   bool            `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	FromUnit *Unit `gorm:"foreignKey:FromUnitID"`
	ToUnit   *Unit `gorm:"foreignKey:ToUnitID"`
}

func (UnitConversion) TableName() string { return "unit_conversions" }
