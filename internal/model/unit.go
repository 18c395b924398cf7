package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Unit is a catalog entry. FactorToBase is how many base units of the
// category one of this unit equals ("g" -> 0.001 when "kg" is the base).
type Unit struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CategoryID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Symbol       string          `gorm:"uniqueIndex;not null"`
	NameVi       string          `gorm:"not null"`
	NameEn       string          `gorm:"not null"`
	PluralVi     *string
	PluralEn     *string
	FactorToBase decimal.Decimal `gorm:"type:decimal(20,10);not null"`
	IsBaseUnit   bool            `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Category *UnitCategory `gorm:"foreignKey:CategoryID"`
}

func (Unit) TableName() string { return "units" }

// Kind resolves the category kind of a unit loaded with its Category.
func (u Unit) Kind() CategoryKind {
	if u.Category == nil {
		return KindUnknown
	}
	return KindOf(u.Category.Name)
}

// CategoryName is safe to call on units loaded without their category.
func (u Unit) CategoryName() string {
	if u.Category == nil {
		return u.CategoryID.String()
	}
	return u.Category.Name
}
