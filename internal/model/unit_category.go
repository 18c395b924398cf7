package model

import (
	"time"

	"github.com/google/uuid"
)

// UnitCategory groups units that convert into each other by plain
// multiplication (mass, volume, count).
type UnitCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Units []Unit `gorm:"foreignKey:CategoryID"`
}

func (UnitCategory) TableName() string { return "unit_categories" }
