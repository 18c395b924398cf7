package dto

import "github.com/google/uuid"

const (
	LegacyUpdated    = "updated"
	LegacyUnresolved = "unresolved"
	LegacyFailed     = "failed"
)

type LegacyRow struct {
	IngredientID uuid.UUID  `json:"ingredient_id"`
	Name         string     `json:"name"`
	LegacyUnit   string     `json:"legacy_unit"`
	Status       string     `json:"status"`
	UnitID       *uuid.UUID `json:"unit_id,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

type LegacyReport struct {
	Scanned    int         `json:"scanned"`
	Updated    int         `json:"updated"`
	Unresolved int         `json:"unresolved"`
	Failed     int         `json:"failed"`
	Rows       []LegacyRow `json:"rows"`
}
