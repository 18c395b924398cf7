package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type SetMappingRequest struct {
	IngredientID     uuid.UUID       `json:"ingredient_id"      validate:"required"`
	CountUnitID      uuid.UUID       `json:"count_unit_id"      validate:"required"`
	MeasurableUnitID uuid.UUID       `json:"measurable_unit_id" validate:"required"`
	Quantity         decimal.Decimal `json:"quantity"           validate:"required,gt=0"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type MappingResponse struct {
	ID                   uuid.UUID       `json:"id"`
	IngredientID         uuid.UUID       `json:"ingredient_id"`
	IngredientName       string          `json:"ingredient_name,omitempty"`
	CountUnitID          uuid.UUID       `json:"count_unit_id"`
	CountUnitSymbol      string          `json:"count_unit_symbol,omitempty"`
	MeasurableUnitID     uuid.UUID       `json:"measurable_unit_id"`
	MeasurableUnitSymbol string          `json:"measurable_unit_symbol,omitempty"`
	Quantity             decimal.Decimal `json:"quantity"`
}

const (
	BulkItemOK     = "ok"
	BulkItemFailed = "failed"
)

type BulkMappingItem struct {
	Index   int               `json:"index"`
	Request SetMappingRequest `json:"request"`
	Status  string            `json:"status"`
	Kind    apperror.Kind     `json:"kind,omitempty"`
	Error   string            `json:"error,omitempty"`
	Mapping *MappingResponse  `json:"mapping,omitempty"`
}

// BulkMappingResponse reports each item independently; a failed item never
// affects its siblings.
type BulkMappingResponse struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Items      []BulkMappingItem `json:"items"`
}

// Errors returns only the failed items.
func (r BulkMappingResponse) Errors() []BulkMappingItem {
	out := make([]BulkMappingItem, 0, r.Failed)
	for _, it := range r.Items {
		if it.Status == BulkItemFailed {
			out = append(out, it)
		}
	}
	return out
}
