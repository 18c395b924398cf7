package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
)

type LineCostResponse struct {
	IngredientID uuid.UUID         `json:"ingredient_id"`
	Success      bool              `json:"success"`
	Quantity     *decimal.Decimal  `json:"quantity,omitempty"` // in the ingredient's own unit
	UnitPrice    *decimal.Decimal  `json:"unit_price,omitempty"`
	Cost         *decimal.Decimal  `json:"cost,omitempty"`
	Kind         apperror.Kind     `json:"kind,omitempty"`
	Error        string            `json:"error,omitempty"`
	Conversion   *ConversionResult `json:"conversion,omitempty"`
}
