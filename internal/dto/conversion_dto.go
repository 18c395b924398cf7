package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
)

// ── Conversion results ────────────────────────────────────────────────────────

// ConversionResult is returned by every conversion operation. Business
// failures (no path, missing density, missing mapping) come back here with
// Success=false instead of as a Go error.
type ConversionResult struct {
	Success               bool             `json:"success"`
	ConvertedValue        *decimal.Decimal `json:"converted_value,omitempty"`
	Error                 string           `json:"error,omitempty"`
	Kind                  apperror.Kind    `json:"kind,omitempty"`
	Path                  []uuid.UUID      `json:"path,omitempty"`
	UsedIngredientMapping bool             `json:"used_ingredient_mapping"`
	MappingDetails        *MappingDetails  `json:"mapping_details,omitempty"`
}

// MappingDetails records which ingredient mapping a conversion went through.
type MappingDetails struct {
	OriginalUnitID  uuid.UUID       `json:"original_unit_id"`
	MappedUnitID    uuid.UUID       `json:"mapped_unit_id"`
	MappingQuantity decimal.Decimal `json:"mapping_quantity"`
}

func Converted(v decimal.Decimal, path ...uuid.UUID) *ConversionResult {
	return &ConversionResult{Success: true, ConvertedValue: &v, Path: path}
}

func Failed(kind apperror.Kind, msg string) *ConversionResult {
	return &ConversionResult{Success: false, Kind: kind, Error: msg}
}

// Value returns the converted value or zero for a failed result.
func (r *ConversionResult) Value() decimal.Decimal {
	if r == nil || r.ConvertedValue == nil {
		return decimal.Zero
	}
	return *r.ConvertedValue
}
