package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateUnitRequest struct {
	CategoryID   uuid.UUID       `json:"category_id"    validate:"required"`
	Symbol       string          `json:"symbol"         validate:"required,min=1,max=20"`
	NameVi       string          `json:"name_vi"        validate:"required,min=1,max=100"`
	NameEn       string          `json:"name_en"        validate:"required,min=1,max=100"`
	PluralVi     *string         `json:"plural_vi"      validate:"omitempty,max=100"`
	PluralEn     *string         `json:"plural_en"      validate:"omitempty,max=100"`
	IsBaseUnit   bool            `json:"is_base_unit"`
	FactorToBase decimal.Decimal `json:"factor_to_base" validate:"required,gt=0"`
}

type CreateConversionRequest struct {
	FromUnitID uuid.UUID       `json:"from_unit_id" validate:"required"`
	ToUnitID   uuid.UUID       `json:"to_unit_id"   validate:"required"`
	Factor     decimal.Decimal `json:"factor"       validate:"required,gt=0"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type UnitResponse struct {
	ID           uuid.UUID       `json:"id"`
	CategoryID   uuid.UUID       `json:"category_id"`
	Category     string          `json:"category,omitempty"`
	Symbol       string          `json:"symbol"`
	NameVi       string          `json:"name_vi"`
	NameEn       string          `json:"name_en"`
	FactorToBase decimal.Decimal `json:"factor_to_base"`
	IsBaseUnit   bool            `json:"is_base_unit"`
}

type UnitCategoryResponse struct {
	ID    uuid.UUID      `json:"id"`
	Name  string         `json:"name"`
	Units []UnitResponse `json:"units"`
}

type ConversionPairResponse struct {
	FromUnitID uuid.UUID       `json:"from_unit_id"`
	ToUnitID   uuid.UUID       `json:"to_unit_id"`
	Factor     decimal.Decimal `json:"factor"`
	Inverse    decimal.Decimal `json:"inverse"`
}
