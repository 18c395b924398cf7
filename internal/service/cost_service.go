package service

import (
	"context"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CostService prices one recipe line: quantity in any unit, converted into
// the ingredient's own unit, times its current price.
type CostService interface {
	LineCost(ctx context.Context, ingredientID uuid.UUID, qty decimal.Decimal, unitID uuid.UUID) (*dto.LineCostResponse, error)
}

type costService struct {
	ingredients repository.IngredientRepository
	conversion  ConversionService
}

func NewCostService(ingredients repository.IngredientRepository, conversion ConversionService) CostService {
	return &costService{ingredients: ingredients, conversion: conversion}
}

func (s *costService) LineCost(ctx context.Context, ingredientID uuid.UUID, qty decimal.Decimal, unitID uuid.UUID) (*dto.LineCostResponse, error) {
	resp := &dto.LineCostResponse{IngredientID: ingredientID}

	ing, err := s.ingredients.FindByID(ctx, ingredientID)
	if err != nil {
		return nil, notFoundAs(err, apperror.KindIngredientNotFound, "ingredient %s not found", ingredientID)
	}
	if ing.UnitID == nil {
		resp.Kind, resp.Error = apperror.KindValidation, "ingredient has no unit"
		return resp, nil
	}
	if ing.CurrentPrice == nil {
		resp.Kind, resp.Error = apperror.KindValidation, "ingredient has no current price"
		return resp, nil
	}

	conv, err := s.conversion.ConvertForIngredient(ctx, qty, unitID, *ing.UnitID, ingredientID)
	if err != nil {
		return nil, err
	}
	resp.Conversion = conv
	if !conv.Success {
		resp.Kind, resp.Error = conv.Kind, conv.Error
		return resp, nil
	}

	converted := conv.Value()
	cost := converted.Mul(*ing.CurrentPrice)
	resp.Success = true
	resp.Quantity = &converted
	resp.UnitPrice = ing.CurrentPrice
	resp.Cost = &cost
	return resp, nil
}
