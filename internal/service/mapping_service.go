package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/model"
	"github.com/zlatanpham/exploro-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// MappingService manages per-ingredient count unit mappings.
type MappingService interface {
	Set(ctx context.Context, req dto.SetMappingRequest) (*dto.MappingResponse, error)
	Delete(ctx context.Context, ingredientID, countUnitID uuid.UUID) error
	ListByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]dto.MappingResponse, error)
	ListAll(ctx context.Context) ([]dto.MappingResponse, error)
	// BulkSet applies every request independently and never aborts early.
	BulkSet(ctx context.Context, reqs []dto.SetMappingRequest) dto.BulkMappingResponse
}

type mappingService struct {
	repo        repository.MappingRepository
	units       repository.UnitRepository
	ingredients repository.IngredientRepository
}

func NewMappingService(repo repository.MappingRepository, units repository.UnitRepository, ingredients repository.IngredientRepository) MappingService {
	return &mappingService{repo: repo, units: units, ingredients: ingredients}
}

func mapMapping(m model.IngredientUnitMapping) dto.MappingResponse {
	resp := dto.MappingResponse{
		ID:               m.ID,
		IngredientID:     m.IngredientID,
		CountUnitID:      m.CountUnitID,
		MeasurableUnitID: m.MeasurableUnitID,
		Quantity:         m.Quantity,
	}
	if m.Ingredient != nil {
		resp.IngredientName = m.Ingredient.NameVi
	}
	if m.CountUnit != nil {
		resp.CountUnitSymbol = m.CountUnit.Symbol
	}
	if m.MeasurableUnit != nil {
		resp.MeasurableUnitSymbol = m.MeasurableUnit.Symbol
	}
	return resp
}

func (s *mappingService) Set(ctx context.Context, req dto.SetMappingRequest) (*dto.MappingResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	ing, err := s.ingredients.FindByID(ctx, req.IngredientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindIngredientNotFound, "ingredient %s not found", req.IngredientID)
		}
		return nil, fmt.Errorf("load ingredient: %w", err)
	}
	countUnit, err := s.findUnit(ctx, req.CountUnitID)
	if err != nil {
		return nil, err
	}
	measurableUnit, err := s.findUnit(ctx, req.MeasurableUnitID)
	if err != nil {
		return nil, err
	}

	if countUnit.Kind() != model.KindCount {
		return nil, apperror.NewValidation(map[string]string{
			"CountUnitID": fmt.Sprintf("unit %q must belong to the count category", countUnit.Symbol),
		})
	}
	if !measurableUnit.Kind().Measurable() {
		return nil, apperror.NewValidation(map[string]string{
			"MeasurableUnitID": fmt.Sprintf("unit %q must belong to the mass or volume category", measurableUnit.Symbol),
		})
	}

	m := &model.IngredientUnitMapping{
		IngredientID:     req.IngredientID,
		CountUnitID:      req.CountUnitID,
		MeasurableUnitID: req.MeasurableUnitID,
		Quantity:         req.Quantity,
	}
	if err := s.repo.Upsert(ctx, m); err != nil {
		return nil, fmt.Errorf("upsert mapping: %w", err)
	}
	m.Ingredient, m.CountUnit, m.MeasurableUnit = ing, countUnit, measurableUnit

	log.Info().
		Str("ingredient_id", req.IngredientID.String()).
		Str("count_unit", countUnit.Symbol).
		Str("measurable_unit", measurableUnit.Symbol).
		Str("quantity", req.Quantity.String()).
		Msg("ingredient mapping saved")

	resp := mapMapping(*m)
	return &resp, nil
}

func (s *mappingService) Delete(ctx context.Context, ingredientID, countUnitID uuid.UUID) error {
	if err := s.repo.Delete(ctx, ingredientID, countUnitID); err != nil {
		return fmt.Errorf("delete mapping: %w", err)
	}
	return nil
}

func (s *mappingService) ListByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]dto.MappingResponse, error) {
	list, err := s.repo.ListByIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	return mapMappings(list), nil
}

func (s *mappingService) ListAll(ctx context.Context) ([]dto.MappingResponse, error) {
	list, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapMappings(list), nil
}

func (s *mappingService) BulkSet(ctx context.Context, reqs []dto.SetMappingRequest) dto.BulkMappingResponse {
	out := dto.BulkMappingResponse{Items: make([]dto.BulkMappingItem, 0, len(reqs))}
	for i, req := range reqs {
		item := dto.BulkMappingItem{Index: i, Request: req}
		resp, err := s.Set(ctx, req)
		if err != nil {
			item.Status = dto.BulkItemFailed
			item.Kind = apperror.KindOf(err)
			item.Error = err.Error()
			out.Failed++
		} else {
			item.Status = dto.BulkItemOK
			item.Mapping = resp
			out.Successful++
		}
		out.Items = append(out.Items, item)
	}
	if out.Failed > 0 {
		log.Warn().Int("successful", out.Successful).Int("failed", out.Failed).Msg("bulk mapping finished with failures")
	}
	return out
}

func (s *mappingService) findUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	u, err := s.units.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindUnitNotFound, "unit %s not found", id)
		}
		return nil, fmt.Errorf("load unit %s: %w", id, err)
	}
	return u, nil
}

func mapMappings(list []model.IngredientUnitMapping) []dto.MappingResponse {
	result := make([]dto.MappingResponse, 0, len(list))
	for _, m := range list {
		result = append(result, mapMapping(m))
	}
	return result
}
