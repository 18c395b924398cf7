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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UnitService covers catalog administration: listing, creating units and
// curated conversion pairs, and removing empty categories.
type UnitService interface {
	ListGrouped(ctx context.Context) ([]dto.UnitCategoryResponse, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.UnitResponse, error)
	CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error)
	CreateConversion(ctx context.Context, req dto.CreateConversionRequest) (*dto.ConversionPairResponse, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type unitService struct {
	units   repository.UnitRepository
	factors repository.UnitConversionRepository
}

func NewUnitService(units repository.UnitRepository, factors repository.UnitConversionRepository) UnitService {
	return &unitService{units: units, factors: factors}
}

func mapUnit(u model.Unit) dto.UnitResponse {
	resp := dto.UnitResponse{
		ID:           u.ID,
		CategoryID:   u.CategoryID,
		Symbol:       u.Symbol,
		NameVi:       u.NameVi,
		NameEn:       u.NameEn,
		FactorToBase: u.FactorToBase,
		IsBaseUnit:   u.IsBaseUnit,
	}
	if u.Category != nil {
		resp.Category = u.Category.Name
	}
	return resp
}

func (s *unitService) ListGrouped(ctx context.Context) ([]dto.UnitCategoryResponse, error) {
	cats, err := s.units.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UnitCategoryResponse, 0, len(cats))
	for _, c := range cats {
		group := dto.UnitCategoryResponse{ID: c.ID, Name: c.Name, Units: make([]dto.UnitResponse, 0, len(c.Units))}
		for _, u := range c.Units {
			r := mapUnit(u)
			r.Category = c.Name
			group.Units = append(group.Units, r)
		}
		result = append(result, group)
	}
	return result, nil
}

func (s *unitService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]dto.UnitResponse, error) {
	list, err := s.units.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		result = append(result, mapUnit(u))
	}
	return result, nil
}

func (s *unitService) CreateUnit(ctx context.Context, req dto.CreateUnitRequest) (*dto.UnitResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.IsBaseUnit && !req.FactorToBase.Equal(decimal.NewFromInt(1)) {
		return nil, apperror.NewValidation(map[string]string{"FactorToBase": "base unit must have factor 1"})
	}

	cat, err := s.units.FindCategoryByID(ctx, req.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindValidation, "category %s not found", req.CategoryID)
		}
		return nil, err
	}

	existing, err := s.units.FindBySymbol(ctx, req.Symbol)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.Newf(apperror.KindConflict, "unit with symbol %q already exists", req.Symbol)
	}

	u := &model.Unit{
		CategoryID:   req.CategoryID,
		Symbol:       req.Symbol,
		NameVi:       req.NameVi,
		NameEn:       req.NameEn,
		PluralVi:     req.PluralVi,
		PluralEn:     req.PluralEn,
		FactorToBase: req.FactorToBase,
		IsBaseUnit:   req.IsBaseUnit,
	}
	if err := s.units.CreateUnit(ctx, u); err != nil {
		return nil, fmt.Errorf("create unit: %w", err)
	}
	u.Category = cat
	resp := mapUnit(*u)
	return &resp, nil
}

func (s *unitService) CreateConversion(ctx context.Context, req dto.CreateConversionRequest) (*dto.ConversionPairResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if req.FromUnitID == req.ToUnitID {
		return nil, apperror.NewValidation(map[string]string{"ToUnitID": "must differ from from_unit_id"})
	}
	for _, id := range []uuid.UUID{req.FromUnitID, req.ToUnitID} {
		if _, err := s.units.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.Newf(apperror.KindUnitNotFound, "unit %s not found", id)
			}
			return nil, err
		}
	}

	_, err := s.factors.Find(ctx, req.FromUnitID, req.ToUnitID)
	if err == nil {
		return nil, apperror.New(apperror.KindConflict, "conversion already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	inverse := decimal.NewFromInt(1).Div(req.Factor)
	fwd := &model.UnitConversion{FromUnitID: req.FromUnitID, ToUnitID: req.ToUnitID, Factor: req.Factor, IsDirect: true}
	inv := &model.UnitConversion{FromUnitID: req.ToUnitID, ToUnitID: req.FromUnitID, Factor: inverse, IsDirect: true}
	if err := s.factors.CreatePair(ctx, fwd, inv); err != nil {
		return nil, fmt.Errorf("create conversion pair: %w", err)
	}
	return &dto.ConversionPairResponse{
		FromUnitID: req.FromUnitID,
		ToUnitID:   req.ToUnitID,
		Factor:     req.Factor,
		Inverse:    inverse,
	}, nil
}

func (s *unitService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.units.FindCategoryByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Newf(apperror.KindValidation, "category %s not found", id)
		}
		return err
	}
	n, err := s.units.CountUnitsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperror.Newf(apperror.KindConflict, "category still owns %d units", n)
	}
	return s.units.DeleteCategory(ctx, id)
}
