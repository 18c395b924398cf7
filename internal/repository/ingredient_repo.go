package repository

import (
	"context"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IngredientRepository exposes the slice of the ingredient table the
// conversion engine and the legacy unit migration need.
type IngredientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	// ListWithLegacyUnit returns ingredients that still carry a free-text
	// unit and have no normalised unit reference.
	ListWithLegacyUnit(ctx context.Context) ([]model.Ingredient, error)
	SetUnit(ctx context.Context, id, unitID uuid.UUID) error
}

type ingredientRepository struct{ db *gorm.DB }

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

func (r *ingredientRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var i model.Ingredient
	err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *ingredientRepository) ListWithLegacyUnit(ctx context.Context) ([]model.Ingredient, error) {
	var list []model.Ingredient
	err := r.db.WithContext(ctx).
		Where("unit_id IS NULL AND default_unit IS NOT NULL AND default_unit <> ''").
		Order("name_vi asc").
		Find(&list).Error
	return list, err
}

func (r *ingredientRepository) SetUnit(ctx context.Context, id, unitID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Ingredient{}).Where("id = ?", id).Update("unit_id", unitID).Error
}
