package repository

import (
	"context"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MappingRepository is the read/write contract over ingredient unit mappings.
type MappingRepository interface {
	Find(ctx context.Context, ingredientID, countUnitID uuid.UUID) (*model.IngredientUnitMapping, error)
	// Upsert inserts m or, on a (ingredient_id, count_unit_id) conflict,
	// overwrites measurable_unit_id and quantity. m is refreshed from storage.
	Upsert(ctx context.Context, m *model.IngredientUnitMapping) error
	// Delete removes the row if present; an absent row is not an error.
	Delete(ctx context.Context, ingredientID, countUnitID uuid.UUID) error
	ListByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]model.IngredientUnitMapping, error)
	ListAll(ctx context.Context) ([]model.IngredientUnitMapping, error)
}

type mappingRepository struct{ db *gorm.DB }

func NewMappingRepository(db *gorm.DB) MappingRepository {
	return &mappingRepository{db: db}
}

func (r *mappingRepository) Find(ctx context.Context, ingredientID, countUnitID uuid.UUID) (*model.IngredientUnitMapping, error) {
	var m model.IngredientUnitMapping
	err := r.db.WithContext(ctx).
		Where("ingredient_id = ? AND count_unit_id = ?", ingredientID, countUnitID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mappingRepository) Upsert(ctx context.Context, m *model.IngredientUnitMapping) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ingredient_id"}, {Name: "count_unit_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"measurable_unit_id", "quantity", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	var saved model.IngredientUnitMapping
	err = db.Where("ingredient_id = ? AND count_unit_id = ?", m.IngredientID, m.CountUnitID).First(&saved).Error
	if err != nil {
		return err
	}
	*m = saved
	return nil
}

func (r *mappingRepository) Delete(ctx context.Context, ingredientID, countUnitID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("ingredient_id = ? AND count_unit_id = ?", ingredientID, countUnitID).
		Delete(&model.IngredientUnitMapping{}).Error
}

func (r *mappingRepository) ListByIngredient(ctx context.Context, ingredientID uuid.UUID) ([]model.IngredientUnitMapping, error) {
	var list []model.IngredientUnitMapping
	err := r.db.WithContext(ctx).
		Preload("CountUnit.Category").
		Preload("MeasurableUnit.Category").
		Where("ingredient_id = ?", ingredientID).
		Find(&list).Error
	return list, err
}

func (r *mappingRepository) ListAll(ctx context.Context) ([]model.IngredientUnitMapping, error) {
	var list []model.IngredientUnitMapping
	err := r.db.WithContext(ctx).
		Preload("Ingredient").
		Preload("CountUnit.Category").
		Preload("MeasurableUnit.Category").
		Joins("JOIN ingredients ON ingredients.id = ingredient_unit_mappings.ingredient_id").
		Order("ingredients.name_vi asc").
		Find(&list).Error
	return list, err
}
