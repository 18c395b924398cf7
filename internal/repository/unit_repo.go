package repository

import (
	"context"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitRepository is the read/write contract over the unit catalog.
// Lookups return gorm.ErrRecordNotFound when the row does not exist; units are
// always returned with their Category loaded.
type UnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error)
	FindBySymbol(ctx context.Context, symbol string) (*model.Unit, error)
	FindBySymbolInCategory(ctx context.Context, categoryID uuid.UUID, symbol string) (*model.Unit, error)
	FindBaseUnit(ctx context.Context, categoryID uuid.UUID) (*model.Unit, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Unit, error)
	List(ctx context.Context) ([]model.Unit, error)

	FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.UnitCategory, error)
	ListCategories(ctx context.Context) ([]model.UnitCategory, error)
	CountUnitsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// CreateUnit inserts u. When u.IsBaseUnit is set, the category's current
	// base unit is demoted in the same transaction.
	CreateUnit(ctx context.Context, u *model.Unit) error
}

type unitRepository struct{ db *gorm.DB }

func NewUnitRepository(db *gorm.DB) UnitRepository {
	return &unitRepository{db: db}
}

// unitOrder lists base units first, then by symbol.
const unitOrder = "is_base_unit desc, symbol asc"

func (r *unitRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).Preload("Category").First(&u, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) FindBySymbol(ctx context.Context, symbol string) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).Preload("Category").Where("symbol = ?", symbol).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) FindBySymbolInCategory(ctx context.Context, categoryID uuid.UUID, symbol string) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ? AND symbol = ?", categoryID, symbol).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) FindBaseUnit(ctx context.Context, categoryID uuid.UUID) (*model.Unit, error) {
	var u model.Unit
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ? AND is_base_unit = true", categoryID).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *unitRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Unit, error) {
	var list []model.Unit
	err := r.db.WithContext(ctx).Preload("Category").
		Where("category_id = ?", categoryID).
		Order(unitOrder).
		Find(&list).Error
	return list, err
}

func (r *unitRepository) List(ctx context.Context) ([]model.Unit, error) {
	var list []model.Unit
	err := r.db.WithContext(ctx).Preload("Category").Order(unitOrder).Find(&list).Error
	return list, err
}

func (r *unitRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*model.UnitCategory, error) {
	var c model.UnitCategory
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *unitRepository) ListCategories(ctx context.Context) ([]model.UnitCategory, error) {
	var list []model.UnitCategory
	err := r.db.WithContext(ctx).
		Preload("Units", func(db *gorm.DB) *gorm.DB { return db.Order(unitOrder) }).
		Order("name asc").
		Find(&list).Error
	return list, err
}

func (r *unitRepository) CountUnitsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Unit{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, err
}

func (r *unitRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.UnitCategory{}, "id = ?", id).Error
}

func (r *unitRepository) CreateUnit(ctx context.Context, u *model.Unit) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.IsBaseUnit {
			err := tx.Model(&model.Unit{}).
				Where("category_id = ? AND is_base_unit = true", u.CategoryID).
				Update("is_base_unit", false).Error
			if err != nil {
				return err
			}
		}
		return tx.Create(u).Error
	})
}
