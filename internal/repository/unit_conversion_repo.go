package repository

import (
	"context"

	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitConversionRepository reads and writes curated conversion factors.
type UnitConversionRepository interface {
	Find(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (*model.UnitConversion, error)
	// CreatePair stores a factor and its inverse atomically.
	CreatePair(ctx context.Context, forward, inverse *model.UnitConversion) error
}

type unitConversionRepository struct{ db *gorm.DB }

func NewUnitConversionRepository(db *gorm.DB) UnitConversionRepository {
	return &unitConversionRepository{db: db}
}

func (r *unitConversionRepository) Find(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (*model.UnitConversion, error) {
	var c model.UnitConversion
	err := r.db.WithContext(ctx).
		Where("from_unit_id = ? AND to_unit_id = ?", fromUnitID, toUnitID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *unitConversionRepository) CreatePair(ctx context.Context, forward, inverse *model.UnitConversion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(forward).Error; err != nil {
			return err
		}
		return tx.Create(inverse).Error
	})
}
