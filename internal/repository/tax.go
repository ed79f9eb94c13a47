package repository

import (
	"context"
	"errors"
	"stripe-checkout-demo/internal/model"

	"gorm.io/gorm"
)

type TaxRepository interface {
	Create(ctx context.Context, tax *model.Tax) error
	// FindByID returns nil without error when there is no such tax.
	FindByID(ctx context.Context, id uint) (*model.Tax, error)
}

type taxRepoImpl struct {
	db *gorm.DB
}

func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepoImpl{db: db}
}

func (r *taxRepoImpl) Create(ctx context.Context, tax *model.Tax) error {
	return r.db.WithContext(ctx).Create(tax).Error
}

func (r *taxRepoImpl) FindByID(ctx context.Context, id uint) (*model.Tax, error) {
	var tax model.Tax
	err := r.db.WithContext(ctx).First(&tax, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tax, nil
}
