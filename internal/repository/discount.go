package repository

import (
	"context"
	"errors"
	"stripe-checkout-demo/internal/model"

	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(ctx context.Context, discount *model.Discount) error
	// FindByID returns nil without error when there is no such discount.
	FindByID(ctx context.Context, id uint) (*model.Discount, error)
}

type discountRepoImpl struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepoImpl{db: db}
}

func (r *discountRepoImpl) Create(ctx context.Context, discount *model.Discount) error {
	return r.db.WithContext(ctx).Create(discount).Error
}

func (r *discountRepoImpl) FindByID(ctx context.Context, id uint) (*model.Discount, error) {
	var discount model.Discount
	err := r.db.WithContext(ctx).First(&discount, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discount, nil
}
