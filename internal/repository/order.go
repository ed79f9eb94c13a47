package repository

import (
	"context"
	"stripe-checkout-demo/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	// FindOpenBySession returns the newest order of the session that is still
	// in Created status.
	FindOpenBySession(ctx context.Context, tx *gorm.DB, sessionKey string) (*model.Order, error)
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	// SetContents replaces the items and the discount, tax and currency of
	// an order.
	SetContents(ctx context.Context, tx *gorm.DB, order *model.Order, items []model.Item) error
	// UpdateStatus moves the order to status when it is currently in one of
	// from. It reports whether a row changed.
	UpdateStatus(ctx context.Context, orderID uint, from []string, status string) (bool, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindOpenBySession(ctx context.Context, tx *gorm.DB, sessionKey string) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Where("session_key = ? AND status = ?", sessionKey, model.OrderStatusCreated).
		Order("id DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Discount").
		Preload("Tax").
		First(&order, orderID).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepoImpl) SetContents(ctx context.Context, tx *gorm.DB, order *model.Order, items []model.Item) error {
	tx = tx.WithContext(ctx)

	err := tx.Model(order).
		Updates(map[string]interface{}{
			"discount_id": order.DiscountID,
			"tax_id":      order.TaxID,
			"currency":    order.Currency,
		}).Error
	if err != nil {
		return err
	}

	if err := tx.Model(order).Association("Items").Replace(items); err != nil {
		return err
	}
	order.Items = items
	return nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, orderID uint, from []string, status string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status IN ?", orderID, from).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	return result.RowsAffected > 0, result.Error
}
