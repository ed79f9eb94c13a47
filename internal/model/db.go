package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	CurrencyUSD = "usd"
	CurrencyRUB = "rub"

	OrderStatusCreated    = "Created"
	OrderStatusInProgress = "InProgress"
	OrderStatusDone       = "Done"
)

type Item struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"size:800"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency    string          `gorm:"size:3;not null;default:usd"`
}

// Discount is backed by a Stripe coupon, Tax by a Stripe tax rate. Both
// store the Stripe id created for them.
type Discount struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:255;not null"`
	Percentage uint   `gorm:"not null"`
	StripeID   string `gorm:"size:255"`
}

type Tax struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"size:255;not null"`
	Percentage uint   `gorm:"not null"`
	StripeID   string `gorm:"size:255"`
}

type Order struct {
	ID         uint      `gorm:"primaryKey"`
	Items      []Item    `gorm:"many2many:order_items;"`
	DiscountID *uint     `gorm:"index"`
	Discount   *Discount `gorm:"constraint:OnDelete:SET NULL;"`
	TaxID      *uint     `gorm:"index"`
	Tax        *Tax      `gorm:"constraint:OnDelete:SET NULL;"`
	Currency   string    `gorm:"size:3;not null;default:usd"`
	Status     string    `gorm:"size:15;index;not null;default:Created"` // Created, InProgress, Done
	SessionKey string    `gorm:"size:255;index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
