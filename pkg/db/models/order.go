package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is the immutable result of a checkout. TotalPrice is computed once
// at order creation and never recomputed; ShippingAddress is copied from
// the checkout form input, not from the user's stored address.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	ShippedStatus   string          `gorm:"column:shipped_status;type:text;not null;default:'Pending'"`
	OrderDate       time.Time       `gorm:"column:order_date;not null"`
	TotalPrice      decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	ShippingAddress string          `gorm:"column:shipping_address;type:text;not null"`
	Lines           []CartLine      `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
