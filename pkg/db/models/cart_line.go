package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a user's cart. Price is snapshotted at
// add time and never re-read from the catalog, so historical totals are
// insulated from later price changes. A partial unique index on
// (user_id, product_id) WHERE NOT purchased keeps duplicate adds collapsing
// into a single pending line.
type CartLine struct {
	ID        uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;not null"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Price     decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Quantity  int             `gorm:"column:quantity;not null;default:1"`
	Purchased bool            `gorm:"column:purchased;not null;default:false"`
	OrderID   *uuid.UUID      `gorm:"column:order_id;type:uuid"`
	Product   *Product        `gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
