package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

// OrderLineDTO is one purchased line inside an order.
type OrderLineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderDTO is the transport shape for a completed order.
type OrderDTO struct {
	ID              uuid.UUID       `json:"id"`
	ShippedStatus   string          `json:"shipped_status"`
	OrderDate       time.Time       `json:"order_date"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	ShippingAddress string          `json:"shipping_address"`
	Lines           []OrderLineDTO  `json:"lines"`
}

// CreateOrderDTO holds the data required by the repo to persist a new order.
type CreateOrderDTO struct {
	UserID          uuid.UUID
	ShippedStatus   string
	OrderDate       time.Time
	TotalPrice      decimal.Decimal
	ShippingAddress string
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}

	dto := &OrderDTO{
		ID:              o.ID,
		ShippedStatus:   o.ShippedStatus,
		OrderDate:       o.OrderDate,
		TotalPrice:      o.TotalPrice,
		ShippingAddress: o.ShippingAddress,
		Lines:           make([]OrderLineDTO, 0, len(o.Lines)),
	}
	for i := range o.Lines {
		line := &o.Lines[i]
		lineDTO := OrderLineDTO{
			ProductID: line.ProductID,
			UnitPrice: line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
		}
		if line.Product != nil {
			lineDTO.ProductName = line.Product.Name
		}
		dto.Lines = append(dto.Lines, lineDTO)
	}
	return dto
}
