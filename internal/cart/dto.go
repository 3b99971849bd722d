package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

// AddItemRequest is the payload for placing a product in the cart.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gt=0"`
}

// UpdateItemRequest changes the quantity of an existing line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// LineDTO is one cart line as presented to clients. UnitPrice is the
// snapshot captured when the line was created, not the live catalog price.
type LineDTO struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// View is the full pending cart for a user.
type View struct {
	Lines    []LineDTO       `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

func lineFromModel(line *models.CartLine) LineDTO {
	dto := LineDTO{
		ID:        line.ID,
		ProductID: line.ProductID,
		UnitPrice: line.Price,
		Quantity:  line.Quantity,
		LineTotal: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
	}
	if line.Product != nil {
		dto.ProductName = line.Product.Name
	}
	return dto
}

func viewFromLines(lines []models.CartLine) *View {
	view := &View{
		Lines:    make([]LineDTO, 0, len(lines)),
		Subtotal: decimal.Zero,
	}
	for i := range lines {
		dto := lineFromModel(&lines[i])
		view.Lines = append(view.Lines, dto)
		view.Subtotal = view.Subtotal.Add(dto.LineTotal)
		view.Count += dto.Quantity
	}
	return view
}
