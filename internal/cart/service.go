package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

// Service defines the behavior needed by the cart controller.
type Service interface {
	AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*View, error)
	UpdateItem(ctx context.Context, userID, lineID uuid.UUID, req UpdateItemRequest) (*View, error)
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*View, error)
	ViewCart(ctx context.Context, userID uuid.UUID) (*View, error)
}

type lineRepository interface {
	AddLine(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal, quantity int) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	lines    lineRepository
	products productFinder
}

// ServiceParams bundles the dependencies required to build a cart service.
type ServiceParams struct {
	LineRepo    lineRepository
	ProductRepo productFinder
}

// NewService constructs a cart service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.LineRepo == nil {
		return nil, fmt.Errorf("cart line repository is required")
	}
	if params.ProductRepo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{lines: params.LineRepo, products: params.ProductRepo}, nil
}

// AddItem snapshots the product's current price onto the cart line. Repeated
// adds of the same product collapse into one line with a higher quantity; the
// original snapshot price is kept.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*View, error) {
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup product")
	}

	if err := s.lines.AddLine(ctx, userID, product.ID, product.Price, quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add cart line")
	}
	return s.ViewCart(ctx, userID)
}

func (s *service) UpdateItem(ctx context.Context, userID, lineID uuid.UUID, req UpdateItemRequest) (*View, error) {
	if req.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if err := s.lines.UpdateQuantity(ctx, userID, lineID, req.Quantity); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update cart line")
	}
	return s.ViewCart(ctx, userID)
}

func (s *service) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (*View, error) {
	if err := s.lines.RemoveLine(ctx, userID, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "remove cart line")
	}
	return s.ViewCart(ctx, userID)
}

func (s *service) ViewCart(ctx context.Context, userID uuid.UUID) (*View, error) {
	lines, err := s.lines.ListPending(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart lines")
	}
	return viewFromLines(lines), nil
}
