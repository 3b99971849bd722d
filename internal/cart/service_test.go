package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubLineRepo struct {
	lines []models.CartLine

	addedProductID uuid.UUID
	addedPrice     decimal.Decimal
	addedQty       int

	updateErr error
	removeErr error
}

func (s *stubLineRepo) AddLine(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal, quantity int) error {
	s.addedProductID = productID
	s.addedPrice = price
	s.addedQty = quantity
	return nil
}

func (s *stubLineRepo) ListPending(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	return s.lines, nil
}

func (s *stubLineRepo) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	return s.updateErr
}

func (s *stubLineRepo) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	return s.removeErr
}

type stubProductFinder struct {
	product *models.Product
	err     error
}

func (s *stubProductFinder) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func newCartService(t *testing.T, lines *stubLineRepo, products *stubProductFinder) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{LineRepo: lines, ProductRepo: products})
	require.NoError(t, err)
	return svc
}

func TestAddItemSnapshotsCatalogPrice(t *testing.T) {
	product := &models.Product{ID: uuid.New(), Name: "Desk", Price: decimal.RequireFromString("120.00")}
	lines := &stubLineRepo{}
	svc := newCartService(t, lines, &stubProductFinder{product: product})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: product.ID})
	require.NoError(t, err)
	require.Equal(t, product.ID, lines.addedProductID)
	require.True(t, lines.addedPrice.Equal(product.Price))
	require.Equal(t, 1, lines.addedQty, "quantity defaults to 1")
}

func TestAddItemUnknownProduct(t *testing.T) {
	lines := &stubLineRepo{}
	svc := newCartService(t, lines, &stubProductFinder{err: gorm.ErrRecordNotFound})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemRequest{ProductID: uuid.New()})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateItemRejectsNonPositiveQuantity(t *testing.T) {
	svc := newCartService(t, &stubLineRepo{}, &stubProductFinder{})

	for _, qty := range []int{0, -3} {
		_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemRequest{Quantity: qty})
		require.Error(t, err)
		require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
	}
}

func TestUpdateItemMapsMissingLineToNotFound(t *testing.T) {
	svc := newCartService(t, &stubLineRepo{updateErr: gorm.ErrRecordNotFound}, &stubProductFinder{})

	_, err := svc.UpdateItem(context.Background(), uuid.New(), uuid.New(), UpdateItemRequest{Quantity: 2})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestViewCartTotals(t *testing.T) {
	desk := &models.Product{ID: uuid.New(), Name: "Desk"}
	chair := &models.Product{ID: uuid.New(), Name: "Chair"}
	lines := &stubLineRepo{lines: []models.CartLine{
		{
			ID:        uuid.New(),
			ProductID: desk.ID,
			Product:   desk,
			Price:     decimal.RequireFromString("10.50"),
			Quantity:  2,
		},
		{
			ID:        uuid.New(),
			ProductID: chair.ID,
			Product:   chair,
			Price:     decimal.RequireFromString("4.00"),
			Quantity:  1,
		},
	}}
	svc := newCartService(t, lines, &stubProductFinder{})

	view, err := svc.ViewCart(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	require.Equal(t, 3, view.Count)
	require.True(t, view.Subtotal.Equal(decimal.RequireFromString("25.00")))
	require.Equal(t, "Desk", view.Lines[0].ProductName)
	require.True(t, view.Lines[0].LineTotal.Equal(decimal.RequireFromString("21.00")))
}
