package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

// LineRepository defines the persistence surface for cart lines. Checkout
// rebinds it into its transaction via WithTx.
type LineRepository interface {
	WithTx(tx *gorm.DB) LineRepository
	AddLine(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal, quantity int) error
	ListPending(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	ListPendingForUpdate(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error
	ClearPending(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkPurchased(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID, orderID uuid.UUID) (int64, error)
}
