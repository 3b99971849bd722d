package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopfront-labs/shopfront-backend/pkg/db"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

// Repository exposes cart-line persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) LineRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// AddLine adds quantity of a product to the user's pending cart. An existing
// pending line is incremented in place; otherwise a new line is inserted with
// the supplied price snapshot. The partial unique index on
// (user_id, product_id) WHERE NOT purchased closes the update/insert race: a
// losing insert retries the increment once.
func (r *Repository) AddLine(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal, quantity int) error {
	if incremented, err := r.incrementPending(ctx, userID, productID, quantity); err != nil || incremented {
		return err
	}

	line := &models.CartLine{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Price:     price,
		Quantity:  quantity,
	}
	err := r.db.WithContext(ctx).Create(line).Error
	if err == nil {
		return nil
	}
	if !db.IsUniqueViolation(err) {
		return err
	}

	// concurrent add won the insert; fold into its line
	incremented, err := r.incrementPending(ctx, userID, productID, quantity)
	if err != nil {
		return err
	}
	if !incremented {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) incrementPending(ctx context.Context, userID, productID uuid.UUID, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("user_id = ? AND product_id = ? AND NOT purchased", userID, productID).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListPending returns the user's pending lines with products preloaded,
// oldest first.
func (r *Repository) ListPending(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND NOT purchased", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// ListPendingForUpdate locks the user's pending lines for the duration of the
// surrounding transaction. Callers must run this inside a transaction.
func (r *Repository) ListPendingForUpdate(ctx context.Context, userID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND NOT purchased", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// UpdateQuantity sets the quantity on one pending line owned by the user.
// Returns gorm.ErrRecordNotFound when no pending line matched.
func (r *Repository) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ? AND NOT purchased", lineID, userID).
		UpdateColumn("quantity", quantity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RemoveLine deletes one pending line owned by the user.
func (r *Repository) RemoveLine(ctx context.Context, userID, lineID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND NOT purchased", lineID, userID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearPending removes every pending line for the user. Purchased lines are
// order history and stay untouched.
func (r *Repository) ClearPending(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND NOT purchased", userID).
		Delete(&models.CartLine{})
	return result.RowsAffected, result.Error
}

// MarkPurchased attaches the given pending lines to an order and flips their
// purchased flag. The affected-row count lets the caller detect lines that
// changed underneath the transaction.
func (r *Repository) MarkPurchased(ctx context.Context, userID uuid.UUID, lineIDs []uuid.UUID, orderID uuid.UUID) (int64, error) {
	if len(lineIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id IN ? AND user_id = ? AND NOT purchased", lineIDs, userID).
		UpdateColumns(map[string]any{
			"purchased": true,
			"order_id":  orderID,
		})
	return result.RowsAffected, result.Error
}
