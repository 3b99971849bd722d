package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/internal/notifications"
	"github.com/shopfront-labs/shopfront-backend/internal/orders"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/db"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
	"github.com/shopfront-labs/shopfront-backend/pkg/metrics"
)

type txRunner interface {
	WithSerializableTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Request is the payload for converting a cart into an order.
type Request struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// Result is the checkout outcome. EmailSent is false when the order was
// committed but the confirmation mail could not be delivered.
type Result struct {
	Order     *orders.OrderDTO `json:"order"`
	EmailSent bool             `json:"email_sent"`
}

// Service executes checkout orchestration.
type Service interface {
	Execute(ctx context.Context, userID uuid.UUID, req Request) (*Result, error)
}

type service struct {
	tx         txRunner
	cartRepo   cart.LineRepository
	ordersRepo orders.Repository
	users      userLoader
	notifier   notifications.Service
	logg       *logger.Logger
	metrics    *metrics.CheckoutMetrics
	cfg        config.CheckoutConfig
}

// ServiceParams bundles the dependencies required to build the checkout service.
type ServiceParams struct {
	TxRunner  txRunner
	CartRepo  cart.LineRepository
	OrderRepo orders.Repository
	UserRepo  userLoader
	Notifier  notifications.Service
	Logger    *logger.Logger
	Metrics   *metrics.CheckoutMetrics
	Config    config.CheckoutConfig
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.CartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if params.OrderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	status := params.Config.DefaultStatus
	if strings.TrimSpace(status) == "" {
		return nil, fmt.Errorf("default order status required")
	}
	return &service{
		tx:         params.TxRunner,
		cartRepo:   params.CartRepo,
		ordersRepo: params.OrderRepo,
		users:      params.UserRepo,
		notifier:   params.Notifier,
		logg:       params.Logger,
		metrics:    params.Metrics,
		cfg:        params.Config,
	}, nil
}

// Execute converts the user's pending cart into an order atomically. The
// whole conversion runs in one serializable transaction: pending lines are
// locked, totaled from their snapshot prices, attached to a new order, and
// flipped to purchased. Any concurrent mutation of the same cart surfaces as
// a retryable conflict instead of a partial order. The confirmation email is
// sent after commit and never rolls the order back.
func (s *service) Execute(ctx context.Context, userID uuid.UUID, req Request) (*Result, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	address := strings.TrimSpace(req.ShippingAddress)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	var (
		order *models.Order
		lines []models.CartLine
	)
	err := s.tx.WithSerializableTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)

		var err error
		lines, err = cartRepo.ListPendingForUpdate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lock cart lines")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		total := decimal.Zero
		lineIDs := make([]uuid.UUID, 0, len(lines))
		for i := range lines {
			line := &lines[i]
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			lineIDs = append(lineIDs, line.ID)
		}

		order, err = ordersRepo.Create(ctx, orders.CreateOrderDTO{
			UserID:          userID,
			ShippedStatus:   s.cfg.DefaultStatus,
			OrderDate:       time.Now().UTC(),
			TotalPrice:      total,
			ShippingAddress: address,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
		}

		affected, err := cartRepo.MarkPurchased(ctx, userID, lineIDs, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark lines purchased")
		}
		if affected != int64(len(lineIDs)) {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart changed during checkout")
		}
		return nil
	})
	if err != nil {
		if db.IsSerializationFailure(err) {
			s.metrics.IncConflict()
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "concurrent checkout detected")
		}
		if pkgerrors.CodeOf(err) == pkgerrors.CodeConflict {
			s.metrics.IncConflict()
		}
		return nil, err
	}

	s.metrics.IncOrder()
	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	// reload with products for the response and the confirmation body
	full, err := s.ordersRepo.FindByIDForUser(ctx, userID, order.ID)
	if err != nil {
		s.logg.Error(ctx, "order committed but reload failed", err)
		full = order
		full.Lines = lines
	}

	emailSent := s.sendConfirmation(ctx, userID, full)
	return &Result{Order: orders.FromModel(full), EmailSent: emailSent}, nil
}

func (s *service) sendConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) bool {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logg.Error(ctx, "order committed but user lookup for confirmation failed", err)
		return false
	}

	summaries := make([]notifications.LineSummary, 0, len(order.Lines))
	for i := range order.Lines {
		line := &order.Lines[i]
		name := ""
		if line.Product != nil {
			name = line.Product.Name
		}
		summaries = append(summaries, notifications.LineSummary{
			ProductName: name,
			Quantity:    line.Quantity,
			UnitPrice:   line.Price,
		})
	}

	err = s.notifier.SendOrderConfirmation(ctx, notifications.OrderConfirmation{
		OrderID:         order.ID,
		OrderDate:       order.OrderDate,
		UserEmail:       user.Email,
		Username:        user.Username,
		ShippingAddress: order.ShippingAddress,
		ShippedStatus:   order.ShippedStatus,
		TotalPrice:      order.TotalPrice,
		Lines:           summaries,
	})
	if err != nil {
		s.logg.Warn(ctx, "order committed but confirmation email failed: "+err.Error())
		return false
	}
	return true
}
