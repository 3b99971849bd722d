package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
)

// LineSummary is one purchased line as rendered into the confirmation body.
type LineSummary struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// OrderConfirmation carries everything needed to notify about a new order.
type OrderConfirmation struct {
	OrderID         uuid.UUID
	OrderDate       time.Time
	UserEmail       string
	Username        string
	ShippingAddress string
	ShippedStatus   string
	TotalPrice      decimal.Decimal
	Lines           []LineSummary
}

// Service sends transactional storefront mail.
type Service interface {
	SendOrderConfirmation(ctx context.Context, input OrderConfirmation) error
}

type service struct {
	mailer         Mailer
	adminRecipient string
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Mailer         Mailer
	AdminRecipient string
}

// NewService wires notification dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Mailer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mailer required")
	}
	if strings.TrimSpace(params.AdminRecipient) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "admin recipient required")
	}
	return &service{
		mailer:         params.Mailer,
		adminRecipient: params.AdminRecipient,
	}, nil
}

// SendOrderConfirmation mails the buyer and the storefront admin a summary
// of the order that was just placed.
func (s *service) SendOrderConfirmation(ctx context.Context, input OrderConfirmation) error {
	if input.OrderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if strings.TrimSpace(input.UserEmail) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user email required")
	}

	msg := Message{
		To:      []string{input.UserEmail, s.adminRecipient},
		Subject: fmt.Sprintf("Order confirmation %s", input.OrderID),
		Body:    buildConfirmationBody(input),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send order confirmation")
	}
	return nil
}

func buildConfirmationBody(input OrderConfirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", input.Username)
	fmt.Fprintf(&b, "Thanks for your order %s placed on %s.\n\n", input.OrderID, input.OrderDate.Format("Jan 2, 2006 15:04 MST"))

	for _, line := range input.Lines {
		total := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "  %dx %s @ %s = %s\n", line.Quantity, line.ProductName, line.UnitPrice.StringFixed(2), total.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", input.TotalPrice.StringFixed(2))
	fmt.Fprintf(&b, "Status: %s\n", input.ShippedStatus)
	fmt.Fprintf(&b, "Shipping to: %s\n", input.ShippingAddress)
	return b.String()
}
