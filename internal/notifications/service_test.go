package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/shopfront-labs/shopfront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []Message
	err  error
}

func (m *captureMailer) Send(ctx context.Context, msg Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleConfirmation() OrderConfirmation {
	return OrderConfirmation{
		OrderID:         uuid.New(),
		OrderDate:       time.Date(2025, 7, 4, 10, 30, 0, 0, time.UTC),
		UserEmail:       "buyer@example.com",
		Username:        "buyer1",
		ShippingAddress: "12 Elm St",
		ShippedStatus:   "Completed",
		TotalPrice:      decimal.RequireFromString("25.00"),
		Lines: []LineSummary{
			{ProductName: "Desk", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")},
			{ProductName: "Chair", Quantity: 1, UnitPrice: decimal.RequireFromString("4.00")},
		},
	}
}

func TestSendOrderConfirmationAddressesBuyerAndAdmin(t *testing.T) {
	mailer := &captureMailer{}
	svc, err := NewService(ServiceParams{Mailer: mailer, AdminRecipient: "admin@example.com"})
	require.NoError(t, err)

	conf := sampleConfirmation()
	require.NoError(t, svc.SendOrderConfirmation(context.Background(), conf))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	require.Equal(t, []string{"buyer@example.com", "admin@example.com"}, msg.To)
	require.Contains(t, msg.Subject, "Order confirmation")
	require.Contains(t, msg.Body, conf.OrderID.String())
	require.Contains(t, msg.Body, "2x Desk @ 10.50 = 21.00")
	require.Contains(t, msg.Body, "Total: 25.00")
	require.Contains(t, msg.Body, "Status: Completed")
	require.Contains(t, msg.Body, "Shipping to: 12 Elm St")
}

func TestSendOrderConfirmationWrapsMailerError(t *testing.T) {
	svc, err := NewService(ServiceParams{Mailer: &captureMailer{err: errors.New("relay down")}, AdminRecipient: "admin@example.com"})
	require.NoError(t, err)

	err = svc.SendOrderConfirmation(context.Background(), sampleConfirmation())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeDependency, pkgerrors.CodeOf(err))
}

func TestSendOrderConfirmationValidatesInput(t *testing.T) {
	svc, err := NewService(ServiceParams{Mailer: &captureMailer{}, AdminRecipient: "admin@example.com"})
	require.NoError(t, err)

	missingOrder := sampleConfirmation()
	missingOrder.OrderID = uuid.Nil
	require.Error(t, svc.SendOrderConfirmation(context.Background(), missingOrder))

	missingEmail := sampleConfirmation()
	missingEmail.UserEmail = "  "
	require.Error(t, svc.SendOrderConfirmation(context.Background(), missingEmail))
}

func TestNewServiceValidatesDeps(t *testing.T) {
	_, err := NewService(ServiceParams{AdminRecipient: "admin@example.com"})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Mailer: &captureMailer{}})
	require.Error(t, err)
}
