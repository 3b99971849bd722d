package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	internalorders "github.com/shopfront-labs/shopfront-backend/internal/orders"
	"github.com/shopfront-labs/shopfront-backend/pkg/db/models"
)

type stubOrdersRepo struct {
	orders    []models.Order
	order     *models.Order
	err       error
	gotUserID uuid.UUID
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) internalorders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, dto internalorders.CreateOrderDTO) (*models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	s.gotUserID = userID
	return s.orders, s.err
}

func (s *stubOrdersRepo) FindByIDForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	s.gotUserID = userID
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func withOrderParam(req *http.Request, orderID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("orderId", orderID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestOrdersListScopedToCaller(t *testing.T) {
	userID := uuid.New()
	repo := &stubOrdersRepo{orders: []models.Order{{
		ID:            uuid.New(),
		UserID:        userID,
		ShippedStatus: "Completed",
		OrderDate:     time.Now().UTC(),
		TotalPrice:    decimal.RequireFromString("42.00"),
	}}}
	handler := OrdersList(repo, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/v1/orders", "", userID))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, repo.gotUserID)

	var envelope struct {
		Data struct {
			Orders []internalorders.OrderDTO `json:"orders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Orders, 1)
	require.Equal(t, "Completed", envelope.Data.Orders[0].ShippedStatus)
}

func TestOrderDetailMapsMissingToNotFound(t *testing.T) {
	repo := &stubOrdersRepo{err: gorm.ErrRecordNotFound}
	handler := OrderDetail(repo, nil)

	orderID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withOrderParam(req, orderID.String()))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOrderDetailRejectsMalformedID(t *testing.T) {
	repo := &stubOrdersRepo{}
	handler := OrderDetail(repo, nil)

	req := authedRequest(http.MethodGet, "/api/v1/orders/nope", "", uuid.New())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withOrderParam(req, "nope"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
