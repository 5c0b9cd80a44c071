package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/api/middleware"
	"github.com/haletrung/vietmarket-backend/internal/checkout"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

type stubCheckoutService struct {
	input checkout.CreateOrderInput
	view  *orders.OrderView
	err   error
}

func (s *stubCheckoutService) CreateOrder(ctx context.Context, input checkout.CreateOrderInput) (*orders.OrderView, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	return s.view, nil
}

func TestCheckoutCreatesOrder(t *testing.T) {
	customerID := uuid.New()
	addressID := uuid.New()
	svc := &stubCheckoutService{view: &orders.OrderView{ID: uuid.New(), OrderNumber: "ORD2025090100001"}}

	body := `{"address_id":"` + addressID.String() + `","payment_method":"COD","notes":"ít cay"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), customerID.String()))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.input.CustomerID != customerID {
		t.Fatalf("expected customer %s got %s", customerID, svc.input.CustomerID)
	}
	if svc.input.AddressID != addressID {
		t.Fatalf("expected address %s got %s", addressID, svc.input.AddressID)
	}
	if svc.input.PaymentMethod != "COD" {
		t.Fatalf("unexpected payment method %s", svc.input.PaymentMethod)
	}
	if svc.input.Notes == nil || *svc.input.Notes != "ít cay" {
		t.Fatalf("notes not forwarded: %v", svc.input.Notes)
	}

	var envelope types.SuccessEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

func TestCheckoutRejectsBadPaymentMethod(t *testing.T) {
	svc := &stubCheckoutService{}

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"CHEQUE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutRequiresIdentity(t *testing.T) {
	svc := &stubCheckoutService{}

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCheckoutPropagatesServiceErrors(t *testing.T) {
	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}

	body := `{"address_id":"` + uuid.NewString() + `","payment_method":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	Checkout(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("expected message passthrough, got %q", envelope.Error.Message)
	}
}
