package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/internal/address"
	"github.com/haletrung/vietmarket-backend/internal/auth"
	"github.com/haletrung/vietmarket-backend/internal/cart"
	"github.com/haletrung/vietmarket-backend/internal/checkout"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	"github.com/haletrung/vietmarket-backend/internal/products"
	"github.com/haletrung/vietmarket-backend/internal/vendors"
	pkgauth "github.com/haletrung/vietmarket-backend/pkg/auth"
	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(context.Context, auth.RegisterInput) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Login(context.Context, auth.LoginInput) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Refresh(context.Context, uuid.UUID, string) (*auth.AuthResult, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAuthService) Logout(context.Context, uuid.UUID) error {
	return nil
}

type stubCartService struct{}

func (stubCartService) GetCart(context.Context, uuid.UUID) (*cart.CartView, error) {
	return &cart.CartView{ID: uuid.New()}, nil
}

func (stubCartService) AddLine(context.Context, cart.AddLineInput) (*cart.CartView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) UpdateLineQuantity(context.Context, cart.UpdateLineInput) (*cart.CartView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) RemoveLine(context.Context, uuid.UUID, uuid.UUID) (*cart.CartView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubCartService) Clear(context.Context, uuid.UUID) error {
	return nil
}

type stubAddressService struct{}

func (stubAddressService) List(context.Context, uuid.UUID) ([]address.AddressView, error) {
	return []address.AddressView{}, nil
}

func (stubAddressService) Create(context.Context, address.UpsertInput) (*address.AddressView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAddressService) Update(context.Context, uuid.UUID, address.UpsertInput) (*address.AddressView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubAddressService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (stubAddressService) SetDefault(context.Context, uuid.UUID, uuid.UUID) (*address.AddressView, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubProductsService struct{}

func (stubProductsService) Get(context.Context, uuid.UUID) (*products.ProductView, error) {
	return &products.ProductView{ID: uuid.New(), Name: "Phở bò"}, nil
}

func (stubProductsService) ListByVendor(context.Context, uuid.UUID, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{Items: []products.ProductView{}}, nil
}

func (stubProductsService) Create(context.Context, uuid.UUID, products.UpsertInput) (*products.ProductView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubProductsService) Update(context.Context, uuid.UUID, uuid.UUID, products.UpsertInput) (*products.ProductView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubProductsService) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

type stubVendorsService struct{}

func (stubVendorsService) Get(context.Context, uuid.UUID) (*vendors.VendorView, error) {
	return &vendors.VendorView{ID: uuid.New(), StoreName: "Quán Ngon"}, nil
}

func (stubVendorsService) UpdateProfile(context.Context, uuid.UUID, vendors.ProfileInput) (*vendors.VendorView, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubOrdersService struct{}

func (stubOrdersService) ListOrders(context.Context, orders.ListOrdersInput) (*orders.OrderList, error) {
	return &orders.OrderList{Orders: []orders.OrderView{}}, nil
}

func (stubOrdersService) GetOrder(context.Context, uuid.UUID, orders.Caller) (*orders.OrderView, error) {
	return nil, fmt.Errorf("not implemented")
}

func (stubOrdersService) UpdateSubOrderStatus(context.Context, orders.UpdateStatusInput) (*orders.SubOrderView, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateOrder(context.Context, checkout.CreateOrderInput) (*orders.OrderView, error) {
	return nil, fmt.Errorf("not implemented")
}

func testRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	return NewRouter(cfg, logg, Dependencies{
		Auth:      stubAuthService{},
		Cart:      stubCartService{},
		Addresses: stubAddressService{},
		Products:  stubProductsService{},
		Vendors:   stubVendorsService{},
		Orders:    stubOrdersService{},
		Checkout:  stubCheckoutService{},
		Database:  stubPinger{},
		Cache:     stubPinger{},
	})
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "vietmarket-test", ExpirationMinutes: 15},
	}
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole, vendorID *uuid.UUID) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   uuid.New(),
		Role:     role,
		VendorID: vendorID,
	})
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return token
}

func TestHealthEndpoints(t *testing.T) {
	router := testRouter(t, testConfig())

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s returned %d", path, resp.Code)
		}
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := testRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/vendors/"+uuid.NewString()+"/products", nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	router := testRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartWithToken(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestVendorRoutesBlockCustomers(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleCustomer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestVendorRoutesAllowVendors(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, cfg)

	vendorID := uuid.New()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vendor/products/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleVendor, &vendorID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
