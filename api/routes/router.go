package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/haletrung/vietmarket-backend/api/controllers"
	apimw "github.com/haletrung/vietmarket-backend/api/middleware"
	"github.com/haletrung/vietmarket-backend/internal/address"
	"github.com/haletrung/vietmarket-backend/internal/auth"
	"github.com/haletrung/vietmarket-backend/internal/cart"
	"github.com/haletrung/vietmarket-backend/internal/checkout"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	"github.com/haletrung/vietmarket-backend/internal/products"
	"github.com/haletrung/vietmarket-backend/internal/vendors"
	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/metrics"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Auth      auth.Service
	Cart      cart.Service
	Addresses address.Service
	Products  products.Service
	Vendors   vendors.Service
	Orders    orders.Service
	Checkout  checkout.Service

	Database controllers.Pinger
	Cache    controllers.Pinger

	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(apimw.RequestID(logg))
	r.Use(apimw.Recoverer(logg))
	r.Use(apimw.CORS())
	if deps.HTTPMetrics != nil {
		r.Use(apimw.Metrics(deps.HTTPMetrics))
	}
	r.Use(apimw.Logging(logg))

	r.Get("/health/live", controllers.HealthLive())
	r.Get("/health/ready", controllers.HealthReady(deps.Database, deps.Cache, logg))

	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(deps.Auth, logg))
			r.Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(apimw.Auth(cfg.JWT, logg))
				r.Post("/logout", controllers.Logout(deps.Auth, logg))
			})
		})

		// Public catalog browsing.
		r.Get("/products/{productID}", controllers.GetProduct(deps.Products, logg))
		r.Get("/vendors/{vendorID}", controllers.GetVendor(deps.Vendors, logg))
		r.Get("/vendors/{vendorID}/products", controllers.ListVendorProducts(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(apimw.Auth(cfg.JWT, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.GetCart(deps.Cart, logg))
				r.Delete("/", controllers.ClearCart(deps.Cart, logg))
				r.Post("/items", controllers.AddCartLine(deps.Cart, logg))
				r.Patch("/items/{itemID}", controllers.UpdateCartLine(deps.Cart, logg))
				r.Delete("/items/{itemID}", controllers.RemoveCartLine(deps.Cart, logg))
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.ListAddresses(deps.Addresses, logg))
				r.Post("/", controllers.CreateAddress(deps.Addresses, logg))
				r.Put("/{addressID}", controllers.UpdateAddress(deps.Addresses, logg))
				r.Delete("/{addressID}", controllers.DeleteAddress(deps.Addresses, logg))
				r.Post("/{addressID}/default", controllers.SetDefaultAddress(deps.Addresses, logg))
			})

			r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.ListOrders(deps.Orders, logg))
				r.Get("/{orderID}", controllers.GetOrder(deps.Orders, logg))
			})

			r.Route("/vendor", func(r chi.Router) {
				r.Use(apimw.RequireRole(string(enums.UserRoleVendor), logg))

				r.Put("/profile", controllers.UpdateVendorProfile(deps.Vendors, logg))
				r.Post("/products", controllers.CreateProduct(deps.Products, logg))
				r.Put("/products/{productID}", controllers.UpdateProduct(deps.Products, logg))
				r.Delete("/products/{productID}", controllers.DeleteProduct(deps.Products, logg))
				r.Patch("/sub-orders/{subOrderID}/status", controllers.UpdateSubOrderStatus(deps.Orders, logg))
			})
		})
	})

	return r
}
