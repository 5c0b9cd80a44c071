package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haletrung/vietmarket-backend/api/routes"
	"github.com/haletrung/vietmarket-backend/internal/address"
	"github.com/haletrung/vietmarket-backend/internal/auth"
	"github.com/haletrung/vietmarket-backend/internal/cart"
	"github.com/haletrung/vietmarket-backend/internal/checkout"
	"github.com/haletrung/vietmarket-backend/internal/notifications"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	"github.com/haletrung/vietmarket-backend/internal/pricing"
	"github.com/haletrung/vietmarket-backend/internal/products"
	"github.com/haletrung/vietmarket-backend/internal/users"
	"github.com/haletrung/vietmarket-backend/internal/vendors"
	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/db"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/metrics"
	"github.com/haletrung/vietmarket-backend/pkg/migrate"
	"github.com/haletrung/vietmarket-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	notificationMetrics := metrics.NewNotificationMetrics(registry)

	publisher, err := notifications.NewRedisPublisher(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification publisher", err)
		os.Exit(1)
	}
	dispatcher, err := notifications.NewDispatcher(publisher, logg, notificationMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification dispatcher", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	vendorsRepo := vendors.NewRepository(dbClient.DB())
	productsRepo := products.NewRepository(dbClient.DB())
	addressesRepo := address.NewRepository(dbClient.DB())
	cartsRepo := cart.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	pricer := pricing.NewEngine(cfg.Shipping)

	authService, err := auth.NewService(usersRepo, vendorsRepo, redisClient, dbClient, cfg.JWT, cfg.Password, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	vendorsService, err := vendors.NewService(vendorsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendor service", err)
		os.Exit(1)
	}

	productsService, err := products.NewService(productsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	addressService, err := address.NewService(addressesRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create address service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartsRepo, productsRepo, pricer)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, dbClient, dispatcher, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	numberGen, err := checkout.NewNumberGenerator(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order number generator", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		cartsRepo,
		addressesRepo,
		ordersRepo,
		usersRepo,
		pricer,
		numberGen,
		dispatcher,
		dbClient,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Auth:           authService,
			Cart:           cartService,
			Addresses:      addressService,
			Products:       productsService,
			Vendors:        vendorsService,
			Orders:         ordersService,
			Checkout:       checkoutService,
			Database:       dbClient,
			Cache:          redisClient,
			HTTPMetrics:    httpMetrics,
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
