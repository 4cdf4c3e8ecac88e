package controller

import (
	"time"

	"github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	redisinfra "github.com/cassiomorais/checkout/internal/infrastructure/redis"
	customMW "github.com/cassiomorais/checkout/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type RouterDeps struct {
	Pool             *pgxpool.Pool
	RedisClient      *redis.Client
	ProcessPayment   *checkout.ProcessPaymentUseCase
	GetTransaction   *checkout.GetTransactionUseCase
	ListProducts     *checkout.ListProductsUseCase
	CustomerHistory  *checkout.CustomerHistoryUseCase
	IdempotencyStore *redisinfra.IdempotencyStore
	Metrics          *observability.Metrics
	CORSConfig       config.CORSConfig
	CheckoutRPM      int
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(customMW.SecurityHeaders())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.CORSConfig.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.CORSConfig.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	productH := NewProductController(deps.ListProducts)
	checkoutH := NewCheckoutController(deps.ProcessPayment, deps.GetTransaction, deps.CustomerHistory, deps.Metrics)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		idempotencyMW := customMW.Idempotency(deps.IdempotencyStore)

		rpm := deps.CheckoutRPM
		if rpm <= 0 {
			rpm = 60
		}

		// Catalog
		r.Get("/products", productH.List)
		r.Get("/products/{id}", productH.Get)

		// Checkout saga
		r.With(customMW.RateLimit(rpm), idempotencyMW).Post("/checkout", checkoutH.Checkout)

		// Transactions (reads pass through lazy reconciliation)
		r.Get("/transactions/{id}", checkoutH.GetTransaction)
		r.Get("/customers/{id}/transactions", checkoutH.ListCustomerTransactions)
		r.Get("/customers/{id}/deliveries", checkoutH.ListCustomerDeliveries)
	})

	return r
}
