package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appCheckout "github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/bootstrap"
	"github.com/cassiomorais/checkout/internal/controller"
	infraRedis "github.com/cassiomorais/checkout/internal/infrastructure/redis"
	"github.com/cassiomorais/checkout/internal/repository/postgres"
)

func main() {
	ctx := context.Background()

	app, err := bootstrap.New(ctx, "checkout-api", "checkout")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Repositories ---
	productRepo := postgres.NewProductRepository(app.Pool)
	customerRepo := postgres.NewCustomerRepository(app.Pool)
	deliveryRepo := postgres.NewDeliveryRepository(app.Pool)
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	// --- Gateway and application services ---
	gw := app.NewGateway()
	fees := app.Fees()

	processPaymentUC := appCheckout.NewProcessPaymentUseCase(
		productRepo, customerRepo, deliveryRepo, transactionRepo,
		gw, txManager, fees, app.Logger)
	getTransactionUC := appCheckout.NewGetTransactionUseCase(
		transactionRepo, productRepo, gw, txManager, app.Logger)
	listProductsUC := appCheckout.NewListProductsUseCase(productRepo)
	customerHistoryUC := appCheckout.NewCustomerHistoryUseCase(
		customerRepo, transactionRepo, deliveryRepo)

	// --- Build router ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:             app.Pool,
		RedisClient:      app.Redis,
		ProcessPayment:   processPaymentUC,
		GetTransaction:   getTransactionUC,
		ListProducts:     listProductsUC,
		CustomerHistory:  customerHistoryUC,
		IdempotencyStore: infraRedis.NewIdempotencyStore(app.Redis, 0),
		Metrics:          app.Metrics,
		CORSConfig:       app.Config.Server.CORS,
		CheckoutRPM:      app.Config.Server.CheckoutRPM,
	})

	// --- HTTP server ---
	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	app.Logger.Info().Msg("Server exited")
}
