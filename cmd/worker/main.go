package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	appCheckout "github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/bootstrap"
	"github.com/cassiomorais/checkout/internal/domain/transaction"
	"github.com/cassiomorais/checkout/internal/repository/postgres"
	"golang.org/x/sync/errgroup"
)

// The worker sweeps transactions stuck in PENDING with a recorded
// gateway id and pushes each one through the same reconciliation path
// the read endpoint uses. API reads already reconcile lazily; the
// sweeper only covers transactions nobody asks about.
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.New(ctx, "checkout-worker", "checkout_worker")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	productRepo := postgres.NewProductRepository(app.Pool)
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	txManager := postgres.NewTxManager(app.Pool)

	gw := app.NewGateway()
	getTransactionUC := appCheckout.NewGetTransactionUseCase(
		transactionRepo, productRepo, gw, txManager, app.Logger)

	workerCfg := app.Config.Worker
	app.Logger.Info().
		Dur("sweep_interval", workerCfg.SweepInterval).
		Dur("pending_min_age", workerCfg.PendingMinAge).
		Int("batch_size", workerCfg.BatchSize).
		Msg("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(workerCfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			app.Logger.Info().Msg("Shutting down worker...")
			cancel()
			app.Logger.Info().Msg("Worker exited")
			return
		case <-ticker.C:
			sweep(ctx, app, transactionRepo, getTransactionUC, workerCfg.BatchSize, workerCfg.PendingMinAge, workerCfg.MaxConcurrency)
		}
	}
}

func sweep(
	ctx context.Context,
	app *bootstrap.App,
	transactionRepo *postgres.TransactionRepository,
	getTransactionUC *appCheckout.GetTransactionUseCase,
	batchSize int,
	minAge time.Duration,
	maxConcurrency int,
) {
	start := time.Now()

	stale, err := transactionRepo.ListPendingOlderThan(ctx, minAge, batchSize)
	if err != nil {
		app.Logger.Error().Err(err).Msg("Failed to list stale pending transactions")
		app.Metrics.SweeperBatchesTotal.WithLabelValues("error").Inc()
		return
	}
	app.Metrics.SweeperPendingRemaining.Set(float64(len(stale)))
	if len(stale) == 0 {
		app.Metrics.SweeperBatchesTotal.WithLabelValues("empty").Inc()
		return
	}

	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	var settled atomic.Int64
	for _, txn := range stale {
		id := txn.ID
		g.Go(func() error {
			res := getTransactionUC.Execute(gCtx, id)
			if res.IsFailure() {
				app.Logger.Error().Err(res.Err()).Str("transaction_id", id.String()).Msg("Reconciliation failed")
				app.Metrics.ReconciliationsTotal.WithLabelValues("error").Inc()
				return nil
			}
			if res.Value().Status != transaction.StatusPending {
				settled.Add(1)
				app.Metrics.ReconciliationsTotal.WithLabelValues("settled").Inc()
			} else {
				app.Metrics.ReconciliationsTotal.WithLabelValues("still_pending").Inc()
			}
			return nil
		})
	}
	g.Wait()

	app.Logger.Info().
		Int("batch", len(stale)).
		Int64("settled", settled.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("Sweep completed")
	app.Metrics.SweeperBatchesTotal.WithLabelValues("ok").Inc()
	app.Metrics.SweeperProcessingTime.WithLabelValues("ok").Observe(time.Since(start).Seconds())
}
