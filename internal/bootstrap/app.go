package bootstrap

import (
	"context"
	"fmt"
	"os"

	appCheckout "github.com/cassiomorais/checkout/internal/application/checkout"
	"github.com/cassiomorais/checkout/internal/domain/money"
	"github.com/cassiomorais/checkout/internal/gateway"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/checkout/internal/infrastructure/redis"
	"github.com/cassiomorais/checkout/internal/repository/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App wires the shared infrastructure every binary needs: config,
// logging, tracing, metrics, postgres and redis connections.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Pool    *pgxpool.Pool
	Redis   *redis.Client
	Metrics *observability.Metrics
}

func New(ctx context.Context, serviceName string, metricsNamespace string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := observability.InitLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info().Str("service", serviceName).Msg("Starting")

	if cfg.Observability.EnableTracing {
		tp, err := observability.InitTracer(serviceName, cfg.Observability.JaegerEndpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		} else {
			go func() {
				<-ctx.Done()
				observability.ShutdownTracer(tp)
			}()
			logger.Info().Msg("Tracing enabled")
		}
	}

	metrics := observability.NewMetrics(metricsNamespace, nil)
	logger.Info().Msg("Metrics initialized")

	pool, err := postgres.NewPool(ctx, &cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info().Msg("Connected to PostgreSQL")

	redisClient, err := infraRedis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Msg("Connected to Redis")

	return &App{
		Config:  cfg,
		Logger:  logger,
		Pool:    pool,
		Redis:   redisClient,
		Metrics: metrics,
	}, nil
}

// NewGateway builds the payment gateway adapter the configuration asks
// for. Sandbox mode runs the deterministic in-process gateway and never
// leaves the machine.
func (a *App) NewGateway() gateway.Gateway {
	if a.Config.Gateway.Sandbox {
		a.Logger.Warn().Msg("Gateway running in sandbox mode")
		return gateway.NewSandbox()
	}
	tokens := infraRedis.NewTokenCache(a.Redis, a.Logger)
	return gateway.NewClient(gateway.ClientConfig{
		BaseURL:            a.Config.Gateway.BaseURL,
		PublicKey:          a.Config.Gateway.PublicKey,
		PrivateKey:         a.Config.Gateway.PrivateKey,
		Timeout:            a.Config.Gateway.Timeout,
		AcceptanceTokenTTL: a.Config.Gateway.AcceptanceTokenTTL,
	}, tokens, a.Logger)
}

// Fees returns the pricing constants from configuration.
func (a *App) Fees() appCheckout.Fees {
	return appCheckout.Fees{
		BaseFee: money.Amount{
			Cents:    a.Config.Payment.BaseFeeCents,
			Currency: a.Config.Payment.Currency,
		},
		DeliveryFee: money.Amount{
			Cents:    a.Config.Payment.DeliveryFeeCents,
			Currency: a.Config.Payment.Currency,
		},
		MethodType:          a.Config.Payment.MethodType,
		DefaultInstallments: a.Config.Payment.DefaultInstallments,
	}
}

func (a *App) Close() {
	a.Redis.Close()
	a.Pool.Close()
}
