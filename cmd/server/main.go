package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/societyledger/internal/adapter/http"
	"github.com/iho/societyledger/internal/adapter/http/handler"
	"github.com/iho/societyledger/internal/adapter/http/middleware"
	mongoRepo "github.com/iho/societyledger/internal/adapter/repository/mongo"
	postgresRepo "github.com/iho/societyledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/societyledger/internal/adapter/repository/redis"
	"github.com/iho/societyledger/internal/infrastructure/auth"
	"github.com/iho/societyledger/internal/infrastructure/catalog"
	"github.com/iho/societyledger/internal/infrastructure/config"
	"github.com/iho/societyledger/internal/infrastructure/logger"
	"github.com/iho/societyledger/internal/infrastructure/metrics"
	"github.com/iho/societyledger/internal/infrastructure/postgres"
	"github.com/iho/societyledger/internal/infrastructure/redis"
	"github.com/iho/societyledger/internal/usecase"
)

const (
	serviceName            = "societyledger"
	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logger.New(logger.Config{Level: "info", Format: "console", Service: serviceName})
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: serviceName})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// Connect to MongoDB
	mongoClient, err := mongoRepo.Connect(ctx, cfg.MongoURI, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	provider := mongoRepo.NewProvider(mongoClient.Database(cfg.MongoDatabase))
	if err := provider.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL, log)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	checks := []handler.Check{
		{Name: "mongo", Ping: func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) }},
		{Name: "redis", Ping: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }},
	}

	journal, err := openJournal(ctx, cfg, provider, log)
	if err != nil {
		return err
	}
	defer journal.close()
	if journal.check != nil {
		checks = append(checks, *journal.check)
	}

	ledgerCatalog, err := catalog.Load(cfg.LedgerCatalogFile)
	if err != nil {
		return err
	}

	m := metrics.New()

	// Initialize repositories
	cache := redisRepo.NewCache(redisClient)
	notifier := redisRepo.NewChangeNotifier(redisClient, log)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	flatRepo := mongoRepo.NewFlatRepository(provider)
	billRepo := mongoRepo.NewBillRepository(provider)

	// Initialize use cases
	ledgerUC := usecase.NewLedgerUseCase(usecase.LedgerConfig{
		TxRepo:   journal.repo,
		Cache:    cache,
		Catalog:  ledgerCatalog,
		Metrics:  m,
		Logger:   log.With().Str("component", "ledger").Logger(),
		CacheTTL: cfg.CacheTTL,
	})
	transactionUC := usecase.NewTransactionUseCase(journal.repo, notifier, ledgerUC, postgresRepo.NewULIDGenerator(), m, log)
	flatUC := usecase.NewFlatUseCase(flatRepo, notifier, m, log)
	billUC := usecase.NewBillUseCase(billRepo, flatRepo, flatUC, log)
	layoutUC := usecase.NewLayoutUseCase(flatRepo, m, log)
	statementUC := usecase.NewStatementUseCase(flatRepo, billRepo)
	watcher := usecase.NewBalanceWatcher(notifier, cache, cfg.CacheTTL, log.With().Str("component", "watcher").Logger())

	routerCfg := httpAdapter.RouterConfig{
		Logger:             log,
		HealthHandler:      handler.NewHealthHandler(checks...),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		BillHandler:        handler.NewBillHandler(billUC),
		LayoutHandler:      handler.NewLayoutHandler(layoutUC),
		FlatHandler:        handler.NewFlatHandler(flatUC, statementUC),
		IdempotencyStore:   idempotencyStore,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		Metrics:            m,
		MetricsHandler:     promhttp.Handler(),
	}
	if cfg.RateLimitRPS > 0 {
		routerCfg.RateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m.RateLimitHits.Inc)
	}
	if verifier := tokenVerifier(cfg); verifier != nil {
		routerCfg.TokenVerifier = verifier
		routerCfg.OnAuthFailure = func(reason string) { m.AuthFailures.WithLabelValues(reason).Inc() }
	}

	server := newServer(cfg, httpAdapter.NewRouter(routerCfg))

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Run(ctx)
	})

	if routerCfg.RateLimiter != nil {
		g.Go(func() error {
			routerCfg.RateLimiter.RunCleanup(ctx, limiterCleanupInterval, limiterIdleTimeout)
			return nil
		})
	}

	g.Go(func() error {
		log.Info().Str("port", cfg.HTTPPort).Str("journal", cfg.TransactionStore).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// tokenVerifier returns nil when authentication is disabled.
func tokenVerifier(cfg *config.Config) middleware.TokenVerifier {
	if !cfg.AuthEnabled {
		return nil
	}
	return auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
}

// journal is the transaction store selected by TRANSACTION_STORE.
type journal struct {
	repo  usecase.TransactionRepository
	check *handler.Check
	close func()
}

func openJournal(ctx context.Context, cfg *config.Config, provider *mongoRepo.Provider, log zerolog.Logger) (*journal, error) {
	if cfg.TransactionStore != config.StorePostgres {
		return &journal{repo: mongoRepo.NewTransactionRepository(provider), close: func() {}}, nil
	}

	if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	log.Info().Msg("connected to postgres")

	return &journal{
		repo:  postgresRepo.NewTransactionRepository(pool, postgresRepo.NewRetrier(log)),
		check: &handler.Check{Name: "postgres", Ping: pool.Ping},
		close: pool.Close,
	}, nil
}
