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
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

const (
	// limiterIdleTTL is how long a client IP keeps its rate limiter.
	limiterIdleTTL     = 10 * time.Minute
	limiterCleanupTick = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	l := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: os.Stderr})
	log.Logger = l

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal().Err(err).Msg("server failed")
	}

	l.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, l); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	l.Info().Msg("connected to postgres")

	checks := []handler.Check{{Name: "postgres", Ping: pool.Ping}}

	var (
		cache       usecase.Cache
		locker      usecase.Locker
		idempotency usecase.IdempotencyStore
	)

	if cfg.RedisEnabled {
		redisClient, err := redis.NewClientWithConfig(ctx, redis.ClientConfig{
			URL:          cfg.RedisURL,
			PingAttempts: 5,
			PingInterval: time.Second,
		}, l)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		l.Info().Msg("connected to redis")

		cache = redisRepo.NewCache(redisClient)
		locker = redisRepo.NewLocker(redisClient, cfg.ReferenceLockTTL, l)
		idempotency = redisRepo.NewIdempotencyStore(redisClient)
		checks = append(checks, handler.Check{Name: "redis", Ping: redisPing(redisClient)})
	}

	publisher, closePublisher := newPublisher(cfg, l)
	defer closePublisher()

	m := metrics.New()

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	postingRepo := postgresRepo.NewPostingRepository(pool)
	ruleRepo := postgresRepo.NewRuleRepository(pool)
	branchRepo := postgresRepo.NewBranchRepository(pool)
	snapshotRepo := postgresRepo.NewReportSnapshotRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	auditRepo := postgresRepo.NewAuditRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(l)

	// Use cases
	resolver := usecase.NewRuleResolver(ruleRepo, accountRepo, cache, cfg.RuleCacheTTL, l).WithMetrics(m)

	postingUC := usecase.NewPostingUseCase(txManager, accountRepo, entryRepo, postingRepo, resolver, idGen, l).
		WithRetrier(retrier).
		WithOutbox(outboxRepo, publisher).
		WithAudit(auditRepo).
		WithMetrics(m)

	reversalUC := usecase.NewReversalUseCase(txManager, accountRepo, entryRepo, postingRepo, idGen, l).
		WithRetrier(retrier).
		WithOutbox(outboxRepo, publisher).
		WithAudit(auditRepo).
		WithMetrics(m)

	if locker != nil {
		postingUC = postingUC.WithLocker(locker)
		reversalUC = reversalUC.WithLocker(locker)
	}

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, idGen, l).
		WithAudit(auditRepo).
		WithOutbox(outboxRepo, publisher).
		WithMetrics(m)
	ruleUC := usecase.NewRuleUseCase(ruleRepo, resolver, idGen, l).WithAudit(txManager, auditRepo)
	entryUC := usecase.NewEntryUseCase(entryRepo, postingRepo, auditRepo)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo)
	reconUC := usecase.NewReconciliationUseCase(accountRepo, entryRepo, ledgerRepo)
	reportUC := usecase.NewReportUseCase(accountRepo, entryRepo, branchRepo, snapshotRepo, idGen, cfg.ReportWorkers, l).WithMetrics(m)
	cleanupUC := usecase.NewCleanupUseCase(txManager, accountRepo, entryRepo, auditRepo, idGen, l)

	relay := eventpublisher.NewRelay(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  publisher,
		Logger:     l,
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).WithMetrics(m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC, entryUC),
		PostingHandler:     handler.NewPostingHandler(postingUC),
		TransactionHandler: handler.NewTransactionHandler(entryUC, reversalUC),
		RuleHandler:        handler.NewRuleHandler(ruleUC),
		ReportHandler:      handler.NewReportHandler(reportUC),
		LedgerHandler:      handler.NewLedgerHandler(ledgerUC, reconUC, relay),
		AdminHandler:       handler.NewAdminHandler(cleanupUC),
		HealthHandler:      handler.NewHealthHandler(checks...),
		IdempotencyStore:   idempotency,
		IdempotencyTTL:     cfg.IdempotencyTTL,
		RateLimiter:        rateLimiter,
		Metrics:            m,
		MetricsHandler:     promhttp.Handler(),
		Logger:             l,
	})

	server := &http.Server{
		Addr:         serverAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		l.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterCleanupTick)
		defer ticker.Stop()

		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := rateLimiter.CleanupLimiters(limiterIdleTTL); n > 0 {
					l.Debug().Int("removed", n).Msg("idle rate limiters removed")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newPublisher returns the Kafka publisher when enabled and a log
// publisher otherwise. The returned func releases the writer.
func newPublisher(cfg *config.Config, l zerolog.Logger) (usecase.EventPublisher, func()) {
	if !cfg.KafkaEnabled || len(cfg.KafkaBrokers) == 0 {
		return eventpublisher.NewLogPublisher(l), func() {}
	}

	pub := eventpublisher.NewKafkaPublisher(eventpublisher.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, l))
	l.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("publishing events to kafka")

	return pub, func() {
		if err := pub.Close(); err != nil {
			l.Warn().Err(err).Msg("failed to close kafka writer")
		}
	}
}

func redisPing(client *goredis.Client) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

func serverAddr(port string) string {
	if port == "" {
		port = "8080"
	}
	return ":" + port
}
