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

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/tenant-scheduler/internal/db"
	"github.com/BruksfildServices01/tenant-scheduler/internal/handlers"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
	"github.com/BruksfildServices01/tenant-scheduler/internal/middleware"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
	"github.com/BruksfildServices01/tenant-scheduler/internal/routes"
	"github.com/BruksfildServices01/tenant-scheduler/internal/telemetry"
	ucAccount "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/validators"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scheduler: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	// ======================================================
	// STORE
	// ======================================================
	var (
		repos repository.Set
		ping  handlers.Pinger
	)
	switch cfg.Store {
	case config.StoreMemory:
		log.Warn("using in-memory store; data is lost on restart")
		repos = repository.NewMemorySet(repository.NewMemoryStore())
	default:
		db, err := dbpkg.NewDB(cfg, log)
		if err != nil {
			return err
		}
		repos = repository.NewGormSet(db)
		ping = dbpkg.Ping(db)
	}

	// ======================================================
	// DISPATCHERS
	// ======================================================
	auditLogger := audit.New(repos.Audit)
	auditDispatcher := audit.NewDispatcher(auditLogger, log.Named("audit"), cfg.NotifyQueueSize)

	senders := notify.Multi{
		notify.NewAuditSender(auditLogger),
		notify.NewLogSender(log.Named("notify")),
	}
	var kafkaCloser func() error
	if brokers := notify.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		w := notify.NewKafkaWriter(brokers)
		kafkaCloser = w.Close
		senders = append(senders, notify.NewKafkaSender(w, cfg.KafkaTopic))
		log.Info("kafka notifications enabled", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}
	notifier := notify.NewDispatcher(senders, repos.Accounts, log.Named("notify"), cfg.NotifyQueueSize)

	// ======================================================
	// RATE LIMIT
	// ======================================================
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter = middleware.NewRedisLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)
		log.Info("redis rate limiter enabled", zap.String("addr", cfg.RedisAddr))
	}

	var emails ucAccount.EmailChecker
	if cfg.IsProduction() {
		emails = validators.NewEmailDomainChecker(3 * time.Second)
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Log:      log,
		Repos:    repos,
		Tokens:   auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Notifier: notifier,
		Auditor:  auditDispatcher,
		Emails:   emails,
		Limiter:  limiter,
		Ping:     ping,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           otelhttp.NewHandler(r, "scheduler-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", cfg.Addr()), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	// ======================================================
	// SHUTDOWN
	// ======================================================
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		log.Warn("notification queue not drained", zap.Error(err))
	}
	if err := auditDispatcher.Close(shutdownCtx); err != nil {
		log.Warn("audit queue not drained", zap.Error(err))
	}
	if kafkaCloser != nil {
		if err := kafkaCloser(); err != nil {
			log.Warn("kafka writer close", zap.Error(err))
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}
	return nil
}
