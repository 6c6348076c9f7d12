package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/lib/pq"

	"fnsgate/internal/platform/config"
	"fnsgate/internal/platform/httpserver"
	"fnsgate/internal/platform/logger"
	platformredis "fnsgate/internal/platform/redis"
	httptransport "fnsgate/internal/transport/http"
	"fnsgate/internal/verification/cache"
	verifyhandler "fnsgate/internal/verification/handler"
	"fnsgate/internal/verification/metrics"
	"fnsgate/internal/verification/provider"
	"fnsgate/internal/verification/service"
	audit "fnsgate/pkg/platform/audit"
	auditpublisher "fnsgate/pkg/platform/audit/publisher"
	auditmemory "fnsgate/pkg/platform/audit/store/memory"
	auditpostgres "fnsgate/pkg/platform/audit/store/postgres"
	auditworker "fnsgate/pkg/platform/audit/worker"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the verification packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var cacheStore cache.Store
	if redisClient != nil {
		cacheStore = cache.NewRedis(redisClient.Client, cfg.Cache.TTL)
		log.Info("verification cache backed by redis", "ttl", cfg.Cache.TTL)
	} else {
		cacheStore = cache.NewMemory(cfg.Cache.Capacity, cfg.Cache.TTL)
		log.Info("verification cache in memory",
			"capacity", cfg.Cache.Capacity,
			"ttl", cfg.Cache.TTL,
		)
	}

	auditStore, cleanup, err := newAuditStore(ctx, cfg)
	if err != nil {
		log.Error("audit store init failed", "error", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	publisher := auditpublisher.New(256, log)
	go func() {
		if err := auditworker.NewWorker(auditStore, publisher.Inbox()).Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	verifyMetrics := metrics.New()
	verifyService, err := service.New(
		provider.NewClient(cfg.Provider),
		cacheStore,
		log,
		verifyMetrics,
		publisher,
	)
	if err != nil {
		log.Error("verification service init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(log, verifyhandler.New(verifyService, log), redisClient)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting fnsgate", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// newAuditStore picks postgres when a DSN is configured, memory otherwise.
func newAuditStore(ctx context.Context, cfg config.Config) (audit.Store, func(), error) {
	if cfg.AuditDatabaseURL == "" {
		return auditmemory.New(), nil, nil
	}

	db, err := sql.Open("postgres", cfg.AuditDatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	if err := auditpostgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return auditpostgres.New(db), func() { db.Close() }, nil
}
