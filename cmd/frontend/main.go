package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/commute-front/internal/backend"
	"github.com/example/commute-front/internal/config"
	"github.com/example/commute-front/internal/geo"
	"github.com/example/commute-front/internal/logging"
	"github.com/example/commute-front/internal/session"
	"github.com/example/commute-front/internal/web"
)

func main() {
	cfg, err := config.LoadFrontendConfig()
	logger := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Durable sessions need redis; without REDIS_ADDR we fall back to an
	// in-memory store, which is fine for local runs.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		if err := rs.Ping(ctx); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rs.Close()
		sessions = rs
		logger.Info("session store: redis", "addr", cfg.RedisAddr)
	} else {
		sessions = session.NewMemoryStore()
		logger.Warn("session store: in-memory, sessions will not survive restarts")
	}

	bc := backend.New(cfg.BackendBaseURL, cfg.AdvisoryBaseURL, cfg.BackendTimeout, logger)
	geoSvc := geo.NewService(
		geo.NewNominatimClient(cfg.NominatimEndpoint, cfg.CountryCode),
		geo.NewOSRMClient(cfg.OSRMEndpoint),
		geo.NewRouteCache(cfg.RouteCacheTTL),
	)

	srv := web.NewServer(cfg, logger, bc, sessions, geoSvc)
	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	go func() {
		logger.Info("frontend listening", "addr", cfg.HTTPAddr, "backend", cfg.BackendBaseURL, "address_mode", string(cfg.AddressMode))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
