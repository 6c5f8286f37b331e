package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"mplads/internal/analytics"
	"mplads/internal/cli"
	"mplads/internal/funds"
	apphttp "mplads/internal/http"
	"mplads/internal/log"
)

func main() {
	cfg, err := cli.LoadConfig()
	if err != nil {
		cli.SetupLogger("info", os.Stdout, log.ComponentApp).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(cfg.LogLevel, os.Stdout, log.ComponentApp)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	res, err := cli.OpenBackend(startupCtx, cfg, logger)
	if err != nil {
		cancelStartup()
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	// Fund tables load eagerly; spending loads on first analytics request.
	dataset := funds.Load(startupCtx, res.Backend, logger)
	cancelStartup()
	spending := analytics.NewService(res.Backend, logger)

	opts := apphttp.Options{
		Addr:               ":" + cfg.Port,
		CacheSize:          cfg.CacheSize,
		CacheTTL:           cfg.CacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		AllowOrigin:        cfg.AllowOrigin,
		Logger:             logger,
	}
	if p, ok := res.Backend.(interface{ Ping(context.Context) error }); ok {
		opts.Ping = p.Ping
	}
	srv := apphttp.NewServer(opts, dataset, spending)
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting mplads server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"source", res.Name,
		log.FieldRecords, dataset.Len())

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		_ = res.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
