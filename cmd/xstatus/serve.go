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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/trickstertwo/xstatus/adapter/redislist"
	"github.com/trickstertwo/xstatus/metrics"
	"github.com/trickstertwo/xstatus/poll"
)

func runServe(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Verbose)

	logger.Info().
		Str("addr", cfg.Addr).
		Str("pathPrefix", cfg.PathPrefix).
		Str("metricsAddr", cfg.MetricsAddr).
		Str("redisAddr", cfg.Redis.Addr).
		Str("keyPrefix", cfg.Redis.Prefix).
		Dur("pushTimeout", cfg.PushTimeout).
		Msg("config")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	hub, err := redislist.Builder(cfg.Redis,
		redislist.WithLogger(logger),
		redislist.WithObserver(m),
		redislist.WithPushTimeout(cfg.PushTimeout),
	).Build()
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := hub.Close(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("hub close error")
		}
	}()
	if err := registry.Register(metrics.NewHubCollector(hub)); err != nil {
		return fmt.Errorf("failed to register hub metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := poll.NewHandler(hub, poll.WithLogger(logger))
	mux := http.NewServeMux()
	mux.Handle(cfg.PathPrefix, http.StripPrefix(cfg.PathPrefix[:len(cfg.PathPrefix)-1], handler.Routes()))
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.Addr).Msg("poll server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("poll server: %w", err)
		}
		return nil
	})

	var metricsServer *metrics.Server
	if cfg.MetricsAddr != "" {
		metricsServer = metrics.NewServer(cfg.MetricsAddr, registry)
		metricsErrCh := metricsServer.Start()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server listening")

		g.Go(func() error {
			select {
			case <-gctx.Done():
				return nil
			case err := <-metricsErrCh:
				if err != nil {
					return fmt.Errorf("metrics server error: %w", err)
				}
				return nil
			}
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("poll server shutdown error")
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics server shutdown error")
			}
		}
		return nil
	})

	err = g.Wait()
	logger.Info().Msg("shutdown complete")
	return err
}
