package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/toolshed"
	"github.com/aretw0/toolshed/internal/config"
	httpAdapter "github.com/aretw0/toolshed/pkg/adapters/http"
	"github.com/aretw0/toolshed/pkg/adapters/memory"
	redisAdapter "github.com/aretw0/toolshed/pkg/adapters/redis"
	"github.com/aretw0/toolshed/pkg/observability"
	"github.com/aretw0/toolshed/pkg/ports"
	"github.com/aretw0/toolshed/pkg/seo"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves a page per tool with SEO metadata, a JSON API under /api/tools,
the OpenAPI document, sitemap.xml and Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		if cmd.Flags().Changed("base-url") {
			cfg.BaseURL, _ = cmd.Flags().GetString("base-url")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		handler, cleanup, err := buildHandler(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			logger.Info("Starting toolshed server", "addr", srv.Addr, "base_url", cfg.BaseURL, "version", toolshed.Version)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("killing server: %w", err)
				}
			}
			logger.Info("Toolshed server stopped gracefully")
			return nil
		}
	},
}

// buildHandler wires the toolbox, metrics and rate limiter described by cfg.
// cleanup releases the limiter's connections.
func buildHandler(cfg config.Config, logger *slog.Logger) (http.Handler, func(), error) {
	cleanup := func() {}
	tbOpts := []toolshed.Option{toolshed.WithLogger(logger)}
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithSite(seo.Site{
			Name:        cfg.SiteName,
			BaseURL:     cfg.BaseURL,
			Description: cfg.SiteDescription,
		}),
		httpAdapter.WithVersion(toolshed.Version),
		httpAdapter.WithMaxBodyBytes(cfg.MaxBodyBytes),
		httpAdapter.WithTrustProxy(cfg.TrustProxy),
	}

	if cfg.Metrics {
		metrics := observability.NewMetrics(observability.WithRuntimeCollectors())
		tbOpts = append(tbOpts, toolshed.WithMetrics(metrics))
		opts = append(opts, httpAdapter.WithMetrics(metrics))
	}
	if cfg.RedirectSubdomains {
		opts = append(opts, httpAdapter.WithSubdomainRedirects(cfg.CanonicalHost()))
	}

	if cfg.RateLimit.Enabled() {
		quota := ports.Quota{Limit: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}
		if cfg.RateLimit.RedisAddr != "" {
			var ropts []redisAdapter.Option
			if cfg.RateLimit.Prefix != "" {
				ropts = append(ropts, redisAdapter.WithPrefix(cfg.RateLimit.Prefix))
			}
			limiter, err := redisAdapter.New(cfg.RateLimit.RedisAddr, quota, ropts...)
			if err != nil {
				return nil, cleanup, fmt.Errorf("redis rate limiter: %w", err)
			}
			cleanup = func() {
				if err := limiter.Close(); err != nil {
					logger.Warn("closing redis limiter", "error", err)
				}
			}
			opts = append(opts,
				httpAdapter.WithLimiter(limiter),
				httpAdapter.WithHealthCheck("redis", limiter.Ping),
			)
		} else {
			opts = append(opts, httpAdapter.WithLimiter(memory.NewLimiter(quota)))
		}
		logger.Info("Rate limiting enabled", "requests", quota.Limit, "window", quota.Window, "redis", cfg.RateLimit.RedisAddr != "")
	}

	handler, err := httpAdapter.NewHandler(toolshed.New(tbOpts...), opts...)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return handler, cleanup, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
	serveCmd.Flags().String("base-url", "", "Public base URL used in canonical links and the sitemap")
}
