package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/campus-assist/internal/adapters/driven/auth"
	"github.com/custodia-labs/campus-assist/internal/adapters/driving/http"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log)
			logger.Info("campus-assist starting", "version", version)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger, aiWarn)
			if err != nil {
				return err
			}
			defer a.Close()

			a.watchFAQ(ctx)

			var tokens driven.AuthAdapter
			if cfg.Auth.JWTSecret != "" {
				tokens = auth.NewAdapterWithIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
			} else {
				logger.Warn("auth.jwt_secret is empty; /api/v1/ask is unauthenticated")
			}

			checks := map[string]http.Pinger{"postgres": a.db}
			if a.queryCache != nil {
				checks["redis"] = a.queryCache
			}

			server := http.NewServer(http.Config{
				Host:           cfg.Server.Host,
				Port:           cfg.Server.Port,
				Version:        version,
				WriteTimeout:   cfg.Server.WriteTimeout,
				MaxBodyBytes:   cfg.Server.MaxBodyBytes,
				AllowedOrigins: cfg.Server.AllowedOrigins,
			}, http.Deps{
				Assistant: a.assistant,
				Tokens:    tokens,
				Checks:    checks,
				AIStatus:  a.services.Check,
				Metrics:   a.metrics.Handler(),
				Logger:    logger,
			})

			return server.Run(ctx)
		},
	}
}
