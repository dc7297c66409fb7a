// Command sample serves a small demo API built on github.com/bjaus/endpoint.
//
// Run:
//
//	go run ./cmd/sample serve
//
// Configuration comes from the environment (or a .env file given with
// --env-file):
//
//	SAMPLE_ADDR        listen address (default :8080)
//	SAMPLE_LOG_LEVEL   debug, info, warn or error (default info)
//	SAMPLE_RATE        requests per second per client (default 50)
//	SAMPLE_BURST       burst size (default 100)
//
// Then explore:
//
//	GET http://localhost:8080/hello        — text/plain payload
//	GET http://localhost:8080/users/1      — JSON payload
//	GET http://localhost:8080/users/42     — 404 error body
//	GET http://localhost:8080/ping         — prebuilt response
//	GET http://localhost:8080/hello/extra  — empty 404 (path not consumed)
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bjaus/endpoint"
)

type config struct {
	Addr     string     `env:"SAMPLE_ADDR"      envDefault:":8080"`
	LogLevel slog.Level `env:"SAMPLE_LOG_LEVEL" envDefault:"info"`
	Rate     float64    `env:"SAMPLE_RATE"      envDefault:"50"`
	Burst    int        `env:"SAMPLE_BURST"     envDefault:"100"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "sample",
		Short: "Demo server for the endpoint package",
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from this file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	})

	return root
}

func loadConfig(envFile string) (config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return config{}, err
		}
	}
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func serve(ctx context.Context, cfg config) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	svc, err := newService(logger, cfg)
	if err != nil {
		logger.Error("build service failed", "err", err)
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Info("starting server", "addr", cfg.Addr)

	if err := svc.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		return err
	}

	logger.Info("server stopped")
	return nil
}

func newService(logger *slog.Logger, cfg config) (*endpoint.Service, error) {
	reg := endpoint.NewRegistry(endpoint.WithFallback(endpoint.JSON()))

	return endpoint.Build(routes(newUserStore()), reg,
		endpoint.WithLogger(logger),
		endpoint.WithHeader("Server", "endpoint-sample"),
		endpoint.WithMiddleware(
			endpoint.Recovery(),
			endpoint.RequestID(),
			endpoint.Logger(logger),
			endpoint.RateLimit(endpoint.RateLimitConfig{Rate: cfg.Rate, Burst: cfg.Burst}),
			endpoint.Compress(),
		),
	)
}
