package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/DanielPopoola/rate-limiter/internal/config"
	"github.com/DanielPopoola/rate-limiter/internal/gateway"
	"github.com/DanielPopoola/rate-limiter/internal/obs"
	"github.com/DanielPopoola/rate-limiter/pkg/limiter"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when omitted)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fallback := zerolog.New(os.Stderr)
			fallback.Fatal().Err(err).Msg("load config")
		}
		cfg = loaded
	}

	logger := obs.SetupLogger(cfg.Observability.LogLevel)

	bucketCfg, err := bucketConfig(cfg.Limit)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid limit")
	}

	store, err := buildStore(cfg.Backend, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("build store")
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	metrics := obs.NewMetrics(reg)

	opts := []limiter.Option{limiter.WithRecorder(metrics)}
	if cfg.Backend.FailOpen {
		opts = append(opts, limiter.WithFailOpen())
	}

	l, err := limiter.New(bucketCfg, store, opts...)
	if err != nil {
		logger.Fatal().Err(err).Msg("build limiter")
	}

	guarded := gateway.RateLimit(l, gateway.ClientIP, logger)

	mux := http.NewServeMux()
	mux.Handle("/ping", guarded(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Pong!\n"))
	})))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	mux.Handle(cfg.Observability.PrometheusPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      gateway.AccessLog(logger)(mux),
		ReadTimeout:  cfg.Server.ReadTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	go func() {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("backend", cfg.Backend.Kind).
			Bool("fail_open", cfg.Backend.FailOpen).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info().Msg("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
}

// bucketConfig resolves the configured limit: explicit parameters win
// over the compact rate string.
func bucketConfig(l config.Limit) (limiter.Config, error) {
	if l.Capacity > 0 {
		return limiter.Config{
			Capacity:     l.Capacity,
			RefillRate:   l.RefillRate,
			RefillPeriod: l.RefillPeriod(),
		}, nil
	}
	return limiter.ParseRate(l.Rate)
}

func buildStore(b config.Backend, logger zerolog.Logger) (limiter.Store, error) {
	switch b.Kind {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     b.Redis.Addr,
			Password: b.Redis.Password,
			DB:       b.Redis.DB,
		})

		var opts []limiter.RedisOption
		if b.Redis.KeyPrefix != "" {
			opts = append(opts, limiter.WithPrefix(b.Redis.KeyPrefix))
		}
		if b.Redis.RecordTTLSeconds > 0 {
			opts = append(opts, limiter.WithTTL(b.Redis.RecordTTL()))
		}
		opts = append(opts, limiter.WithTimeout(b.Redis.Timeout()))

		logger.Info().Str("addr", b.Redis.Addr).Msg("using redis backend")
		return limiter.NewRedisStore(client, opts...)
	default:
		logger.Info().Msg("using local backend")
		return limiter.NewMemoryStore(), nil
	}
}
