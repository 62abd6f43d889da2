package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"StockInsights/internal/collector"
	"StockInsights/internal/config"
	"StockInsights/internal/dashboard"
	"StockInsights/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("load .env")
	}

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	setupLogging(cfg.Log.Level, cfg.Log.Pretty)
	log.Info().Str("config", cfgPath).Msg("StockInsights starting...")

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg.DataSource.Backend, cfg.DataSource.BaseURL, cfg.Proxy, cfg.DataSource.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("init data source")
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	svc := dashboard.NewService(collector.NewCollector(fetcher), cfg.Indicators.MAWindows, cfg.Indicators.RSIWindow)

	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(svc, server.Options{
		DefaultSymbols:   cfg.Dashboard.DefaultSymbols,
		DefaultRangeDays: cfg.Dashboard.DefaultRangeDays,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	})
	srv := server.NewHTTPServer(cfg.Server.Addr, router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	srv.BaseContext = func(_ net.Listener) context.Context { return ctx }

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	log.Info().Msg("StockInsights stopped")
}

func setupLogging(level string, pretty bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime})
	}
}
