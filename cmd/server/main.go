package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/minjae-dev/musinsa-price-report/internal/api"
	"github.com/minjae-dev/musinsa-price-report/internal/browser"
	"github.com/minjae-dev/musinsa-price-report/internal/config"
	"github.com/minjae-dev/musinsa-price-report/internal/database"
	"github.com/minjae-dev/musinsa-price-report/internal/events"
	"github.com/minjae-dev/musinsa-price-report/internal/jobs"
	"github.com/minjae-dev/musinsa-price-report/internal/pipeline"
	"github.com/minjae-dev/musinsa-price-report/internal/scraper"
	"github.com/minjae-dev/musinsa-price-report/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := cfg.ValidateTargets(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("Starting price report server", "port", cfg.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = cfg.Browser.Headless
	browserOpts.Timeout = cfg.Browser.Timeout
	browserOpts.ViewportWidth = cfg.Browser.ViewportWidth
	browserOpts.ViewportHeight = cfg.Browser.ViewportHeight
	browserOpts.AcceptLanguage = cfg.Browser.AcceptLanguage
	browserOpts.TimezoneID = cfg.Browser.TimezoneID
	browserOpts.Locale = cfg.Browser.Locale

	b, err := browser.New(browserOpts)
	if err != nil {
		logg.Error("Failed to initialize browser", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	svc := scraper.NewService(b, scraper.Options{
		BaseURL:      cfg.Scraper.BaseURL,
		MaxRetries:   cfg.Scraper.MaxRetries,
		PageWait:     cfg.Scraper.PageWait,
		ScrollPasses: cfg.Scraper.ScrollPasses,
		ScrollPause:  cfg.Scraper.ScrollPause,
		RateLimitMin: cfg.Scraper.RateLimitMin,
		RateLimitMax: cfg.Scraper.RateLimitMax,
	}, logg)

	var store *database.DB
	if cfg.Database.Enabled() {
		store, err = database.New(ctx, database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Database: cfg.Database.DBName,
			SSLMode:  cfg.Database.SSLMode,
		})
		if err != nil {
			logg.Error("Failed to connect to database, continuing without persistence", "error", err)
		} else {
			defer store.Close()
			if err := store.InitSchema(ctx); err != nil {
				logg.Error("Failed to init schema", "error", err)
			}
		}
	}

	var publisher *events.Publisher
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer client.Close()
		publisher = events.NewPublisher(client, logg)
	}

	p := pipeline.New(cfg, svc, store, publisher, logg)
	manager := jobs.NewManager(p, logg)
	handlers := api.NewHandlers(manager, logg)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      handlers.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("HTTP server failed", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logg.Info("Shutdown signal received")
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("Shutdown failed", "error", err)
	}
}
