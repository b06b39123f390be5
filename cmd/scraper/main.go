package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/minjae-dev/musinsa-price-report/internal/browser"
	"github.com/minjae-dev/musinsa-price-report/internal/config"
	"github.com/minjae-dev/musinsa-price-report/internal/database"
	"github.com/minjae-dev/musinsa-price-report/internal/events"
	"github.com/minjae-dev/musinsa-price-report/internal/pipeline"
	"github.com/minjae-dev/musinsa-price-report/internal/scraper"
	"github.com/minjae-dev/musinsa-price-report/pkg/logger"
)

func main() {
	var (
		brands   = flag.String("brands", "", "Comma-separated brand slugs to scrape")
		titles   = flag.String("titles", "", "Comma-separated search titles")
		output   = flag.String("output", "", "Directory for the workbook and report")
		headless = flag.Bool("headless", true, "Run browser in headless mode")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *brands != "" {
		cfg.Scraper.Brands = splitList(*brands)
	}
	if *titles != "" {
		cfg.Scraper.Titles = splitList(*titles)
	}
	if *output != "" {
		cfg.Report.OutputDir = *output
	}

	if err := cfg.ValidateTargets(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logg := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	logg.Info("Starting price report scraper",
		"brands", len(cfg.Scraper.Brands), "titles", len(cfg.Scraper.Titles))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logg.Info("Shutdown signal received")
		cancel()
	}()

	browserOpts := browser.DefaultOptions()
	browserOpts.Headless = *headless && cfg.Browser.Headless
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

	result, err := p.Run(ctx, uuid.New().String())
	if err != nil {
		if errors.Is(err, pipeline.ErrNoData) {
			logg.Info("No products found")
			fmt.Println("No products found.")
			return
		}
		logg.Error("Run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Data saved to %s\n", result.WorkbookPath)
	fmt.Printf("Report saved to %s\n", result.ReportPath)
	if result.Aborted {
		fmt.Println("Note: the fetch loop was cut short; the report covers the records collected before the failure.")
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
