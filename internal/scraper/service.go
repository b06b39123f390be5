package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
	"github.com/minjae-dev/musinsa-price-report/internal/ratelimit"
)

// Driver is the subset of the browser wrapper the service needs.
type Driver interface {
	NewPage() (playwright.Page, error)
	NavigateWithRetry(page playwright.Page, url string, maxRetries int) error
	ScrollToBottom(page playwright.Page, passes int, pause time.Duration)
	Content(page playwright.Page) (string, error)
}

// Options control how listings are rendered before extraction.
type Options struct {
	BaseURL      string
	MaxRetries   int
	PageWait     time.Duration
	ScrollPasses int
	ScrollPause  time.Duration
	RateLimitMin time.Duration
	RateLimitMax time.Duration
}

func DefaultOptions() Options {
	return Options{
		BaseURL:      "https://www.musinsa.com",
		MaxRetries:   3,
		PageWait:     3 * time.Second,
		ScrollPasses: 2,
		ScrollPause:  2 * time.Second,
		RateLimitMin: 1 * time.Second,
		RateLimitMax: 3 * time.Second,
	}
}

// Service walks brand listings sequentially and collects product records.
type Service struct {
	browser Driver
	opts    Options
	limiter ratelimit.RateLimiter
	logger  *slog.Logger
}

func NewService(b Driver, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		browser: b,
		opts:    opts,
		limiter: ratelimit.NewSimpleRateLimiter(opts.RateLimitMin, opts.RateLimitMax),
		logger:  logger.With("component", "scraper"),
	}
}

// ListingURL builds the storefront search URL for one brand and search
// title: newest first, 120 items, grid view.
func (s *Service) ListingURL(brand, title string) string {
	return fmt.Sprintf("%s/brands/%s?includeKeywords=%s&sortCode=NEW&page=1&size=120&listViewType=3GridView",
		s.opts.BaseURL, url.PathEscape(brand), url.QueryEscape(title))
}

// CollectAll fetches every brand × title listing in order and extracts
// product records. Fetching is strictly sequential. A navigation failure
// is upstream-fatal: the remaining pairs are abandoned and the records
// collected so far are returned together with the error. A failure to
// read or parse one rendered page only skips that pair.
func (s *Service) CollectAll(ctx context.Context, brands, titles []string) ([]models.ProductRecord, error) {
	page, err := s.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %w", err)
	}
	defer page.Close()

	var all []models.ProductRecord

	for _, brand := range brands {
		brand = strings.TrimSpace(brand)
		for _, title := range titles {
			title = strings.TrimSpace(title)

			if err := s.limiter.Wait(ctx); err != nil {
				return all, err
			}

			records, err := s.collectListing(page, brand, title)
			if err != nil {
				return all, fmt.Errorf("fetch aborted at brand %q title %q: %w", brand, title, err)
			}
			all = append(all, records...)
		}
	}

	return all, nil
}

func (s *Service) collectListing(page playwright.Page, brand, title string) ([]models.ProductRecord, error) {
	listingURL := s.ListingURL(brand, title)
	s.logger.Info("fetching listing", "brand", brand, "title", title, "url", listingURL)

	if err := s.browser.NavigateWithRetry(page, listingURL, s.opts.MaxRetries); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	time.Sleep(s.opts.PageWait)
	s.browser.ScrollToBottom(page, s.opts.ScrollPasses, s.opts.ScrollPause)

	html, err := s.browser.Content(page)
	if err != nil {
		// Partial-result policy: the pair contributes nothing, the run
		// continues with the next pair.
		s.logger.Error("failed to read listing content", "error", err, "brand", brand, "title", title)
		return nil, nil
	}

	cards, err := CardsFromHTML(html)
	if err != nil {
		s.logger.Error("failed to parse listing", "error", err, "brand", brand, "title", title)
		return nil, nil
	}

	return ExtractProducts(cards, title, brand, s.logger), nil
}
