package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Scraper  ScraperConfig
	Browser  BrowserConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Report   ReportConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	Brands       []string
	Titles       []string
	BaseURL      string
	MaxRetries   int
	PageWait     time.Duration
	ScrollPasses int
	ScrollPause  time.Duration
	RateLimitMin time.Duration
	RateLimitMax time.Duration
}

type BrowserConfig struct {
	Headless       bool
	Timeout        time.Duration
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether record persistence is configured. An empty host
// disables the database entirely.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Addr string
}

// Enabled reports whether run events should be published.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type ReportConfig struct {
	OutputDir string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// .env is optional; system env always wins.
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			Brands:       getStringSliceOrDefault("SCRAPER_BRANDS", []string{}),
			Titles:       getStringSliceOrDefault("SCRAPER_TITLES", []string{}),
			BaseURL:      getEnvOrDefault("SCRAPER_BASE_URL", "https://www.musinsa.com"),
			MaxRetries:   getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
			PageWait:     getDurationOrDefault("SCRAPER_PAGE_WAIT", 3*time.Second),
			ScrollPasses: getIntOrDefault("SCRAPER_SCROLL_PASSES", 2),
			ScrollPause:  getDurationOrDefault("SCRAPER_SCROLL_PAUSE", 2*time.Second),
			RateLimitMin: getDurationOrDefault("SCRAPER_RATE_LIMIT_MIN", 1*time.Second),
			RateLimitMax: getDurationOrDefault("SCRAPER_RATE_LIMIT_MAX", 3*time.Second),
		},
		Browser: BrowserConfig{
			Headless:       getBoolOrDefault("BROWSER_HEADLESS", true),
			Timeout:        getDurationOrDefault("BROWSER_TIMEOUT", 30*time.Second),
			ViewportWidth:  getIntOrDefault("BROWSER_VIEWPORT_WIDTH", 1920),
			ViewportHeight: getIntOrDefault("BROWSER_VIEWPORT_HEIGHT", 1080),
			AcceptLanguage: getEnvOrDefault("BROWSER_ACCEPT_LANGUAGE", "ko-KR,ko;q=0.9,en;q=0.8"),
			TimezoneID:     getEnvOrDefault("BROWSER_TIMEZONE", "Asia/Seoul"),
			Locale:         getEnvOrDefault("BROWSER_LOCALE", "ko-KR"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("DB_HOST", ""),
			Port:     getIntOrDefault("DB_PORT", 5432),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", ""),
			DBName:   getEnvOrDefault("DB_NAME", "price_report"),
			SSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Addr: getEnvOrDefault("REDIS_ADDR", ""),
		},
		Report: ReportConfig{
			OutputDir: getEnvOrDefault("REPORT_OUTPUT_DIR", "."),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "text"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Scraper.ScrollPasses < 0 {
		return fmt.Errorf("SCRAPER_SCROLL_PASSES cannot be negative")
	}

	if c.Scraper.RateLimitMin > c.Scraper.RateLimitMax {
		return fmt.Errorf("SCRAPER_RATE_LIMIT_MIN cannot be greater than SCRAPER_RATE_LIMIT_MAX")
	}

	return nil
}

// ValidateTargets additionally requires at least one brand and one title,
// for entry points that start a scrape immediately.
func (c *Config) ValidateTargets() error {
	if err := c.Validate(); err != nil {
		return err
	}

	if len(c.Scraper.Brands) == 0 {
		return fmt.Errorf("SCRAPER_BRANDS must list at least one brand")
	}

	if len(c.Scraper.Titles) == 0 {
		return fmt.Errorf("SCRAPER_TITLES must list at least one search title")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
