// Package events publishes run lifecycle events to a Redis stream so
// downstream consumers can react to finished price reports.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event.
type EventType string

const (
	// EventTypeRunCompleted is published when a scrape run has finished
	// and its artifacts are written.
	EventTypeRunCompleted EventType = "PRICE_RUN_COMPLETED"
)

const runStream = "stream:price_runs"

// RunCompletedPayload describes one finished scrape run.
type RunCompletedPayload struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	Timestamp    time.Time `json:"timestamp"`
	RunID        string    `json:"run_id"`
	RecordCount  int       `json:"record_count"`
	PairCount    int       `json:"pair_count"`
	WorkbookPath string    `json:"workbook_path,omitempty"`
	ReportPath   string    `json:"report_path,omitempty"`
	Aborted      bool      `json:"aborted"`
	Source       string    `json:"source"`
}

// RedisClient is the subset of the redis client the publisher needs.
type RedisClient interface {
	XAdd(ctx context.Context, args *redis.XAddArgs) *redis.StringCmd
}

// Publisher emits run events to the price-run stream.
type Publisher struct {
	redis  RedisClient
	logger *slog.Logger
}

func NewPublisher(client RedisClient, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		redis:  client,
		logger: logger.With("component", "event_publisher"),
	}
}

// PublishRunCompleted publishes a PRICE_RUN_COMPLETED event.
func (p *Publisher) PublishRunCompleted(ctx context.Context, payload *RunCompletedPayload) error {
	if payload.EventID == "" {
		payload.EventID = uuid.New().String()
	}
	if payload.EventType == "" {
		payload.EventType = string(EventTypeRunCompleted)
	}
	if payload.Timestamp.IsZero() {
		payload.Timestamp = time.Now()
	}
	if payload.Source == "" {
		payload.Source = "scraper"
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: runStream,
		Values: map[string]interface{}{
			"event_type": payload.EventType,
			"payload":    string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Info("event published",
		"type", payload.EventType,
		"event_id", payload.EventID,
		"run_id", payload.RunID,
		"records", payload.RecordCount,
	)
	return nil
}
