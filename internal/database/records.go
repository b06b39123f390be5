package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id UUID PRIMARY KEY,
	started_at TIMESTAMPTZ NOT NULL,
	completed_at TIMESTAMPTZ,
	record_count INT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS product_records (
	id BIGSERIAL PRIMARY KEY,
	run_id UUID NOT NULL REFERENCES runs(id),
	category TEXT NOT NULL,
	brand_name TEXT NOT NULL,
	product_name TEXT NOT NULL,
	original_price DOUBLE PRECISION,
	discount_rate DOUBLE PRECISION,
	actual_sale_price DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_product_records_run ON product_records(run_id);
`

// InitSchema creates the runs and product_records tables if missing.
func (db *DB) InitSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to init schema: %w", err)
	}
	return nil
}

// InsertRun records the start of a scrape run.
func (db *DB) InsertRun(ctx context.Context, runID string, startedAt time.Time) error {
	query := `INSERT INTO runs (id, started_at) VALUES ($1, $2)`
	if _, err := db.pool.Exec(ctx, query, runID, startedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// CompleteRun marks a run finished with its final record count.
func (db *DB) CompleteRun(ctx context.Context, runID string, recordCount int) error {
	query := `UPDATE runs SET completed_at = now(), record_count = $2 WHERE id = $1`
	if _, err := db.pool.Exec(ctx, query, runID, recordCount); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// InsertRecords batch-inserts a run's product records.
func (db *DB) InsertRecords(ctx context.Context, runID string, records []models.ProductRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO product_records
		(run_id, category, brand_name, product_name, original_price, discount_rate, actual_sale_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(query, runID, r.Category, r.BrandName, r.ProductName,
			r.OriginalPrice, r.DiscountRate, r.ActualSalePrice)
	}

	br := db.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}
	return nil
}

// FetchRecords returns a run's records in insertion order.
func (db *DB) FetchRecords(ctx context.Context, runID string) ([]models.ProductRecord, error) {
	query := `
		SELECT category, brand_name, product_name, original_price, discount_rate, actual_sale_price
		FROM product_records
		WHERE run_id = $1
		ORDER BY id`

	rows, err := db.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []models.ProductRecord
	for rows.Next() {
		var r models.ProductRecord
		if err := rows.Scan(&r.Category, &r.BrandName, &r.ProductName,
			&r.OriginalPrice, &r.DiscountRate, &r.ActualSalePrice); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}
	return records, nil
}
