// Package pipeline runs one full scrape: fetch every brand listing,
// aggregate the records, and write the report artifacts.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/minjae-dev/musinsa-price-report/internal/analytics"
	"github.com/minjae-dev/musinsa-price-report/internal/config"
	"github.com/minjae-dev/musinsa-price-report/internal/database"
	"github.com/minjae-dev/musinsa-price-report/internal/events"
	"github.com/minjae-dev/musinsa-price-report/internal/models"
	"github.com/minjae-dev/musinsa-price-report/internal/report"
)

// Collector fetches product records for every brand and title pair.
// *scraper.Service is the production implementation.
type Collector interface {
	CollectAll(ctx context.Context, brands, titles []string) ([]models.ProductRecord, error)
}

// ErrNoData signals a run that collected zero records. Normal termination,
// not a fault: there is simply nothing to report.
var ErrNoData = errors.New("no products collected, nothing to report")

// Result holds everything a finished run produced.
type Result struct {
	RunID           string                 `json:"run_id"`
	Records         []models.ProductRecord `json:"records"`
	BrandSummary    []models.SummaryRow    `json:"brand_summary"`
	CategorySummary []models.SummaryRow    `json:"category_summary"`
	WorkbookPath    string                 `json:"workbook_path"`
	ReportPath      string                 `json:"report_path"`
	Aborted         bool                   `json:"aborted"`
}

// Pipeline wires the scrape service to persistence, aggregation and
// report writing. Store and publisher are optional.
type Pipeline struct {
	cfg       *config.Config
	svc       Collector
	store     *database.DB
	publisher *events.Publisher
	logger    *slog.Logger
}

func New(cfg *config.Config, svc Collector, store *database.DB, publisher *events.Publisher, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		svc:       svc,
		store:     store,
		publisher: publisher,
		logger:    logger.With("component", "pipeline"),
	}
}

// Run executes one scrape end to end. An upstream failure mid-fetch does
// not discard the run: whatever was collected is still aggregated and
// reported, with Result.Aborted set.
func (p *Pipeline) Run(ctx context.Context, runID string) (*Result, error) {
	startedAt := time.Now()

	if p.store != nil {
		if err := p.store.InsertRun(ctx, runID, startedAt); err != nil {
			p.logger.Error("failed to record run start", "error", err, "run_id", runID)
		}
	}

	records, fetchErr := p.svc.CollectAll(ctx, p.cfg.Scraper.Brands, p.cfg.Scraper.Titles)
	if fetchErr != nil {
		p.logger.Error("fetch loop aborted, continuing with collected records",
			"error", fetchErr, "records", len(records))
	}

	if len(records) == 0 {
		return nil, ErrNoData
	}

	sortRecords(records)

	if p.store != nil {
		if err := p.store.InsertRecords(ctx, runID, records); err != nil {
			p.logger.Error("failed to persist records", "error", err, "run_id", runID)
		} else if err := p.store.CompleteRun(ctx, runID, len(records)); err != nil {
			p.logger.Error("failed to complete run", "error", err, "run_id", runID)
		}
	}

	brandRows, categoryRows := analytics.Summarize(records)

	now := time.Now()
	workbookPath := report.WorkbookPath(p.cfg.Report.OutputDir, now)
	if err := report.WriteWorkbook(workbookPath, records, brandRows, categoryRows); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	p.logger.Info("workbook written", "path", workbookPath)

	reportPath := report.DocumentPath(p.cfg.Report.OutputDir, now)
	if err := report.WriteDocument(reportPath, brandRows); err != nil {
		return nil, fmt.Errorf("failed to write document: %w", err)
	}
	p.logger.Info("document written", "path", reportPath)

	result := &Result{
		RunID:           runID,
		Records:         records,
		BrandSummary:    brandRows,
		CategorySummary: categoryRows,
		WorkbookPath:    workbookPath,
		ReportPath:      reportPath,
		Aborted:         fetchErr != nil,
	}

	if p.publisher != nil {
		payload := &events.RunCompletedPayload{
			RunID:        runID,
			RecordCount:  len(records),
			PairCount:    len(p.cfg.Scraper.Brands) * len(p.cfg.Scraper.Titles),
			WorkbookPath: workbookPath,
			ReportPath:   reportPath,
			Aborted:      result.Aborted,
		}
		if err := p.publisher.PublishRunCompleted(ctx, payload); err != nil {
			p.logger.Error("failed to publish run event", "error", err, "run_id", runID)
		}
	}

	return result, nil
}

// sortRecords orders the master table by category then brand, keeping the
// extraction order within each pair.
func sortRecords(records []models.ProductRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Category != records[j].Category {
			return records[i].Category < records[j].Category
		}
		return records[i].BrandName < records[j].BrandName
	})
}
