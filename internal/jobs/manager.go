// Package jobs tracks scrape runs started through the HTTP API.
package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minjae-dev/musinsa-price-report/internal/pipeline"
)

// ErrRunInProgress is returned when a run is requested while another is
// still executing. Fetching is strictly sequential, so runs never overlap.
var ErrRunInProgress = errors.New("a run is already in progress")

// ErrRunNotFound is returned for unknown run IDs.
var ErrRunNotFound = errors.New("run not found")

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is the externally visible state of one scrape run.
type Run struct {
	ID           string     `json:"id"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	RecordCount  int        `json:"record_count"`
	WorkbookPath string     `json:"workbook_path,omitempty"`
	ReportPath   string     `json:"report_path,omitempty"`
	Aborted      bool       `json:"aborted"`
	Message      string     `json:"message,omitempty"`
	Error        string     `json:"error,omitempty"`
}

// Runner executes one scrape run. *pipeline.Pipeline is the production
// implementation.
type Runner interface {
	Run(ctx context.Context, runID string) (*pipeline.Result, error)
}

// Manager starts pipeline runs one at a time and keeps their state and
// results in memory.
type Manager struct {
	mu       sync.Mutex
	runs     map[string]*Run
	results  map[string]*pipeline.Result
	running  bool
	pipeline Runner
	logger   *slog.Logger
}

func NewManager(p Runner, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		runs:     make(map[string]*Run),
		results:  make(map[string]*pipeline.Result),
		pipeline: p,
		logger:   logger.With("component", "job_manager"),
	}
}

// StartRun creates a run and executes it in the background. Only one run
// may be active at a time.
func (m *Manager) StartRun() (*Run, error) {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil, ErrRunInProgress
	}

	run := &Run{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	m.runs[run.ID] = run
	m.running = true
	m.mu.Unlock()

	// Detached from the request context: the run outlives the request.
	go m.execute(context.Background(), run.ID)

	m.logger.Info("run created", "run_id", run.ID)
	return m.snapshot(run.ID), nil
}

func (m *Manager) execute(ctx context.Context, runID string) {
	now := time.Now()
	m.update(runID, func(r *Run) {
		r.Status = StatusRunning
		r.StartedAt = &now
	})

	result, err := m.pipeline.Run(ctx, runID)
	completed := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false

	run, ok := m.runs[runID]
	if !ok {
		return
	}
	run.CompletedAt = &completed

	switch {
	case errors.Is(err, pipeline.ErrNoData):
		// Normal termination: nothing matched, nothing to report.
		run.Status = StatusCompleted
		run.Message = err.Error()
	case err != nil:
		run.Status = StatusFailed
		run.Error = err.Error()
	default:
		run.Status = StatusCompleted
		run.RecordCount = len(result.Records)
		run.WorkbookPath = result.WorkbookPath
		run.ReportPath = result.ReportPath
		run.Aborted = result.Aborted
		m.results[runID] = result
	}

	m.logger.Info("run finished", "run_id", runID, "status", run.Status, "records", run.RecordCount)
}

// Get returns a copy of the run state.
func (m *Manager) Get(runID string) (*Run, error) {
	run := m.snapshot(runID)
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

// Result returns the full pipeline result of a completed run.
func (m *Manager) Result(runID string) (*pipeline.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.runs[runID]; !ok {
		return nil, ErrRunNotFound
	}
	result, ok := m.results[runID]
	if !ok {
		return nil, errors.New("run has no summary yet")
	}
	return result, nil
}

func (m *Manager) update(runID string, fn func(*Run)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[runID]; ok {
		fn(run)
	}
}

func (m *Manager) snapshot(runID string) *Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil
	}
	copied := *run
	return &copied
}
