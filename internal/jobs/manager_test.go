package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjae-dev/musinsa-price-report/internal/models"
	"github.com/minjae-dev/musinsa-price-report/internal/pipeline"
)

// fakeRunner blocks until release is closed, when set.
type fakeRunner struct {
	release chan struct{}
	result  *pipeline.Result
	err     error
}

func (r *fakeRunner) Run(ctx context.Context, runID string) (*pipeline.Result, error) {
	if r.release != nil {
		<-r.release
	}
	if r.result != nil {
		res := *r.result
		res.RunID = runID
		return &res, r.err
	}
	return nil, r.err
}

func waitForStatus(t *testing.T, m *Manager, runID string, want Status) *Run {
	t.Helper()
	require.Eventually(t, func() bool {
		run, err := m.Get(runID)
		return err == nil && run.Status == want
	}, time.Second, 10*time.Millisecond)

	run, err := m.Get(runID)
	require.NoError(t, err)
	return run
}

func TestStartRunRejectsConcurrentRun(t *testing.T) {
	runner := &fakeRunner{release: make(chan struct{}), result: &pipeline.Result{}}
	m := NewManager(runner, nil)

	first, err := m.StartRun()
	require.NoError(t, err)

	_, err = m.StartRun()
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(runner.release)
	waitForStatus(t, m, first.ID, StatusCompleted)

	// The slot frees once the run finishes.
	_, err = m.StartRun()
	assert.NoError(t, err)
}

func TestRunCompleted(t *testing.T) {
	runner := &fakeRunner{result: &pipeline.Result{
		Records:      []models.ProductRecord{{Category: "shirts", BrandName: "acme", ProductName: "Oxford Shirt"}},
		WorkbookPath: "musinsa_products_20260825.xlsx",
		ReportPath:   "report_20260825.docx",
	}}
	m := NewManager(runner, nil)

	started, err := m.StartRun()
	require.NoError(t, err)

	run := waitForStatus(t, m, started.ID, StatusCompleted)
	assert.Equal(t, 1, run.RecordCount)
	assert.Equal(t, "musinsa_products_20260825.xlsx", run.WorkbookPath)
	assert.False(t, run.Aborted)
	require.NotNil(t, run.CompletedAt)

	result, err := m.Result(started.ID)
	require.NoError(t, err)
	assert.Equal(t, started.ID, result.RunID)
}

func TestRunNoDataCompletesWithMessage(t *testing.T) {
	runner := &fakeRunner{err: pipeline.ErrNoData}
	m := NewManager(runner, nil)

	started, err := m.StartRun()
	require.NoError(t, err)

	run := waitForStatus(t, m, started.ID, StatusCompleted)
	assert.Equal(t, pipeline.ErrNoData.Error(), run.Message)
	assert.Empty(t, run.Error)

	// Nothing to report, so no summary either.
	_, err = m.Result(started.ID)
	assert.Error(t, err)
}

func TestRunFailed(t *testing.T) {
	runner := &fakeRunner{err: errors.New("browser crashed")}
	m := NewManager(runner, nil)

	started, err := m.StartRun()
	require.NoError(t, err)

	run := waitForStatus(t, m, started.ID, StatusFailed)
	assert.Equal(t, "browser crashed", run.Error)
}

func TestGetUnknownRun(t *testing.T) {
	m := NewManager(nil, nil)

	_, err := m.Get("does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = m.Result("does-not-exist")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
