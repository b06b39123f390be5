package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minjae-dev/musinsa-price-report/internal/jobs"
	"github.com/minjae-dev/musinsa-price-report/internal/pipeline"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	h := NewHandlers(jobs.NewManager(nil, nil), nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/runs/does-not-exist")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// blockedRunner holds a run open until release is closed.
type blockedRunner struct {
	release chan struct{}
}

func (r *blockedRunner) Run(context.Context, string) (*pipeline.Result, error) {
	<-r.release
	return &pipeline.Result{}, nil
}

func TestCreateRunConflictWhileRunning(t *testing.T) {
	runner := &blockedRunner{release: make(chan struct{})}
	defer close(runner.release)

	h := NewHandlers(jobs.NewManager(runner, nil), nil)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)

	resp, err := http.Post(srv.URL+"/api/v1/runs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	// Runs are one at a time; a second request while the first is
	// active is rejected.
	resp, err = http.Post(srv.URL+"/api/v1/runs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetRunSummaryNotFound(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/runs/does-not-exist/summary")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
