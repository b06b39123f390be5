// Package api exposes scrape runs and their summaries over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minjae-dev/musinsa-price-report/internal/jobs"
	"github.com/minjae-dev/musinsa-price-report/internal/models"
)

type Handlers struct {
	jobs   *jobs.Manager
	logger *slog.Logger
}

func NewHandlers(manager *jobs.Manager, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		jobs:   manager,
		logger: logger.With("component", "api"),
	}
}

func (h *Handlers) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.Health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/runs", h.CreateRun)
		r.Get("/runs/{id}", h.GetRun)
		r.Get("/runs/{id}/summary", h.GetRunSummary)
	})

	return r
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateRun starts a scrape run. Runs are strictly sequential; a second
// request while one is active gets 409.
func (h *Handlers) CreateRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.jobs.StartRun()
	if err != nil {
		if errors.Is(err, jobs.ErrRunInProgress) {
			h.respondError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to start run", "error", err)
		h.respondError(w, http.StatusInternalServerError, "failed to start run")
		return
	}

	h.respondJSON(w, http.StatusAccepted, run)
}

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.jobs.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, run)
}

// SummaryResponse carries both summary tables of a completed run.
type SummaryResponse struct {
	RunID           string              `json:"run_id"`
	BrandSummary    []models.SummaryRow `json:"brand_summary"`
	CategorySummary []models.SummaryRow `json:"category_summary"`
}

func (h *Handlers) GetRunSummary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.jobs.Result(id)
	if err != nil {
		if errors.Is(err, jobs.ErrRunNotFound) {
			h.respondError(w, http.StatusNotFound, err.Error())
			return
		}
		h.respondError(w, http.StatusConflict, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, SummaryResponse{
		RunID:           id,
		BrandSummary:    result.BrandSummary,
		CategorySummary: result.CategorySummary,
	})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, msg string) {
	h.respondJSON(w, status, map[string]string{"error": msg})
}
