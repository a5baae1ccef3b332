package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
)

// ContextHandler exposes the assembled health context and the raw
// hourly buckets behind it for inspection.
type ContextHandler struct {
	contextService service.ContextService
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(contextService service.ContextService) *ContextHandler {
	return &ContextHandler{contextService: contextService}
}

// GetContext handles GET /v1/context
// @Summary Get the health context
// @Description Assemble the bounded health context: recent daily summaries oldest to newest, the latest day's hourly heart-rate means, and a partial block when that day is still in progress.
// @Tags context
// @Produce json
// @Param days query integer false "Daily summary lookback window" default(14) minimum(1) maximum(90)
// @Success 200 {object} domain.HealthContext "Health context"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /context [get]
func (h *ContextHandler) GetContext(w http.ResponseWriter, r *http.Request) {
	days := parseIntParam(r, "days", service.DefaultLookbackDays)
	if days < 1 || days > 90 {
		problem.BadRequest("days must be between 1 and 90").Write(w)
		return
	}

	result, err := h.contextService.Build(r.Context(), days)
	if err != nil {
		problem.InternalError("Failed to build health context").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HourlyDayResponse is one local day of heart-rate buckets.
// @Description Hourly heart-rate buckets for one day.
type HourlyDayResponse struct {
	Day     string                   `json:"day"`
	Buckets []domain.HeartRateHourly `json:"buckets"`
}

// GetHourly handles GET /v1/hourly/{day}
// @Summary Get hourly heart-rate buckets
// @Description Return the stored per-hour heart-rate aggregates for one local calendar day.
// @Tags context
// @Produce json
// @Param day path string true "Calendar date (YYYY-MM-DD)" example(2024-05-12)
// @Success 200 {object} HourlyDayResponse "Hourly buckets, possibly empty"
// @Failure 400 {object} problem.Problem "Invalid day"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /hourly/{day} [get]
func (h *ContextHandler) GetHourly(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", chi.URLParam(r, "day"))
	if err != nil {
		problem.BadRequest("day must be formatted as YYYY-MM-DD").Write(w)
		return
	}

	buckets, err := h.contextService.Hourly(r.Context(), day)
	if err != nil {
		problem.InternalError("Failed to list hourly buckets").Write(w)
		return
	}
	if buckets == nil {
		buckets = []domain.HeartRateHourly{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HourlyDayResponse{
		Day:     day.Format("2006-01-02"),
		Buckets: buckets,
	})
}

// GetSummary handles GET /v1/summary/{day}
// @Summary Get one daily summary
// @Description Return the rolled-up daily health summary for one local calendar day.
// @Tags context
// @Produce json
// @Param day path string true "Calendar date (YYYY-MM-DD)" example(2024-05-12)
// @Success 200 {object} domain.DailyHealthSummary "Daily summary"
// @Failure 400 {object} problem.Problem "Invalid day"
// @Failure 404 {object} problem.Problem "No summary for the day"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /summary/{day} [get]
func (h *ContextHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	day, err := time.Parse("2006-01-02", chi.URLParam(r, "day"))
	if err != nil {
		problem.BadRequest("day must be formatted as YYYY-MM-DD").Write(w)
		return
	}

	row, err := h.contextService.Summary(r.Context(), day)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			problem.NotFound("No summary for " + day.Format("2006-01-02")).Write(w)
			return
		}
		problem.InternalError("Failed to load daily summary").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(row)
}
