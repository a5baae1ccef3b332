package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
)

// SyncHandler handles on-demand pulls from the wearable and training
// providers. The nightly schedule calls the same services.
type SyncHandler struct {
	ingestService   service.IngestService
	rollupService   service.RollupService
	activityService service.ActivityService
	loc             *time.Location
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(
	ingestService service.IngestService,
	rollupService service.RollupService,
	activityService service.ActivityService,
	loc *time.Location,
) *SyncHandler {
	return &SyncHandler{
		ingestService:   ingestService,
		rollupService:   rollupService,
		activityService: activityService,
		loc:             loc,
	}
}

// SyncGarminResponse reports the outcome of a wearable sync.
// @Description Result of a Garmin day sync.
type SyncGarminResponse struct {
	Day     string                     `json:"day"`
	Payload *garmin.DailyPayload       `json:"payload"`
	Summary *domain.DailyHealthSummary `json:"summary,omitempty"`
}

// SyncGarmin handles POST /v1/sync/garmin
// @Summary Sync one day of wearable data
// @Description Pull sleep and heart-rate data for a day, cache the normalized payload, regenerate hourly buckets, and roll the day up. Defaults to yesterday.
// @Tags sync
// @Produce json
// @Param day query string false "Calendar date (YYYY-MM-DD), defaults to yesterday" example(2024-05-12)
// @Success 200 {object} SyncGarminResponse "Sync result"
// @Failure 400 {object} problem.Problem "Invalid day parameter"
// @Failure 502 {object} problem.Problem "Provider login failed"
// @Failure 503 {object} problem.Problem "Garmin credentials not configured"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sync/garmin [post]
func (h *SyncHandler) SyncGarmin(w http.ResponseWriter, r *http.Request) {
	var (
		payload *garmin.DailyPayload
		err     error
		day     time.Time
	)

	if raw := r.URL.Query().Get("day"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			problem.BadRequest("day must be formatted as YYYY-MM-DD").Write(w)
			return
		}
		payload, err = h.ingestService.IngestDay(r.Context(), day)
	} else {
		payload, err = h.ingestService.IngestYesterday(r.Context())
		if payload != nil {
			day, _ = time.Parse("2006-01-02", payload.Date)
		}
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			problem.ServiceUnavailable("Garmin credentials are not configured").Write(w)
			return
		}
		if errors.Is(err, garmin.ErrLoginFailed) {
			problem.BadGateway("Garmin login failed").Write(w)
			return
		}
		problem.InternalError("Failed to sync wearable data").Write(w)
		return
	}

	resp := SyncGarminResponse{Day: payload.Date, Payload: payload}

	// Rollup failure is reported, not fatal: the cached payload and
	// hourly buckets already landed.
	if summary, err := h.rollupService.RollupDay(r.Context(), day); err == nil {
		resp.Summary = summary
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// SyncStravaResponse reports the outcome of an activities sync.
// @Description Result of a Strava activities sync.
type SyncStravaResponse struct {
	Activities int `json:"activities"`
	Days       int `json:"days"`
}

// SyncStrava handles POST /v1/sync/strava
// @Summary Sync recent training activities
// @Description Pull activities from the connected Strava account for the lookback window and cache them grouped by local day.
// @Tags sync
// @Produce json
// @Param days query integer false "Lookback window in days" default(60) minimum(1) maximum(365)
// @Success 200 {object} SyncStravaResponse "Sync result"
// @Failure 400 {object} problem.Problem "Invalid days parameter"
// @Failure 409 {object} problem.Problem "Strava account not connected"
// @Failure 503 {object} problem.Problem "Strava credentials not configured"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /sync/strava [post]
func (h *SyncHandler) SyncStrava(w http.ResponseWriter, r *http.Request) {
	days := parseIntParam(r, "days", service.DefaultActivityLookbackDays)
	if days < 1 || days > 365 {
		problem.BadRequest("days must be between 1 and 365").Write(w)
		return
	}

	count, err := h.activityService.SyncActivities(r.Context(), days)
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			problem.ServiceUnavailable("Strava credentials are not configured").Write(w)
			return
		}
		if errors.Is(err, domain.ErrNoToken) {
			problem.Conflict("Strava account is not connected; visit /auth/strava/start").Write(w)
			return
		}
		problem.InternalError("Failed to sync activities").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SyncStravaResponse{Activities: count, Days: days})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultValue int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return parsed
}
