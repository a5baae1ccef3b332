package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
)

// AuthHandler drives the Strava OAuth connect flow.
type AuthHandler struct {
	activityService service.ActivityService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(activityService service.ActivityService) *AuthHandler {
	return &AuthHandler{activityService: activityService}
}

// StravaStart handles GET /auth/strava/start
// @Summary Start the Strava OAuth flow
// @Description Redirect the browser to the Strava authorization page.
// @Tags auth
// @Success 302 "Redirect to Strava"
// @Failure 503 {object} problem.Problem "Strava credentials not configured"
// @Router /auth/strava/start [get]
func (h *AuthHandler) StravaStart(w http.ResponseWriter, r *http.Request) {
	url, err := h.activityService.AuthStartURL()
	if err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			problem.ServiceUnavailable("Strava credentials are not configured").Write(w)
			return
		}
		problem.InternalError("Failed to start OAuth flow").Write(w)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// StravaCallback handles GET /auth/strava/callback
// @Summary Complete the Strava OAuth flow
// @Description Exchange the authorization code for tokens and store them. Strava calls this endpoint after the user approves access.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code from Strava"
// @Success 200 {object} map[string]string "Account connected"
// @Failure 400 {object} problem.Problem "Missing or rejected code"
// @Failure 502 {object} problem.Problem "Token exchange failed"
// @Router /auth/strava/callback [get]
func (h *AuthHandler) StravaCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		problem.BadRequest("code query parameter is required").Write(w)
		return
	}

	if err := h.activityService.ExchangeAndStore(r.Context(), code); err != nil {
		if errors.Is(err, domain.ErrNotConfigured) {
			problem.ServiceUnavailable("Strava credentials are not configured").Write(w)
			return
		}
		problem.BadGateway("Failed to exchange the authorization code").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "connected", "provider": "strava"})
}
