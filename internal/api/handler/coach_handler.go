package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lachdunc/health-coach/internal/llm"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
	"go.opentelemetry.io/otel/trace"
)

// CoachHandler exposes the LLM coaching call.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// Recommend handles POST /v1/coach/recommendation
// @Summary Generate a coaching recommendation
// @Description Build the health context and ask the LLM coach for today's training recommendation. Returns the recommendation plus the exact context it was given.
// @Tags coach
// @Produce json
// @Success 200 {object} domain.CoachRecommendation "Coaching recommendation"
// @Failure 500 {object} problem.Problem "Server error"
// @Failure 502 {object} problem.Problem "LLM call failed"
// @Failure 503 {object} problem.Problem "LLM not configured"
// @Router /coach/recommendation [post]
func (h *CoachHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	result, err := h.coachService.Recommend(r.Context())
	if err != nil {
		if errors.Is(err, llm.ErrOpenAIUnavailable) {
			problem.ServiceUnavailable("OpenAI service is not configured").Write(w)
			return
		}
		if errors.Is(err, llm.ErrOpenAIRequest) || errors.Is(err, llm.ErrOpenAIResponse) {
			problem.BadGateway("Failed to generate a recommendation from the LLM").Write(w)
			return
		}
		problem.InternalError("Failed to generate a recommendation").Write(w)
		return
	}

	// Attach OTEL trace ID (if present) so the call can be located in
	// the tracing backend.
	span := trace.SpanFromContext(r.Context())
	if span.SpanContext().IsValid() {
		result.TraceID = span.SpanContext().TraceID().String()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
