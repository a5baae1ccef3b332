package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lachdunc/health-coach/internal/api/validation"
	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
)

// DiaryHandler records structured migraine diary entries.
type DiaryHandler struct {
	diaryService service.DiaryService
}

// NewDiaryHandler creates a new DiaryHandler.
func NewDiaryHandler(diaryService service.DiaryService) *DiaryHandler {
	return &DiaryHandler{diaryService: diaryService}
}

// Create handles POST /v1/diary
// @Summary Record a migraine diary entry
// @Description Record one self-reported headache entry. Day defaults to today in the configured timezone.
// @Tags diary
// @Accept json
// @Produce json
// @Param request body domain.CreateDiaryEntryRequest true "Diary entry"
// @Success 201 {object} domain.MigraineDiary "Entry recorded"
// @Failure 400 {object} problem.Problem "Invalid request body"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /diary [post]
func (h *DiaryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDiaryEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.BadRequest("Invalid JSON body").Write(w)
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		problem.ValidationError("Request body contains invalid fields", fieldErrors).Write(w)
		return
	}

	entry, err := h.diaryService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("day must be formatted as YYYY-MM-DD").Write(w)
			return
		}
		problem.InternalError("Failed to record diary entry").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(entry)
}

// DiaryListResponse is one day of diary entries.
// @Description Diary entries recorded for one day.
type DiaryListResponse struct {
	Data []domain.MigraineDiary `json:"data"`
}

// List handles GET /v1/diary
// @Summary List diary entries for a day
// @Description List the migraine diary entries recorded for one day. Day defaults to today in the configured timezone.
// @Tags diary
// @Produce json
// @Param day query string false "Calendar date (YYYY-MM-DD)" example(2024-05-12)
// @Success 200 {object} DiaryListResponse "Diary entries, possibly empty"
// @Failure 400 {object} problem.Problem "Invalid day"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /diary [get]
func (h *DiaryHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.diaryService.List(r.Context(), r.URL.Query().Get("day"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			problem.BadRequest("day must be formatted as YYYY-MM-DD").Write(w)
			return
		}
		problem.InternalError("Failed to list diary entries").Write(w)
		return
	}
	if entries == nil {
		entries = []domain.MigraineDiary{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DiaryListResponse{Data: entries})
}
