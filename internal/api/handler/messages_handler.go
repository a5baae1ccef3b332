package handler

import (
	"encoding/json"
	"net/http"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/pkg/problem"
)

// MessagesHandler serves the logged chat history.
type MessagesHandler struct {
	conversationService service.ConversationService
}

// NewMessagesHandler creates a new MessagesHandler.
func NewMessagesHandler(conversationService service.ConversationService) *MessagesHandler {
	return &MessagesHandler{conversationService: conversationService}
}

// List handles GET /v1/messages
// @Summary List chat messages
// @Description Page through the logged inbound and outbound chat messages, newest first.
// @Tags messages
// @Produce json
// @Param direction query string false "Filter by direction" Enums(in, out)
// @Param limit query integer false "Results per page (1-100)" default(20) minimum(1) maximum(100)
// @Param cursor query string false "Cursor from previous response's next_cursor"
// @Success 200 {object} domain.MessageListResponse "Messages with pagination"
// @Failure 400 {object} problem.Problem "Invalid query parameters"
// @Failure 500 {object} problem.Problem "Server error"
// @Router /messages [get]
func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.MessageFilter{
		Limit:  parseIntParam(r, "limit", 0),
		Cursor: r.URL.Query().Get("cursor"),
	}

	if raw := r.URL.Query().Get("direction"); raw != "" {
		dir := domain.Direction(raw)
		if dir != domain.DirectionIn && dir != domain.DirectionOut {
			problem.BadRequest("direction must be 'in' or 'out'").Write(w)
			return
		}
		filter.Direction = &dir
	}

	response, err := h.conversationService.Messages(r.Context(), filter)
	if err != nil {
		problem.InternalError("Failed to list messages").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
