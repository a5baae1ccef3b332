package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/lachdunc/health-coach/internal/service"
	"github.com/lachdunc/health-coach/internal/telegram"
)

// WebhookHandler receives Telegram webhook updates. Telegram retries
// any non-200 response, so processing errors are logged and swallowed.
type WebhookHandler struct {
	conversationService service.ConversationService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(conversationService service.ConversationService) *WebhookHandler {
	return &WebhookHandler{conversationService: conversationService}
}

// Telegram handles POST /webhook/telegram
// @Summary Telegram webhook
// @Description Receive a Telegram bot update and route the message text through the conversation intents. Always returns 200 so Telegram does not retry.
// @Tags webhook
// @Accept json
// @Produce json
// @Param update body telegram.Update true "Telegram update"
// @Success 200 {object} map[string]bool "Acknowledged"
// @Router /webhook/telegram [post]
func (h *WebhookHandler) Telegram(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("[webhook] undecodable update: %v", err)
		writeOK(w)
		return
	}

	if update.Message == nil || strings.TrimSpace(update.Message.Text) == "" {
		writeOK(w)
		return
	}

	chatID := update.Message.ChatIDString()
	if err := h.conversationService.HandleIncoming(r.Context(), chatID, update.Message.Text); err != nil {
		log.Printf("[webhook] handling failed for chat %s: %v", chatID, err)
	}
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}
