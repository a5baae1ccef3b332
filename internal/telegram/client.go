// Package telegram provides a lightweight HTTP client for the Telegram
// Bot API send-message call, plus the webhook payload types. If not
// configured, the client operates as a no-op.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client is the interface for outbound chat messages.
type Client interface {
	// IsEnabled returns true if the bot token and chat are configured.
	IsEnabled() bool
	// Send delivers text to chatID, or to the default chat when chatID
	// is empty.
	Send(ctx context.Context, chatID, text string) error
	// DefaultChatID returns the configured default chat.
	DefaultChatID() string
}

// Config holds Telegram client configuration.
type Config struct {
	BaseURL  string
	BotToken string
	ChatID   string
}

type client struct {
	baseURL    string
	botToken   string
	chatID     string
	enabled    bool
	httpClient *http.Client
}

// NewClient creates a new Telegram client. If the bot token or chat id
// is empty, returns a disabled no-op client.
func NewClient(cfg Config) Client {
	enabled := cfg.BotToken != "" && cfg.ChatID != ""

	if !enabled {
		log.Println("[telegram] disabled: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is empty")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &client{
		baseURL:  baseURL,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  enabled,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *client) IsEnabled() bool {
	return c.enabled
}

func (c *client) DefaultChatID() string {
	return c.chatID
}

func (c *client) Send(ctx context.Context, chatID, text string) error {
	if !c.enabled {
		log.Println("[telegram] send skipped: client disabled")
		return nil
	}

	if chatID == "" {
		chatID = c.chatID
	}

	body, err := json.Marshal(map[string]string{
		"chat_id": chatID,
		"text":    text,
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram send: status %d", resp.StatusCode)
	}
	return nil
}

// Update is the inbound webhook payload, reduced to the fields we use.
type Update struct {
	Message *Message `json:"message"`
}

// Message is one inbound chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat identifies the conversation a message belongs to.
type Chat struct {
	ID int64 `json:"id"`
}

// ChatIDString returns the chat id in the string form stored in the
// message log.
func (m *Message) ChatIDString() string {
	return strconv.FormatInt(m.Chat.ID, 10)
}
