package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClient_Disabled(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "empty bot token",
			config: Config{BotToken: "", ChatID: "42"},
		},
		{
			name:   "empty chat id",
			config: Config{BotToken: "token", ChatID: ""},
		},
		{
			name:   "all empty",
			config: Config{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.config)
			if c.IsEnabled() {
				t.Error("expected client to be disabled")
			}
		})
	}
}

func TestSend_DisabledClient(t *testing.T) {
	c := NewClient(Config{}) // disabled

	if err := c.Send(context.Background(), "42", "hello"); err != nil {
		t.Errorf("expected no-op send, got %v", err)
	}
}

func TestSend(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, BotToken: "token", ChatID: "42"})
	if err := c.Send(context.Background(), "7", "hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	if gotPath != "/bottoken/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["chat_id"] != "7" || gotBody["text"] != "hello" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestSend_DefaultChat(t *testing.T) {
	var gotBody map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, BotToken: "token", ChatID: "42"})
	if err := c.Send(context.Background(), "", "morning"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotBody["chat_id"] != "42" {
		t.Errorf("chat_id = %q, want the default chat", gotBody["chat_id"])
	}
}

func TestSend_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := NewClient(Config{BaseURL: server.URL, BotToken: "token", ChatID: "42"})
	if err := c.Send(context.Background(), "7", "hello"); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestChatIDString(t *testing.T) {
	m := &Message{Chat: Chat{ID: 123456789}}
	if got := m.ChatIDString(); got != "123456789" {
		t.Errorf("ChatIDString = %q", got)
	}
}
