package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
)

func newConversationFixture(t *testing.T) (*MockTelegramClient, *MockMessageRepository, *MockDiaryRepository, *MockFollowUpScheduler, ConversationService) {
	t.Helper()
	loc := melbourne(t)
	now := time.Date(2024, 5, 13, 8, 0, 0, 0, loc)

	tg := NewMockTelegramClient()
	messageRepo := NewMockMessageRepository()
	diaryRepo := NewMockDiaryRepository()
	followUps := &MockFollowUpScheduler{}

	svc := NewConversationService(tg, messageRepo, diaryRepo, followUps, loc, func() time.Time { return now })
	return tg, messageRepo, diaryRepo, followUps, svc
}

func TestConversationService_Intents(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		wantReplyPart string
		wantFollowUp  bool
		wantDiary     int
		wantFeedback  int
	}{
		{name: "morning ok", text: "ok", wantReplyPart: "sleep and training data", wantFollowUp: true},
		{name: "morning okay", text: "Okay", wantReplyPart: "sleep and training data", wantFollowUp: true},
		{name: "migraine", text: "migraine again today", wantReplyPart: "rest and recovery"},
		{name: "poor sleep", text: "poor sleep last night", wantReplyPart: "cautious with intensity", wantFollowUp: true},
		{name: "diary yes", text: "yes", wantReplyPart: "headache today", wantDiary: 1},
		{name: "diary no", text: "No", wantReplyPart: "no headache", wantDiary: 1},
		{name: "rpe with value", text: "RPE 6", wantReplyPart: "RPE noted", wantFeedback: 1},
		{name: "rpe without value", text: "rpe", wantReplyPart: "RPE noted", wantFeedback: 1},
		{name: "unknown", text: "what should I do", wantReplyPart: "For mornings use"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg, messageRepo, diaryRepo, followUps, svc := newConversationFixture(t)

			if err := svc.HandleIncoming(context.Background(), "7", tt.text); err != nil {
				t.Fatalf("HandleIncoming: %v", err)
			}

			if len(tg.sent) != 1 {
				t.Fatalf("sent %d replies, want 1", len(tg.sent))
			}
			if !strings.Contains(tg.sent[0], tt.wantReplyPart) {
				t.Errorf("reply %q does not contain %q", tg.sent[0], tt.wantReplyPart)
			}
			if tg.chatIDs[0] != "7" {
				t.Errorf("reply went to chat %q, want 7", tg.chatIDs[0])
			}

			// Inbound and outbound are both logged.
			if len(messageRepo.messages) != 2 {
				t.Fatalf("logged %d messages, want 2", len(messageRepo.messages))
			}
			if messageRepo.messages[0].Direction != domain.DirectionIn || messageRepo.messages[1].Direction != domain.DirectionOut {
				t.Errorf("unexpected message directions: %+v", messageRepo.messages)
			}

			gotFollowUps := len(followUps.delays)
			if tt.wantFollowUp && gotFollowUps != 1 {
				t.Errorf("scheduled %d follow-ups, want 1", gotFollowUps)
			}
			if !tt.wantFollowUp && gotFollowUps != 0 {
				t.Errorf("scheduled %d follow-ups, want 0", gotFollowUps)
			}
			if tt.wantFollowUp && gotFollowUps == 1 && followUps.delays[0] != 2*time.Hour {
				t.Errorf("follow-up delay = %v, want 2h", followUps.delays[0])
			}

			if len(diaryRepo.entries) != tt.wantDiary {
				t.Errorf("recorded %d diary entries, want %d", len(diaryRepo.entries), tt.wantDiary)
			}
			if len(diaryRepo.feedback) != tt.wantFeedback {
				t.Errorf("recorded %d feedback rows, want %d", len(diaryRepo.feedback), tt.wantFeedback)
			}
		})
	}
}

func TestConversationService_DiaryAnswerRecordsDay(t *testing.T) {
	_, _, diaryRepo, _, svc := newConversationFixture(t)

	if err := svc.HandleIncoming(context.Background(), "7", "yes"); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}

	entry := diaryRepo.entries[0]
	if !entry.HadHeadache {
		t.Error("HadHeadache not set")
	}
	if entry.Day.Format("2006-01-02") != "2024-05-13" {
		t.Errorf("entry.Day = %s, want 2024-05-13", entry.Day.Format("2006-01-02"))
	}
}

func TestConversationService_RPEValueParsed(t *testing.T) {
	_, _, diaryRepo, _, svc := newConversationFixture(t)

	if err := svc.HandleIncoming(context.Background(), "7", "rpe 8"); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}

	fb := diaryRepo.feedback[0]
	if fb.RPE == nil || *fb.RPE != 8 {
		t.Errorf("RPE = %v, want 8", fb.RPE)
	}

	// Out-of-range values are stored as null, not rejected.
	if err := svc.HandleIncoming(context.Background(), "7", "rpe 15"); err != nil {
		t.Fatalf("HandleIncoming: %v", err)
	}
	if diaryRepo.feedback[1].RPE != nil {
		t.Errorf("RPE = %v, want nil for out-of-range", diaryRepo.feedback[1].RPE)
	}
}

func TestConversationService_Notify(t *testing.T) {
	tg, messageRepo, _, _, svc := newConversationFixture(t)

	if err := svc.Notify(context.Background(), "Morning check-in"); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(tg.sent) != 1 || tg.chatIDs[0] != "42" {
		t.Fatalf("notify not sent to default chat: %v %v", tg.sent, tg.chatIDs)
	}
	if len(messageRepo.messages) != 1 || messageRepo.messages[0].Direction != domain.DirectionOut {
		t.Errorf("notify not logged as outbound: %+v", messageRepo.messages)
	}
}

func TestConversationService_MessagesPagination(t *testing.T) {
	_, messageRepo, _, _, svc := newConversationFixture(t)

	for i := 0; i < 25; i++ {
		_ = messageRepo.Create(context.Background(), &domain.TelegramMessage{
			Direction: domain.DirectionOut,
			ChatID:    "42",
			Text:      "x",
		})
	}

	resp, err := svc.Messages(context.Background(), domain.MessageFilter{Limit: 20})
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(resp.Data) != 20 {
		t.Errorf("got %d messages, want 20", len(resp.Data))
	}
	if !resp.Pagination.HasMore {
		t.Error("HasMore not set")
	}
	if resp.Pagination.NextCursor == "" {
		t.Error("NextCursor empty")
	}
}
