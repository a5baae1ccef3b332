package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/repository"
	"github.com/lachdunc/health-coach/internal/telegram"
	"github.com/lachdunc/health-coach/pkg/pagination"
)

// FollowUpScheduler schedules a one-shot job, used for the post-workout
// RPE check-in.
type FollowUpScheduler interface {
	FollowUpIn(d time.Duration, fn func())
}

const rpeFollowUpDelay = 2 * time.Hour

// ConversationService routes inbound chat messages: it logs traffic,
// records diary and workout-feedback rows, and replies through the
// chat client. Reply wording lives here, not in the handler.
type ConversationService interface {
	HandleIncoming(ctx context.Context, chatID, text string) error
	// Notify sends and logs an outbound message to the default chat.
	Notify(ctx context.Context, text string) error
	// Messages pages through the logged chat history, newest first.
	Messages(ctx context.Context, filter domain.MessageFilter) (*domain.MessageListResponse, error)
}

type conversationService struct {
	tg          telegram.Client
	messageRepo repository.MessageRepository
	diaryRepo   repository.DiaryRepository
	followUps   FollowUpScheduler
	loc         *time.Location
	now         func() time.Time
}

// NewConversationService creates a new ConversationService.
func NewConversationService(
	tg telegram.Client,
	messageRepo repository.MessageRepository,
	diaryRepo repository.DiaryRepository,
	followUps FollowUpScheduler,
	loc *time.Location,
	now func() time.Time,
) ConversationService {
	if now == nil {
		now = time.Now
	}
	return &conversationService{
		tg:          tg,
		messageRepo: messageRepo,
		diaryRepo:   diaryRepo,
		followUps:   followUps,
		loc:         loc,
		now:         now,
	}
}

func (s *conversationService) HandleIncoming(ctx context.Context, chatID, text string) error {
	text = strings.TrimSpace(text)
	if err := s.logMessage(ctx, domain.DirectionIn, chatID, text); err != nil {
		return err
	}

	reply, err := s.route(ctx, chatID, text)
	if err != nil {
		return err
	}
	return s.send(ctx, chatID, reply)
}

func (s *conversationService) Notify(ctx context.Context, text string) error {
	return s.send(ctx, s.tg.DefaultChatID(), text)
}

func (s *conversationService) Messages(ctx context.Context, filter domain.MessageFilter) (*domain.MessageListResponse, error) {
	msgs, err := s.messageRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	limit := pagination.NormalizeLimit(filter.Limit)
	hasMore := len(msgs) > limit
	if hasMore {
		msgs = msgs[:limit]
	}

	response := &domain.MessageListResponse{
		Data:       msgs,
		Pagination: domain.PaginationResponse{HasMore: hasMore},
	}
	if hasMore && len(msgs) > 0 {
		last := msgs[len(msgs)-1]
		cursor := &pagination.Cursor{ID: last.ID, Ts: last.Ts}
		response.Pagination.NextCursor = cursor.Encode()
	}
	return response, nil
}

func (s *conversationService) route(ctx context.Context, chatID, text string) (string, error) {
	low := strings.ToLower(text)
	today := domain.DateOf(s.now(), s.loc)

	switch {
	case low == "ok" || low == "okay" || low == "ready":
		s.scheduleRPEFollowUp(chatID)
		return "Noted. I'll pull sleep and training data before recommending Zwift or rest.", nil

	case strings.Contains(low, "migraine"):
		return "Sorry you're migraine-y today. Defaulting to rest and recovery prompts.", nil

	case strings.Contains(low, "poor sleep") || strings.Contains(low, "bad sleep"):
		s.scheduleRPEFollowUp(chatID)
		return "Thanks. I'll be cautious with intensity today.", nil

	case low == "yes" || low == "y":
		entry := &domain.MigraineDiary{Day: today, HadHeadache: true}
		if err := s.diaryRepo.CreateEntry(ctx, entry); err != nil {
			return "", err
		}
		return "Thanks, logging 'headache today'. I'll ask for details soon.", nil

	case low == "no" || low == "n":
		entry := &domain.MigraineDiary{Day: today, HadHeadache: false}
		if err := s.diaryRepo.CreateEntry(ctx, entry); err != nil {
			return "", err
		}
		return "Great, no headache logged today.", nil

	case strings.HasPrefix(low, "rpe"):
		fb := &domain.WorkoutFeedback{Day: today}
		if rpe, ok := parseRPE(low); ok {
			fb.RPE = &rpe
		}
		if err := s.diaryRepo.CreateFeedback(ctx, fb); err != nil {
			return "", err
		}
		return "RPE noted. It goes into tomorrow's plan.", nil
	}

	return "For mornings use: ok / migraine / poor sleep. For evenings: yes / no. You can also send 'RPE 6'.", nil
}

func (s *conversationService) scheduleRPEFollowUp(chatID string) {
	if s.followUps == nil {
		return
	}
	s.followUps.FollowUpIn(rpeFollowUpDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.send(ctx, chatID, "How did the workout feel? (RPE 1-10)"); err != nil {
			log.Printf("[conversation] follow-up send failed: %v", err)
		}
	})
	when := s.now().In(s.loc).Add(rpeFollowUpDelay)
	log.Printf("[conversation] RPE follow-up scheduled for %s", when.Format("15:04"))
}

func (s *conversationService) send(ctx context.Context, chatID, text string) error {
	if err := s.tg.Send(ctx, chatID, text); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return s.logMessage(ctx, domain.DirectionOut, chatID, text)
}

func (s *conversationService) logMessage(ctx context.Context, dir domain.Direction, chatID, text string) error {
	return s.messageRepo.Create(ctx, &domain.TelegramMessage{
		Ts:        s.now().UTC(),
		Direction: dir,
		ChatID:    chatID,
		Text:      text,
	})
}

// parseRPE pulls the numeric rating out of messages like "rpe 6".
func parseRPE(low string) (int, bool) {
	fields := strings.Fields(low)
	if len(fields) < 2 {
		return 0, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 || n > 10 {
		return 0, false
	}
	return n, true
}
