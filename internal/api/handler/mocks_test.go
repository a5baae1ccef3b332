package handler

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
)

// MockContextService is a mock implementation of service.ContextService
type MockContextService struct {
	buildFunc   func(ctx context.Context, days int) (*domain.HealthContext, error)
	hourlyFunc  func(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error)
	summaryFunc func(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error)
}

func (m *MockContextService) Build(ctx context.Context, days int) (*domain.HealthContext, error) {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, days)
	}
	return &domain.HealthContext{
		Daily:  []domain.DailySummaryOut{},
		Hourly: []domain.HourlyMean{},
	}, nil
}

func (m *MockContextService) Hourly(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error) {
	if m.hourlyFunc != nil {
		return m.hourlyFunc(ctx, day)
	}
	return nil, nil
}

func (m *MockContextService) Summary(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, day)
	}
	return nil, domain.ErrNotFound
}

// MockCoachService is a mock implementation of service.CoachService
type MockCoachService struct {
	recommendFunc func(ctx context.Context) (*domain.CoachRecommendation, error)
}

func (m *MockCoachService) Recommend(ctx context.Context) (*domain.CoachRecommendation, error) {
	if m.recommendFunc != nil {
		return m.recommendFunc(ctx)
	}
	return &domain.CoachRecommendation{Recommendation: "- Rest day"}, nil
}

// MockConversationService is a mock implementation of service.ConversationService
type MockConversationService struct {
	incoming     []string
	incomingErr  error
	messagesFunc func(ctx context.Context, filter domain.MessageFilter) (*domain.MessageListResponse, error)
}

func (m *MockConversationService) HandleIncoming(ctx context.Context, chatID, text string) error {
	m.incoming = append(m.incoming, chatID+":"+text)
	return m.incomingErr
}

func (m *MockConversationService) Notify(ctx context.Context, text string) error {
	return nil
}

func (m *MockConversationService) Messages(ctx context.Context, filter domain.MessageFilter) (*domain.MessageListResponse, error) {
	if m.messagesFunc != nil {
		return m.messagesFunc(ctx, filter)
	}
	return &domain.MessageListResponse{Data: []domain.TelegramMessage{}}, nil
}

// MockDiaryService is a mock implementation of service.DiaryService
type MockDiaryService struct {
	createFunc func(ctx context.Context, req *domain.CreateDiaryEntryRequest) (*domain.MigraineDiary, error)
	listFunc   func(ctx context.Context, day string) ([]domain.MigraineDiary, error)
}

func (m *MockDiaryService) Create(ctx context.Context, req *domain.CreateDiaryEntryRequest) (*domain.MigraineDiary, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &domain.MigraineDiary{
		Day:         time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
		HadHeadache: req.HadHeadache != nil && *req.HadHeadache,
	}, nil
}

func (m *MockDiaryService) List(ctx context.Context, day string) ([]domain.MigraineDiary, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, day)
	}
	return nil, nil
}
