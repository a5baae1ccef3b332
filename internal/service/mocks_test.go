package service

import (
	"context"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
	"gorm.io/datatypes"
)

func dayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// MockMetricsCacheRepository is a mock implementation of MetricsCacheRepository
type MockMetricsCacheRepository struct {
	payloads map[string]datatypes.JSON
	err      error
}

func NewMockMetricsCacheRepository() *MockMetricsCacheRepository {
	return &MockMetricsCacheRepository{
		payloads: make(map[string]datatypes.JSON),
	}
}

func (m *MockMetricsCacheRepository) key(source domain.Source, day time.Time) string {
	return string(source) + ":" + dayKey(day)
}

func (m *MockMetricsCacheRepository) Upsert(ctx context.Context, source domain.Source, day time.Time, payload datatypes.JSON) error {
	if m.err != nil {
		return m.err
	}
	m.payloads[m.key(source, day)] = payload
	return nil
}

func (m *MockMetricsCacheRepository) GetByDay(ctx context.Context, source domain.Source, day time.Time) (*domain.MetricsCache, error) {
	if m.err != nil {
		return nil, m.err
	}
	payload, ok := m.payloads[m.key(source, day)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.MetricsCache{Source: source, Day: day, Payload: payload}, nil
}

func (m *MockMetricsCacheRepository) LatestDay(ctx context.Context, source domain.Source) (*time.Time, error) {
	if m.err != nil {
		return nil, m.err
	}
	var latest *time.Time
	for key := range m.payloads {
		if len(key) < 11 || domain.Source(key[:len(key)-11]) != source {
			continue
		}
		day, err := time.Parse("2006-01-02", key[len(key)-10:])
		if err != nil {
			continue
		}
		if latest == nil || day.After(*latest) {
			d := day
			latest = &d
		}
	}
	return latest, nil
}

// MockHourlyRepository is a mock implementation of HourlyRepository
type MockHourlyRepository struct {
	days       map[string][]domain.HeartRateHourly
	replaceErr error
	listErr    error
	replaceCnt int
}

func NewMockHourlyRepository() *MockHourlyRepository {
	return &MockHourlyRepository{
		days: make(map[string][]domain.HeartRateHourly),
	}
}

func (m *MockHourlyRepository) ReplaceDay(ctx context.Context, day time.Time, rows []domain.HeartRateHourly) error {
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.replaceCnt++
	m.days[dayKey(day)] = append([]domain.HeartRateHourly(nil), rows...)
	return nil
}

func (m *MockHourlyRepository) ListByDay(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]domain.HeartRateHourly(nil), m.days[dayKey(day)]...), nil
}

func (m *MockHourlyRepository) LatestDay(ctx context.Context) (*time.Time, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var latest *time.Time
	for key, rows := range m.days {
		if len(rows) == 0 {
			continue
		}
		day, err := time.Parse("2006-01-02", key)
		if err != nil {
			continue
		}
		if latest == nil || day.After(*latest) {
			d := day
			latest = &d
		}
	}
	return latest, nil
}

// MockSummaryRepository is a mock implementation of SummaryRepository
type MockSummaryRepository struct {
	rows map[string]domain.DailyHealthSummary
	err  error
}

func NewMockSummaryRepository() *MockSummaryRepository {
	return &MockSummaryRepository{
		rows: make(map[string]domain.DailyHealthSummary),
	}
}

func (m *MockSummaryRepository) ListRecent(ctx context.Context, limit int) ([]domain.DailyHealthSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.DailyHealthSummary
	for _, row := range m.rows {
		result = append(result, row)
	}
	// Newest first, like the real query
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[j].Day.After(result[i].Day) {
				result[i], result[j] = result[j], result[i]
			}
		}
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockSummaryRepository) Upsert(ctx context.Context, row *domain.DailyHealthSummary) error {
	if m.err != nil {
		return m.err
	}
	m.rows[dayKey(row.Day)] = *row
	return nil
}

func (m *MockSummaryRepository) GetByDay(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	row, ok := m.rows[dayKey(day)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &row, nil
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	messages []domain.TelegramMessage
	err      error
}

func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{}
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *domain.TelegramMessage) error {
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *MockMessageRepository) List(ctx context.Context, filter domain.MessageFilter) ([]domain.TelegramMessage, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.TelegramMessage(nil), m.messages...), nil
}

// MockDiaryRepository is a mock implementation of DiaryRepository
type MockDiaryRepository struct {
	entries  []domain.MigraineDiary
	feedback []domain.WorkoutFeedback
	err      error
}

func NewMockDiaryRepository() *MockDiaryRepository {
	return &MockDiaryRepository{}
}

func (m *MockDiaryRepository) CreateEntry(ctx context.Context, entry *domain.MigraineDiary) error {
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockDiaryRepository) ListByDay(ctx context.Context, day time.Time) ([]domain.MigraineDiary, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []domain.MigraineDiary
	for _, e := range m.entries {
		if domain.SameDate(e.Day, day) {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *MockDiaryRepository) CreateFeedback(ctx context.Context, fb *domain.WorkoutFeedback) error {
	if m.err != nil {
		return m.err
	}
	m.feedback = append(m.feedback, *fb)
	return nil
}

// MockGarminClient is a mock implementation of garmin.Client
type MockGarminClient struct {
	loginErr  error
	sleep     map[string]any
	heartRate map[string]any
	sleepErr  error
	hrErr     error
}

func NewMockGarminClient() *MockGarminClient {
	return &MockGarminClient{
		sleep:     make(map[string]any),
		heartRate: make(map[string]any),
	}
}

func (m *MockGarminClient) Login(ctx context.Context) error {
	return m.loginErr
}

func (m *MockGarminClient) FetchSleep(ctx context.Context, day string) (any, error) {
	if m.sleepErr != nil {
		return nil, m.sleepErr
	}
	return m.sleep[day], nil
}

func (m *MockGarminClient) FetchHeartRate(ctx context.Context, day string) (any, error) {
	if m.hrErr != nil {
		return nil, m.hrErr
	}
	return m.heartRate[day], nil
}

// MockTelegramClient is a mock implementation of telegram.Client
type MockTelegramClient struct {
	sent    []string
	chatIDs []string
	err     error
}

func NewMockTelegramClient() *MockTelegramClient {
	return &MockTelegramClient{}
}

func (m *MockTelegramClient) IsEnabled() bool { return true }

func (m *MockTelegramClient) Send(ctx context.Context, chatID, text string) error {
	if m.err != nil {
		return m.err
	}
	m.chatIDs = append(m.chatIDs, chatID)
	m.sent = append(m.sent, text)
	return nil
}

func (m *MockTelegramClient) DefaultChatID() string { return "42" }

// MockCoachLLM is a mock implementation of llm.CoachLLM
type MockCoachLLM struct {
	response string
	err      error
	lastCtx  *domain.HealthContext
}

func (m *MockCoachLLM) Recommend(ctx context.Context, healthCtx *domain.HealthContext) (string, error) {
	m.lastCtx = healthCtx
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// MockFollowUpScheduler records requested follow-ups without firing them
type MockFollowUpScheduler struct {
	delays []time.Duration
	fns    []func()
}

func (m *MockFollowUpScheduler) FollowUpIn(d time.Duration, fn func()) {
	m.delays = append(m.delays, d)
	m.fns = append(m.fns, fn)
}

var _ garmin.Client = (*MockGarminClient)(nil)
