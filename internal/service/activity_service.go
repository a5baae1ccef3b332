package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/repository"
	"github.com/lachdunc/health-coach/internal/strava"
)

const (
	providerStrava = "strava"

	// DefaultActivityLookbackDays bounds the first Strava sync.
	DefaultActivityLookbackDays = 60

	// Access tokens within this slack of expiry are refreshed eagerly.
	tokenExpirySlack = 60 * time.Second
)

// ActivityService owns the Strava OAuth token lifecycle and syncs
// training activities into the metrics cache, one payload per local
// day.
type ActivityService interface {
	// AuthStartURL returns the OAuth authorize URL.
	AuthStartURL() (string, error)
	// ExchangeAndStore completes the OAuth callback.
	ExchangeAndStore(ctx context.Context, code string) error
	// SyncActivities pulls activities since days ago and caches them
	// grouped by local start date. Returns the number of activities.
	SyncActivities(ctx context.Context, days int) (int, error)
}

type activityService struct {
	client      *strava.Client
	tokenRepo   repository.TokenRepository
	metricsRepo repository.MetricsCacheRepository
	now         func() time.Time
}

// NewActivityService creates a new ActivityService.
func NewActivityService(
	client *strava.Client,
	tokenRepo repository.TokenRepository,
	metricsRepo repository.MetricsCacheRepository,
	now func() time.Time,
) ActivityService {
	if now == nil {
		now = time.Now
	}
	return &activityService{
		client:      client,
		tokenRepo:   tokenRepo,
		metricsRepo: metricsRepo,
		now:         now,
	}
}

func (s *activityService) AuthStartURL() (string, error) {
	if !s.client.IsConfigured() {
		return "", domain.ErrNotConfigured
	}
	return s.client.AuthStartURL(), nil
}

func (s *activityService) ExchangeAndStore(ctx context.Context, code string) error {
	if !s.client.IsConfigured() {
		return domain.ErrNotConfigured
	}

	token, err := s.client.ExchangeCode(ctx, code)
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}

	return s.tokenRepo.Save(ctx, &domain.OAuthToken{
		Provider:     providerStrava,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.ExpiresAt,
	})
}

// accessToken returns a valid access token, refreshing when the stored
// one is expired or close to it.
func (s *activityService) accessToken(ctx context.Context) (string, error) {
	row, err := s.tokenRepo.GetByProvider(ctx, providerStrava)
	if err != nil {
		return "", err
	}

	if row.ExpiresAt > s.now().Add(tokenExpirySlack).Unix() {
		return row.AccessToken, nil
	}

	fresh, err := s.client.Refresh(ctx, row.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}

	row.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		row.RefreshToken = fresh.RefreshToken
	}
	row.ExpiresAt = fresh.ExpiresAt
	if err := s.tokenRepo.Save(ctx, row); err != nil {
		return "", err
	}
	return row.AccessToken, nil
}

func (s *activityService) SyncActivities(ctx context.Context, days int) (int, error) {
	if !s.client.IsConfigured() {
		return 0, domain.ErrNotConfigured
	}
	if days <= 0 {
		days = DefaultActivityLookbackDays
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return 0, err
	}

	after := s.now().AddDate(0, 0, -days).Unix()
	byDay := make(map[time.Time][]json.RawMessage)
	total := 0

	for page := 1; ; page++ {
		activities, err := s.client.FetchActivities(ctx, token, after, page)
		if err != nil {
			return total, err
		}
		if len(activities) == 0 {
			break
		}
		pageByDay, n := groupActivitiesByDay(activities)
		for day, list := range pageByDay {
			byDay[day] = append(byDay[day], list...)
		}
		total += n
	}

	// One cached payload per local day; re-syncing a day replaces its
	// activity list rather than stacking duplicate rows.
	for day, list := range byDay {
		payload, err := json.Marshal(map[string]any{"activities": list})
		if err != nil {
			return total, err
		}
		if err := s.metricsRepo.Upsert(ctx, domain.SourceStrava, day, payload); err != nil {
			return total, fmt.Errorf("cache activities for %s: %w", day.Format("2006-01-02"), err)
		}
	}

	log.Printf("[strava] synced %d activities across %d days", total, len(byDay))
	return total, nil
}

// activityDay keys an activity by the calendar date written into its
// start time. start_date_local is wall-clock time with a literal Z
// suffix, so the date components are taken as-is; converting the parsed
// instant between zones would shift evening activities onto the next
// day.
func activityDay(start time.Time) time.Time {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
}

// groupActivitiesByDay buckets raw activities by start date. Activities
// without a usable start are skipped.
func groupActivitiesByDay(activities []strava.Activity) (map[time.Time][]json.RawMessage, int) {
	byDay := make(map[time.Time][]json.RawMessage)
	total := 0
	for _, a := range activities {
		start, err := a.StartTime()
		if err != nil {
			log.Printf("[strava] skipping activity without usable start: %v", err)
			continue
		}
		day := activityDay(start)
		byDay[day] = append(byDay[day], a.Raw)
		total++
	}
	return byDay, total
}
