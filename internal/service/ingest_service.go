package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
	"github.com/lachdunc/health-coach/internal/repository"
)

// maxCatchUpDays bounds how far back a catch-up sync reaches after the
// process was down.
const maxCatchUpDays = 7

// IngestService pulls one day of wearable data, normalizes it, caches
// the payload, and regenerates the day's hourly heart-rate buckets.
type IngestService interface {
	// IngestDay syncs the given day. Login and store failures
	// propagate; a missing or malformed upstream payload does not.
	IngestDay(ctx context.Context, day time.Time) (*garmin.DailyPayload, error)
	// IngestMissing syncs every day after the latest cached one through
	// yesterday, capped at maxCatchUpDays. Yesterday is always
	// re-synced; wearable data for it keeps trickling in. Returns the
	// synced payloads oldest first.
	IngestMissing(ctx context.Context) ([]*garmin.DailyPayload, error)
	IngestYesterday(ctx context.Context) (*garmin.DailyPayload, error)
	IngestToday(ctx context.Context) (*garmin.DailyPayload, error)
}

type ingestService struct {
	client      garmin.Client
	metricsRepo repository.MetricsCacheRepository
	hourlyRepo  repository.HourlyRepository
	loc         *time.Location
	now         func() time.Time
}

// NewIngestService creates a new IngestService. now is injectable for
// deterministic tests.
func NewIngestService(
	client garmin.Client,
	metricsRepo repository.MetricsCacheRepository,
	hourlyRepo repository.HourlyRepository,
	loc *time.Location,
	now func() time.Time,
) IngestService {
	if now == nil {
		now = time.Now
	}
	return &ingestService{
		client:      client,
		metricsRepo: metricsRepo,
		hourlyRepo:  hourlyRepo,
		loc:         loc,
		now:         now,
	}
}

func (s *ingestService) IngestDay(ctx context.Context, day time.Time) (*garmin.DailyPayload, error) {
	if s.client == nil {
		return nil, domain.ErrNotConfigured
	}

	if err := s.client.Login(ctx); err != nil {
		return nil, err
	}

	day = domain.DateOf(day, time.UTC)
	dateStr := day.Format("2006-01-02")

	// Individual fetch failures degrade to "no data for this day"; the
	// normalizer turns nil into an explicit null sub-document.
	sleepRaw, err := s.client.FetchSleep(ctx, dateStr)
	if err != nil {
		log.Printf("[ingest] sleep fetch failed for %s: %v", dateStr, err)
		sleepRaw = nil
	}
	hrRaw, err := s.client.FetchHeartRate(ctx, dateStr)
	if err != nil {
		log.Printf("[ingest] heart rate fetch failed for %s: %v", dateStr, err)
		hrRaw = nil
	}

	payload := &garmin.DailyPayload{
		Date:      dateStr,
		Sleep:     garmin.NormalizeSleep(sleepRaw),
		HeartRate: garmin.NormalizeHeartRate(hrRaw),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal day payload: %w", err)
	}
	if err := s.metricsRepo.Upsert(ctx, domain.SourceGarmin, day, data); err != nil {
		return nil, fmt.Errorf("cache day payload: %w", err)
	}

	// A crash between the payload write above and this bucket write
	// leaves the buckets stale for the day; the next sync regenerates
	// both, so no repair pass is needed.
	var series []garmin.Sample
	if payload.HeartRate != nil {
		series = payload.HeartRate.Series
	}
	rows := computeHourlyBuckets(series, day, s.loc)
	if err := s.hourlyRepo.ReplaceDay(ctx, day, rows); err != nil {
		return nil, fmt.Errorf("replace hourly buckets: %w", err)
	}

	log.Printf("[ingest] synced %s: %d hourly buckets", dateStr, len(rows))
	return payload, nil
}

func (s *ingestService) IngestMissing(ctx context.Context) ([]*garmin.DailyPayload, error) {
	yesterday := domain.DateOf(s.now().In(s.loc).AddDate(0, 0, -1), s.loc)

	from := yesterday
	latest, err := s.metricsRepo.LatestDay(ctx, domain.SourceGarmin)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.AddDate(0, 0, 1).Before(yesterday) {
		from = latest.AddDate(0, 0, 1)
	}
	if floor := yesterday.AddDate(0, 0, -(maxCatchUpDays - 1)); from.Before(floor) {
		from = floor
	}

	var payloads []*garmin.DailyPayload
	for day := from; !day.After(yesterday); day = day.AddDate(0, 0, 1) {
		payload, err := s.IngestDay(ctx, day)
		if err != nil {
			return payloads, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}

func (s *ingestService) IngestYesterday(ctx context.Context) (*garmin.DailyPayload, error) {
	return s.IngestDay(ctx, domain.DateOf(s.now().In(s.loc).AddDate(0, 0, -1), s.loc))
}

func (s *ingestService) IngestToday(ctx context.Context) (*garmin.DailyPayload, error) {
	return s.IngestDay(ctx, domain.DateOf(s.now(), s.loc))
}
