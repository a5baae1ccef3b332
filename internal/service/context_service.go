package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultLookbackDays is the default daily-summary window for the
// health context.
const DefaultLookbackDays = 14

// ContextService assembles the bounded HealthContext handed to the
// reasoning call.
type ContextService interface {
	// Build returns up to days of daily summaries (oldest to newest),
	// the latest day's hourly buckets, and a partial-day block when
	// that day is still in progress.
	Build(ctx context.Context, days int) (*domain.HealthContext, error)
	// Hourly returns the stored heart-rate buckets for one local day.
	Hourly(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error)
	// Summary returns the rolled-up daily summary for one local day.
	Summary(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error)
}

type contextService struct {
	summaryRepo repository.SummaryRepository
	hourlyRepo  repository.HourlyRepository
	loc         *time.Location
	now         func() time.Time
}

// NewContextService creates a new ContextService. now is injectable so
// the partial-day branch is deterministic in tests.
func NewContextService(
	summaryRepo repository.SummaryRepository,
	hourlyRepo repository.HourlyRepository,
	loc *time.Location,
	now func() time.Time,
) ContextService {
	if now == nil {
		now = time.Now
	}
	return &contextService{
		summaryRepo: summaryRepo,
		hourlyRepo:  hourlyRepo,
		loc:         loc,
		now:         now,
	}
}

func (s *contextService) Build(ctx context.Context, days int) (*domain.HealthContext, error) {
	tracer := otel.Tracer("health-coach-api/context")
	ctx, span := tracer.Start(ctx, "ContextService.Build",
		trace.WithAttributes(attribute.Int("context.lookback_days", days)),
	)
	defer span.End()

	if days <= 0 {
		days = DefaultLookbackDays
	}

	rows, err := s.summaryRepo.ListRecent(ctx, days)
	if err != nil {
		return nil, err
	}

	// Rows arrive newest first; the reasoning consumer expects a
	// chronological narrative, so present them oldest to newest.
	daily := make([]domain.DailySummaryOut, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		daily = append(daily, projectSummary(rows[i]))
	}

	result := &domain.HealthContext{
		Daily:  daily,
		Hourly: []domain.HourlyMean{},
	}

	// The latest hourly day is found independently of the daily window;
	// it is typically today, which the rollup table does not cover yet.
	latestDay, err := s.hourlyRepo.LatestDay(ctx)
	if err != nil {
		return nil, err
	}
	if latestDay != nil {
		buckets, err := s.hourlyRepo.ListByDay(ctx, *latestDay)
		if err != nil {
			return nil, err
		}
		for _, b := range buckets {
			mean := round1(b.HRMean)
			result.Hourly = append(result.Hourly, domain.HourlyMean{Hour: b.Hour, Mean: &mean})
		}

		if domain.SameDate(*latestDay, domain.DateOf(s.now(), s.loc)) {
			result.TodayPartial = partialDayStats(*latestDay, buckets)
		}
	}

	if outJSON, err := json.Marshal(result); err == nil {
		span.SetAttributes(attribute.String("langfuse.observation.output", string(outJSON)))
	}
	span.SetAttributes(
		attribute.Int("context.daily_rows", len(result.Daily)),
		attribute.Int("context.hourly_rows", len(result.Hourly)),
		attribute.Bool("context.partial_day", result.TodayPartial != nil),
	)

	return result, nil
}

func (s *contextService) Hourly(ctx context.Context, day time.Time) ([]domain.HeartRateHourly, error) {
	return s.hourlyRepo.ListByDay(ctx, day)
}

func (s *contextService) Summary(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error) {
	return s.summaryRepo.GetByDay(ctx, day)
}

// projectSummary maps a rollup row to the stable compact schema.
// Missing metrics stay null rather than being omitted.
func projectSummary(r domain.DailyHealthSummary) domain.DailySummaryOut {
	return domain.DailySummaryOut{
		Day:        r.Day.Format("2006-01-02"),
		SleepMin:   r.SleepMinutes,
		SleepEff:   r.SleepEfficiency,
		SleepScore: r.SleepScore,
		RestingHR:  r.RestingHR,
		HRMean:     r.HRMean,
		HRMin:      r.HRMin,
		HRMax:      r.HRMax,
		Steps:      r.Steps,
		TSS:        r.TSS,
	}
}

// partialDayStats computes interim statistics across the observed hours
// only. Its presence tells the consumer that later hours of the day are
// not yet represented.
func partialDayStats(day time.Time, buckets []domain.HeartRateHourly) *domain.PartialDay {
	out := &domain.PartialDay{
		Day:           day.Format("2006-01-02"),
		Partial:       true,
		HoursObserved: len(buckets),
	}
	if len(buckets) == 0 {
		return out
	}

	means := make([]float64, 0, len(buckets))
	sum := 0.0
	minHR, maxHR := buckets[0].HRMin, buckets[0].HRMax
	samples := 0
	for _, b := range buckets {
		means = append(means, b.HRMean)
		sum += b.HRMean
		if b.HRMin < minHR {
			minHR = b.HRMin
		}
		if b.HRMax > maxHR {
			maxHR = b.HRMax
		}
		samples += b.Samples
	}

	mean := round1(sum / float64(len(means)))
	med := median(means)
	out.HRMeanSoFar = &mean
	out.HRMedianSoFar = &med
	out.HRMinSoFar = &minHR
	out.HRMaxSoFar = &maxHR
	out.SamplesTotal = samples
	return out
}
