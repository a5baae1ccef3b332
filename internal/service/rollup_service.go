package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
	"github.com/lachdunc/health-coach/internal/repository"
)

// RollupService finalizes one completed day into the daily rollup
// table. Resting HR comes from the device payload while the HR range
// comes from the derived hourly buckets; the two are allowed to
// disagree and are not reconciled.
type RollupService interface {
	RollupDay(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error)
}

type rollupService struct {
	metricsRepo repository.MetricsCacheRepository
	hourlyRepo  repository.HourlyRepository
	summaryRepo repository.SummaryRepository
}

func NewRollupService(
	metricsRepo repository.MetricsCacheRepository,
	hourlyRepo repository.HourlyRepository,
	summaryRepo repository.SummaryRepository,
) RollupService {
	return &rollupService{
		metricsRepo: metricsRepo,
		hourlyRepo:  hourlyRepo,
		summaryRepo: summaryRepo,
	}
}

func (s *rollupService) RollupDay(ctx context.Context, day time.Time) (*domain.DailyHealthSummary, error) {
	day = domain.DateOf(day, time.UTC)
	row := &domain.DailyHealthSummary{Day: day}

	cached, err := s.metricsRepo.GetByDay(ctx, domain.SourceGarmin, day)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if cached != nil {
		var payload garmin.DailyPayload
		if err := json.Unmarshal(cached.Payload, &payload); err != nil {
			// A payload we cannot re-read still rolls up to an empty
			// row; the cached raw stays available for replay.
			log.Printf("[rollup] unreadable payload for %s: %v", day.Format("2006-01-02"), err)
		} else {
			applySleep(row, payload.Sleep)
			applyResting(row, payload.HeartRate)
		}
	}

	buckets, err := s.hourlyRepo.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	applyHourly(row, buckets)

	if err := s.summaryRepo.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert daily summary: %w", err)
	}
	return row, nil
}

func applySleep(row *domain.DailyHealthSummary, sleep *garmin.SleepSummary) {
	if sleep == nil {
		return
	}
	row.SleepMinutes = sleep.TotalMinutesAsleep
	row.SleepEfficiency = sleep.Efficiency
	row.SleepScore = probeSleepScore(sleep.Raw)
}

func applyResting(row *domain.DailyHealthSummary, hr *garmin.HeartRateSummary) {
	if hr == nil {
		return
	}
	row.RestingHR = hr.RestingHR
}

// applyHourly derives the day's HR statistics from its hourly buckets:
// a sample-weighted mean, and the extremes across all hours.
func applyHourly(row *domain.DailyHealthSummary, buckets []domain.HeartRateHourly) {
	if len(buckets) == 0 {
		return
	}

	weighted := 0.0
	samples := 0
	minHR, maxHR := buckets[0].HRMin, buckets[0].HRMax
	for _, b := range buckets {
		weighted += b.HRMean * float64(b.Samples)
		samples += b.Samples
		if b.HRMin < minHR {
			minHR = b.HRMin
		}
		if b.HRMax > maxHR {
			maxHR = b.HRMax
		}
	}

	mean := round1(weighted / float64(samples))
	row.HRMean = &mean
	row.HRMin = &minHR
	row.HRMax = &maxHR
}

// probeSleepScore digs the device sleep score out of the retained raw
// response when present (sleepScores.overall.value in recent shapes).
func probeSleepScore(raw any) *int {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	scores, ok := m["sleepScores"].(map[string]any)
	if !ok {
		return nil
	}
	overall, ok := scores["overall"].(map[string]any)
	if !ok {
		return nil
	}
	value, ok := overall["value"].(float64)
	if !ok {
		return nil
	}
	n := int(value)
	return &n
}
