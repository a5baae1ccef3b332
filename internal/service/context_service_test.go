package service

import (
	"context"
	"testing"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
)

func summaryForDay(day time.Time, sleepMin int) domain.DailyHealthSummary {
	hrMean := 62.0
	return domain.DailyHealthSummary{
		Day:          day,
		SleepMinutes: &sleepMin,
		HRMean:       &hrMean,
	}
}

func TestContextService_Build_Ordering(t *testing.T) {
	loc := melbourne(t)
	now := time.Date(2024, 5, 13, 12, 0, 0, 0, loc)
	today := domain.DateOf(now, loc)

	summaryRepo := NewMockSummaryRepository()
	hourlyRepo := NewMockHourlyRepository()
	for i := 1; i <= 5; i++ {
		day := today.AddDate(0, 0, -i)
		row := summaryForDay(day, 400+i)
		_ = summaryRepo.Upsert(context.Background(), &row)
	}

	svc := NewContextService(summaryRepo, hourlyRepo, loc, func() time.Time { return now })
	result, err := svc.Build(context.Background(), 3)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Daily) != 3 {
		t.Fatalf("got %d daily rows, want 3", len(result.Daily))
	}
	// The three most recent completed days, oldest to newest.
	want := []string{"2024-05-10", "2024-05-11", "2024-05-12"}
	for i, w := range want {
		if result.Daily[i].Day != w {
			t.Errorf("daily[%d].Day = %q, want %q", i, result.Daily[i].Day, w)
		}
	}

	if result.TodayPartial != nil {
		t.Error("expected no partial block without hourly data")
	}
	if result.Hourly == nil || len(result.Hourly) != 0 {
		t.Errorf("expected empty hourly slice, got %v", result.Hourly)
	}
}

func TestContextService_Summary(t *testing.T) {
	loc := melbourne(t)
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	summaryRepo := NewMockSummaryRepository()
	row := summaryForDay(day, 420)
	_ = summaryRepo.Upsert(context.Background(), &row)

	svc := NewContextService(summaryRepo, NewMockHourlyRepository(), loc, nil)
	got, err := svc.Summary(context.Background(), day)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.SleepMinutes == nil || *got.SleepMinutes != 420 {
		t.Errorf("unexpected summary: %+v", got)
	}

	if _, err := svc.Summary(context.Background(), day.AddDate(0, 0, 1)); err != domain.ErrNotFound {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestContextService_Build_PartialToday(t *testing.T) {
	loc := melbourne(t)
	now := time.Date(2024, 5, 13, 15, 0, 0, 0, loc)
	today := domain.DateOf(now, loc)

	summaryRepo := NewMockSummaryRepository()
	hourlyRepo := NewMockHourlyRepository()

	buckets := []domain.HeartRateHourly{
		{Day: today, Hour: 8, HRMean: 60.0, HRMin: 52, HRMax: 75, Samples: 120},
		{Day: today, Hour: 9, HRMean: 64.0, HRMin: 55, HRMax: 90, Samples: 110},
		{Day: today, Hour: 10, HRMean: 70.0, HRMin: 58, HRMax: 110, Samples: 130},
	}
	_ = hourlyRepo.ReplaceDay(context.Background(), today, buckets)

	svc := NewContextService(summaryRepo, hourlyRepo, loc, func() time.Time { return now })
	result, err := svc.Build(context.Background(), 14)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Hourly) != 3 {
		t.Fatalf("got %d hourly rows, want 3", len(result.Hourly))
	}
	if result.Hourly[0].Hour != 8 || result.Hourly[0].Mean == nil || *result.Hourly[0].Mean != 60.0 {
		t.Errorf("unexpected first hourly row: %+v", result.Hourly[0])
	}

	partial := result.TodayPartial
	if partial == nil {
		t.Fatal("expected a partial block for today")
	}
	if !partial.Partial {
		t.Error("partial flag not set")
	}
	if partial.Day != "2024-05-13" {
		t.Errorf("partial.Day = %q", partial.Day)
	}
	if partial.HoursObserved != 3 {
		t.Errorf("HoursObserved = %d, want 3", partial.HoursObserved)
	}
	if partial.SamplesTotal != 360 {
		t.Errorf("SamplesTotal = %d, want 360", partial.SamplesTotal)
	}
	// Mean of hourly means: (60+64+70)/3 = 64.7 after rounding
	if partial.HRMeanSoFar == nil || *partial.HRMeanSoFar != 64.7 {
		t.Errorf("HRMeanSoFar = %v, want 64.7", partial.HRMeanSoFar)
	}
	// Median of [60, 64, 70]
	if partial.HRMedianSoFar == nil || *partial.HRMedianSoFar != 64.0 {
		t.Errorf("HRMedianSoFar = %v, want 64.0", partial.HRMedianSoFar)
	}
	if partial.HRMinSoFar == nil || *partial.HRMinSoFar != 52 {
		t.Errorf("HRMinSoFar = %v, want 52", partial.HRMinSoFar)
	}
	if partial.HRMaxSoFar == nil || *partial.HRMaxSoFar != 110 {
		t.Errorf("HRMaxSoFar = %v, want 110", partial.HRMaxSoFar)
	}
}

func TestContextService_Build_CompleteLatestDay(t *testing.T) {
	loc := melbourne(t)
	now := time.Date(2024, 5, 13, 9, 0, 0, 0, loc)
	yesterday := domain.DateOf(now, loc).AddDate(0, 0, -1)

	summaryRepo := NewMockSummaryRepository()
	hourlyRepo := NewMockHourlyRepository()
	_ = hourlyRepo.ReplaceDay(context.Background(), yesterday, []domain.HeartRateHourly{
		{Day: yesterday, Hour: 23, HRMean: 55.0, HRMin: 50, HRMax: 60, Samples: 100},
	})

	svc := NewContextService(summaryRepo, hourlyRepo, loc, func() time.Time { return now })
	result, err := svc.Build(context.Background(), 14)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(result.Hourly) != 1 {
		t.Fatalf("got %d hourly rows, want 1", len(result.Hourly))
	}
	// Latest hourly day is yesterday, so the day is complete.
	if result.TodayPartial != nil {
		t.Errorf("expected no partial block, got %+v", result.TodayPartial)
	}
}
