package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Source identifies which upstream API a cached day payload came from.
// @Description Data source: GARMIN for wearable sleep/HR, STRAVA for training activities.
type Source string

const (
	// SourceGarmin is the wearable sleep and heart-rate API.
	SourceGarmin Source = "GARMIN"
	// SourceStrava is the training-activity API.
	SourceStrava Source = "STRAVA"
)

// MetricsCache stores one normalized day payload per (source, day).
// Re-fetching a day replaces the payload in place; rows are never
// deleted by normal operation.
type MetricsCache struct {
	Source    Source         `gorm:"type:varchar(16);not null;primaryKey" json:"source"`
	Day       time.Time      `gorm:"type:date;not null;primaryKey" json:"day"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null" json:"payload"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (MetricsCache) TableName() string {
	return "metrics_cache"
}

// HeartRateHourly is one local-hour heart-rate bucket for a day.
// Buckets for a day are always regenerated together from the cached
// payload, so a day never mixes old and new buckets.
type HeartRateHourly struct {
	Day     time.Time `gorm:"type:date;not null;primaryKey" json:"day"`
	Hour    int       `gorm:"not null;primaryKey" json:"hour"`
	HRMean  float64   `gorm:"not null" json:"hr_mean"`
	HRMin   int       `gorm:"not null" json:"hr_min"`
	HRMax   int       `gorm:"not null" json:"hr_max"`
	Samples int       `gorm:"not null" json:"samples"`
}

func (HeartRateHourly) TableName() string {
	return "heart_rate_hourly"
}

// DailyHealthSummary is the per-day rollup consumed by the context
// builder. Optional metrics stay nullable so a thin day still rolls up.
type DailyHealthSummary struct {
	Day             time.Time `gorm:"type:date;not null;primaryKey" json:"day"`
	SleepMinutes    *int      `json:"sleep_minutes"`
	SleepEfficiency *float64  `json:"sleep_efficiency"`
	SleepScore      *int      `json:"sleep_score"`
	RestingHR       *int      `json:"resting_hr"`
	HRMean          *float64  `json:"hr_mean"`
	HRMin           *int      `json:"hr_min"`
	HRMax           *int      `json:"hr_max"`
	Steps           *int      `json:"steps"`
	TSS             *float64  `json:"tss"`
}

func (DailyHealthSummary) TableName() string {
	return "daily_health_summary"
}

// DateOf truncates t to its calendar date in loc, stored as midnight UTC
// so date-typed columns compare by day regardless of wall clock.
func DateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
