package service

import (
	"testing"
	"time"

	"github.com/lachdunc/health-coach/internal/garmin"
)

func melbourne(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Australia/Melbourne")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	return loc
}

// localEpoch returns the epoch seconds of a local Melbourne wall time.
func localEpoch(t *testing.T, loc *time.Location, y int, m time.Month, d, hh, mm int) float64 {
	t.Helper()
	return float64(time.Date(y, m, d, hh, mm, 0, 0, loc).Unix())
}

func TestComputeHourlyBuckets(t *testing.T) {
	loc := melbourne(t)
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	series := []garmin.Sample{
		{Timestamp: localEpoch(t, loc, 2024, 5, 12, 9, 15), BPM: float64(60)},
		{Timestamp: localEpoch(t, loc, 2024, 5, 12, 9, 50), BPM: float64(70)},
		{Timestamp: localEpoch(t, loc, 2024, 5, 12, 10, 5), BPM: float64(80)},
	}

	rows := computeHourlyBuckets(series, day, loc)
	if len(rows) != 2 {
		t.Fatalf("got %d buckets, want 2", len(rows))
	}

	nine := rows[0]
	if nine.Hour != 9 || nine.HRMean != 65.0 || nine.HRMin != 60 || nine.HRMax != 70 || nine.Samples != 2 {
		t.Errorf("hour 9 bucket = %+v", nine)
	}
	ten := rows[1]
	if ten.Hour != 10 || ten.HRMean != 80.0 || ten.HRMin != 80 || ten.HRMax != 80 || ten.Samples != 1 {
		t.Errorf("hour 10 bucket = %+v", ten)
	}
}

func TestComputeHourlyBucketsDayFiltering(t *testing.T) {
	loc := melbourne(t)
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	// 23:30 UTC on May 11 is 09:30 May 12 in Melbourne (AEST, +10);
	// 15:30 UTC on May 12 is 01:30 May 13 local. Only the first sample
	// belongs to the target local day.
	series := []garmin.Sample{
		{Timestamp: "2024-05-11T23:30:00Z", BPM: float64(61)},
		{Timestamp: "2024-05-12T15:30:00Z", BPM: float64(99)},
		{Timestamp: "2024-05-11T13:00:00Z", BPM: float64(88)}, // May 11 local
	}

	rows := computeHourlyBuckets(series, day, loc)
	if len(rows) != 1 {
		t.Fatalf("got %d buckets, want 1: %+v", len(rows), rows)
	}
	if rows[0].Hour != 9 || rows[0].HRMin != 61 {
		t.Errorf("bucket = %+v", rows[0])
	}
}

func TestComputeHourlyBucketsMalformedSamplesDropped(t *testing.T) {
	loc := melbourne(t)
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	series := []garmin.Sample{
		{Timestamp: "not-a-timestamp", BPM: float64(60)},
		{Timestamp: localEpoch(t, loc, 2024, 5, 12, 8, 0), BPM: "sixty"},
		{Timestamp: nil, BPM: float64(62)},
		{Timestamp: localEpoch(t, loc, 2024, 5, 12, 8, 30), BPM: float64(64)},
	}

	rows := computeHourlyBuckets(series, day, loc)
	if len(rows) != 1 {
		t.Fatalf("got %d buckets, want 1", len(rows))
	}
	if rows[0].Hour != 8 || rows[0].Samples != 1 || rows[0].HRMean != 64.0 {
		t.Errorf("bucket = %+v", rows[0])
	}
}

func TestComputeHourlyBucketsEmpty(t *testing.T) {
	loc := melbourne(t)
	day := time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC)

	if rows := computeHourlyBuckets(nil, day, loc); len(rows) != 0 {
		t.Errorf("nil series should yield zero buckets, got %+v", rows)
	}
}

func TestParseSampleTime(t *testing.T) {
	tests := []struct {
		name   string
		ts     any
		want   time.Time
		wantOK bool
	}{
		{
			name:   "epoch seconds",
			ts:     float64(1715475600),
			want:   time.Unix(1715475600, 0).UTC(),
			wantOK: true,
		},
		{
			name:   "epoch milliseconds",
			ts:     float64(1715475600000),
			want:   time.UnixMilli(1715475600000).UTC(),
			wantOK: true,
		},
		{
			name:   "ISO with Z",
			ts:     "2024-05-12T09:15:00Z",
			want:   time.Date(2024, 5, 12, 9, 15, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "ISO with offset",
			ts:     "2024-05-12T19:15:00+10:00",
			want:   time.Date(2024, 5, 12, 9, 15, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "naive ISO assumed UTC",
			ts:     "2024-05-12T09:15:00",
			want:   time.Date(2024, 5, 12, 9, 15, 0, 0, time.UTC),
			wantOK: true,
		},
		{
			name:   "garbage string",
			ts:     "yesterday-ish",
			wantOK: false,
		},
		{
			name:   "nil",
			ts:     nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSampleTime(tt.ts)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseSampleTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		want float64
	}{
		{"even-length averages central pair", []float64{60.0, 62.0, 64.0, 70.0}, 63.0},
		{"odd-length takes middle", []float64{60.0, 70.0, 80.0}, 70.0},
		{"unsorted input", []float64{80.0, 60.0, 70.0}, 70.0},
		{"single value", []float64{55.5}, 55.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.vals); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.vals, got, tt.want)
			}
		})
	}
}
