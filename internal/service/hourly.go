package service

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/lachdunc/health-coach/internal/domain"
	"github.com/lachdunc/health-coach/internal/garmin"
)

// Timestamps above this are epoch milliseconds, below it epoch seconds.
const epochMillisThreshold = 1_000_000_000_000

// Candidate layouts for ISO-8601 strings without an offset; these are
// parsed as UTC, matching how the upstream reports naive times.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// computeHourlyBuckets groups a normalized sample series into hourly
// buckets for one local calendar day. Samples that fail to parse, or
// whose local date is not the target day, are dropped; a day with zero
// valid samples yields zero buckets. The result is a pure function of
// the series, so it is safe to fully replace the day's stored set.
func computeHourlyBuckets(series []garmin.Sample, day time.Time, loc *time.Location) []domain.HeartRateHourly {
	buckets := make(map[int][]int)

	for _, s := range series {
		bpm, ok := parseBPM(s.BPM)
		if !ok {
			continue
		}
		t, ok := parseSampleTime(s.Timestamp)
		if !ok {
			continue
		}
		local := t.In(loc)
		if !domain.SameDate(local, day) {
			// The API sometimes returns a wider window than requested;
			// keep only samples that fall on this local day.
			continue
		}
		buckets[local.Hour()] = append(buckets[local.Hour()], bpm)
	}

	rows := make([]domain.HeartRateHourly, 0, len(buckets))
	for hour, vals := range buckets {
		sum := 0
		min, max := vals[0], vals[0]
		for _, v := range vals {
			sum += v
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
		rows = append(rows, domain.HeartRateHourly{
			Day:     domain.DateOf(day, time.UTC),
			Hour:    hour,
			HRMean:  round1(float64(sum) / float64(len(vals))),
			HRMin:   min,
			HRMax:   max,
			Samples: len(vals),
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Hour < rows[j].Hour })
	return rows
}

// parseSampleTime accepts epoch seconds, epoch milliseconds, or an
// ISO-8601 string. Naive timestamps are assumed to be UTC.
func parseSampleTime(ts any) (time.Time, bool) {
	switch v := ts.(type) {
	case float64:
		return timeFromEpoch(int64(v)), true
	case int:
		return timeFromEpoch(int64(v)), true
	case int64:
		return timeFromEpoch(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			if f, ferr := v.Float64(); ferr == nil {
				return timeFromEpoch(int64(f)), true
			}
			return time.Time{}, false
		}
		return timeFromEpoch(n), true
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t, true
		}
		for _, layout := range naiveLayouts {
			if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
	return time.Time{}, false
}

func timeFromEpoch(n int64) time.Time {
	if n > epochMillisThreshold {
		return time.UnixMilli(n).UTC()
	}
	return time.Unix(n, 0).UTC()
}

func parseBPM(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

// median returns the median of vals rounded to one decimal place. An
// even-length series averages the two central values.
func median(vals []float64) float64 {
	v := append([]float64(nil), vals...)
	sort.Float64s(v)
	mid := len(v) / 2
	if len(v)%2 == 1 {
		return round1(v[mid])
	}
	return round1((v[mid-1] + v[mid]) / 2)
}
