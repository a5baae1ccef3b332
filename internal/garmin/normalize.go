// Package garmin fetches and normalizes wearable sleep and heart-rate
// data. The upstream response schema is undocumented and shifts between
// versions, so every extraction probes an ordered list of candidate
// fields and degrades to null instead of failing. A partial day is
// better than a dropped day.
package garmin

import "encoding/json"

// SleepSummary is the fixed-schema sleep sub-document. Raw keeps the
// original response for forensic replay.
type SleepSummary struct {
	TotalMinutesAsleep *int     `json:"total_minutes_asleep"`
	Efficiency         *float64 `json:"efficiency"`
	Stages             any      `json:"stages"`
	Bedtime            any      `json:"bedtime"`
	Wakeups            *int     `json:"wakeups"`
	Raw                any      `json:"raw"`
}

// Sample is one heart-rate reading. Timestamp may be epoch seconds,
// epoch milliseconds, or an ISO-8601 string; BPM may be any numeric
// shape. Both are parsed lazily at aggregation time.
type Sample struct {
	Timestamp any `json:"timestamp"`
	BPM       any `json:"bpm"`
}

// HeartRateSummary is the fixed-schema heart-rate sub-document.
type HeartRateSummary struct {
	Series    []Sample `json:"series"`
	RestingHR *int     `json:"resting_hr"`
	Raw       any      `json:"raw"`
}

// DailyPayload is the normalized day record cached per (source, day).
// Sleep and HeartRate are null when the upstream returned nothing.
type DailyPayload struct {
	Date      string            `json:"date"`
	Sleep     *SleepSummary     `json:"sleep"`
	HeartRate *HeartRateSummary `json:"heart_rate"`
}

// NormalizeSleep converts whatever shape the sleep endpoint returned
// into a SleepSummary. Arrays are assumed to be single-day granularity
// and recurse on the first element. Never returns an error: unknown
// shapes yield a summary with null fields and the raw input attached.
func NormalizeSleep(raw any) *SleepSummary {
	if raw == nil {
		return nil
	}

	if seq, ok := raw.([]any); ok && len(seq) > 0 {
		return NormalizeSleep(seq[0])
	}

	out := &SleepSummary{Raw: raw}

	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}

	if secs, ok := probeNumber(m, "totalSleepSeconds", "sleepingSeconds", "overallSleepSeconds"); ok {
		minutes := int(secs) / 60
		out.TotalMinutesAsleep = &minutes
	}
	if eff, ok := probeNumber(m, "sleepEfficiency"); ok {
		out.Efficiency = &eff
	}
	if wakeups, ok := probeNumber(m, "awakeningsCount", "wakeupCount"); ok {
		n := int(wakeups)
		out.Wakeups = &n
	}
	if bedtime, ok := probeValue(m, "sleepTime", "startTimeGMT", "startTimeLocal"); ok {
		out.Bedtime = bedtime
	}
	// Stage detail is carried through unshaped; consumers decide.
	if stages, ok := probeValue(m, "sleepLevels", "sleepStages", "levels"); ok {
		out.Stages = stages
	}

	return out
}

// NormalizeHeartRate converts the daily heart-rate response into a
// HeartRateSummary with a uniform sample series. Recognized container
// shapes are a sequence of [timestamp, bpm] pairs and an object with a
// "samples" sequence of {time, bpm} records. Anything else yields an
// empty series, never an error.
func NormalizeHeartRate(raw any) *HeartRateSummary {
	if raw == nil {
		return nil
	}

	out := &HeartRateSummary{Series: []Sample{}, Raw: raw}

	m, ok := raw.(map[string]any)
	if !ok {
		return out
	}

	if resting, ok := probeNumber(m, "restingHeartRate", "restingHR"); ok {
		n := int(resting)
		out.RestingHR = &n
	}

	container, _ := probeValue(m, "heartRateValues", "heartRateValuesV2", "values")
	switch arr := container.(type) {
	case []any:
		for _, item := range arr {
			pair, ok := item.([]any)
			if !ok || len(pair) < 2 {
				continue
			}
			out.Series = append(out.Series, Sample{Timestamp: pair[0], BPM: pair[1]})
		}
	case map[string]any:
		samples, ok := arr["samples"].([]any)
		if !ok {
			break
		}
		for _, item := range samples {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			out.Series = append(out.Series, Sample{Timestamp: rec["time"], BPM: rec["bpm"]})
		}
	}

	return out
}

// probeValue tries candidate keys in priority order and returns the
// first non-nil value.
func probeValue(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// probeNumber is probeValue restricted to numeric values. JSON decoding
// produces float64, but json.Number and native ints are tolerated for
// callers that decode differently.
func probeNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if f, ok := asNumber(v); ok {
			return f, true
		}
	}
	return 0, false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
