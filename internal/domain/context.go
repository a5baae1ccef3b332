package domain

// DailySummaryOut is the compact projection of one completed day handed
// to the reasoning call. Missing metrics surface as null, never as
// omitted keys, so the downstream consumer sees a stable schema.
// @Description One day of the health context, oldest to newest.
type DailySummaryOut struct {
	// Calendar date in YYYY-MM-DD
	Day string `json:"day" example:"2024-05-12"`
	// Total minutes asleep
	SleepMin *int `json:"sleep_min" example:"432"`
	// Sleep efficiency percentage
	SleepEff *float64 `json:"sleep_eff" example:"91.5"`
	// Device sleep score
	SleepScore *int `json:"sleep_score" example:"78"`
	// Device resting heart rate (bpm)
	RestingHR *int `json:"resting_hr" example:"52"`
	// Mean heart rate across the day (bpm)
	HRMean *float64 `json:"hr_mean" example:"64.2"`
	// Minimum heart rate (bpm)
	HRMin *int `json:"hr_min" example:"47"`
	// Maximum heart rate (bpm)
	HRMax *int `json:"hr_max" example:"142"`
	// Step count, if tracked
	Steps *int `json:"steps" example:"8200"`
	// Training stress score, if tracked
	TSS *float64 `json:"tss" example:"55.0"`
}

// HourlyMean is one hour of the most recent day with hourly data.
// @Description Hour-of-day and mean heart rate for that hour.
type HourlyMean struct {
	Hour int      `json:"h" example:"9"`
	Mean *float64 `json:"m" example:"65.0"`
}

// PartialDay carries interim statistics for an in-flight day. Its
// presence tells the reasoning consumer that later hours are not yet
// represented; absence means the latest known day is complete.
// @Description Interim heart-rate statistics for today, observed hours only.
type PartialDay struct {
	Day           string   `json:"day" example:"2024-05-13"`
	Partial       bool     `json:"partial" example:"true"`
	HRMeanSoFar   *float64 `json:"hr_mean_so_far" example:"63.4"`
	HRMedianSoFar *float64 `json:"hr_median_so_far" example:"63.0"`
	HRMinSoFar    *int     `json:"hr_min_so_far" example:"48"`
	HRMaxSoFar    *int     `json:"hr_max_so_far" example:"131"`
	HoursObserved int      `json:"hours_observed" example:"14"`
	SamplesTotal  int      `json:"samples_total" example:"5040"`
}

// CoachRecommendation is the coach endpoint response: the generated
// advice plus the exact context it was built from.
// @Description Training recommendation with the health context used to produce it.
type CoachRecommendation struct {
	// Recommendation text, at most a few bullets
	Recommendation string `json:"recommendation"`
	// The context fed to the reasoning call
	Context HealthContext `json:"context"`
	// OTEL trace ID for locating the call in the tracing backend
	TraceID string `json:"trace_id,omitempty" example:"550e8400e29b41d4a716446655440000"`
}

// HealthContext is the bounded summary object fed to the reasoning
// call. Field names and types are the contract the prompt assembler
// depends on.
// @Description Compact health context: recent daily summaries, latest hourly HR, optional partial day.
type HealthContext struct {
	// Daily summaries, oldest to newest
	Daily []DailySummaryOut `json:"daily"`
	// Hourly HR means for the most recent day with hourly data, ascending hour
	Hourly []HourlyMean `json:"hourly"`
	// Present only when the latest hourly day is today
	TodayPartial *PartialDay `json:"today_partial"`
}
