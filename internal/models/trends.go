package models

// Trend rows are per-day projections returned by the store's aggregation
// queries, most recent day first. Rows whose primary metric was never
// scored are excluded at query time, not zero-filled.

type RecoveryTrendPoint struct {
	Date             string
	RecoveryScore    float64
	RestingHeartRate float64
	HRVRmssdMilli    float64
}

// SleepTrendPoint carries TotalSleepHours derived as
// (time in bed − time awake) / 3,600,000.
type SleepTrendPoint struct {
	Date                       string
	TotalSleepHours            float64
	SleepPerformancePercentage float64
	SleepEfficiencyPercentage  *float64
	DisturbanceCount           int
}

// StrainTrendPoint carries Calories derived as kilojoules / 4.184.
type StrainTrendPoint struct {
	Date             string
	Strain           float64
	Calories         float64
	AverageHeartRate float64
	MaxHeartRate     float64
}
