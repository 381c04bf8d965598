// Package models defines the WHOOP record types shared by the upstream
// gateway, the local store, and the tool layer. JSON tags follow the WHOOP
// developer API payloads so the same structs decode API responses.
package models

import "time"

// Token is the single active OAuth credential pair. ExpiresAt is always
// consulted before use; a request is never issued with a token expiring
// within five minutes.
type Token struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SyncState is the singleton sync bookkeeping row. The date boundaries only
// ever widen; LastSyncAt advances to "now" on every completed sync.
type SyncState struct {
	LastSyncAt       *time.Time
	OldestSyncedDate *time.Time
	NewestSyncedDate *time.Time
}

// Score lifecycle states reported by WHOOP.
const (
	ScoreStateScored       = "SCORED"
	ScoreStatePendingScore = "PENDING_SCORE"
	ScoreStateUnscorable   = "UNSCORABLE"
)

// Cycle is one physiological day window. End is nil for the cycle currently
// in progress; Score is nil unless ScoreState is SCORED.
type Cycle struct {
	ID             int64       `json:"id"`
	Start          time.Time   `json:"start"`
	End            *time.Time  `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	ScoreState     string      `json:"score_state"`
	Score          *CycleScore `json:"score"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type CycleScore struct {
	Strain           float64 `json:"strain"`
	Kilojoule        float64 `json:"kilojoule"`
	AverageHeartRate float64 `json:"average_heart_rate"`
	MaxHeartRate     float64 `json:"max_heart_rate"`
}

// Recovery is the daily readiness score, one per cycle.
type Recovery struct {
	CycleID    int64          `json:"cycle_id"`
	SleepID    string         `json:"sleep_id"`
	ScoreState string         `json:"score_state"`
	Score      *RecoveryScore `json:"score"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type RecoveryScore struct {
	UserCalibrating  bool     `json:"user_calibrating"`
	RecoveryScore    float64  `json:"recovery_score"`
	RestingHeartRate float64  `json:"resting_heart_rate"`
	HRVRmssdMilli    float64  `json:"hrv_rmssd_milli"`
	Spo2Percentage   *float64 `json:"spo2_percentage"`
	SkinTempCelsius  *float64 `json:"skin_temp_celsius"`
}

// Sleep is one sleep activity. CycleID is a lookup back-reference, not
// ownership; Nap distinguishes naps from main sleep.
type Sleep struct {
	ID             string      `json:"id"`
	CycleID        *int64      `json:"cycle_id"`
	Start          time.Time   `json:"start"`
	End            time.Time   `json:"end"`
	TimezoneOffset string      `json:"timezone_offset"`
	Nap            bool        `json:"nap"`
	ScoreState     string      `json:"score_state"`
	Score          *SleepScore `json:"score"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type SleepScore struct {
	StageSummary               SleepStageSummary `json:"stage_summary"`
	RespiratoryRate            *float64          `json:"respiratory_rate"`
	SleepPerformancePercentage *float64          `json:"sleep_performance_percentage"`
	SleepConsistencyPercentage *float64          `json:"sleep_consistency_percentage"`
	SleepEfficiencyPercentage  *float64          `json:"sleep_efficiency_percentage"`
}

type SleepStageSummary struct {
	TotalInBedTimeMilli         int64 `json:"total_in_bed_time_milli"`
	TotalAwakeTimeMilli         int64 `json:"total_awake_time_milli"`
	TotalLightSleepTimeMilli    int64 `json:"total_light_sleep_time_milli"`
	TotalSlowWaveSleepTimeMilli int64 `json:"total_slow_wave_sleep_time_milli"`
	TotalRemSleepTimeMilli      int64 `json:"total_rem_sleep_time_milli"`
	SleepCycleCount             int   `json:"sleep_cycle_count"`
	DisturbanceCount            int   `json:"disturbance_count"`
}

// Workout is one recorded workout activity with its heart-rate zone
// histogram.
type Workout struct {
	ID             string        `json:"id"`
	SportName      string        `json:"sport_name"`
	Start          time.Time     `json:"start"`
	End            time.Time     `json:"end"`
	TimezoneOffset string        `json:"timezone_offset"`
	ScoreState     string        `json:"score_state"`
	Score          *WorkoutScore `json:"score"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type WorkoutScore struct {
	Strain            float64       `json:"strain"`
	AverageHeartRate  float64       `json:"average_heart_rate"`
	MaxHeartRate      float64       `json:"max_heart_rate"`
	Kilojoule         float64       `json:"kilojoule"`
	PercentRecorded   float64       `json:"percent_recorded"`
	DistanceMeter     *float64      `json:"distance_meter"`
	AltitudeGainMeter *float64      `json:"altitude_gain_meter"`
	ZoneDurations     ZoneDurations `json:"zone_duration"`
}

// ZoneDurations is the six-bucket heart-rate zone histogram, in
// milliseconds per zone.
type ZoneDurations struct {
	ZoneZeroMilli  int64 `json:"zone_zero_milli"`
	ZoneOneMilli   int64 `json:"zone_one_milli"`
	ZoneTwoMilli   int64 `json:"zone_two_milli"`
	ZoneThreeMilli int64 `json:"zone_three_milli"`
	ZoneFourMilli  int64 `json:"zone_four_milli"`
	ZoneFiveMilli  int64 `json:"zone_five_milli"`
}

// Profile is the upstream user profile singleton.
type Profile struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// BodyMeasurement is the upstream body measurement singleton.
type BodyMeasurement struct {
	HeightMeter    float64 `json:"height_meter"`
	WeightKilogram float64 `json:"weight_kilogram"`
	MaxHeartRate   float64 `json:"max_heart_rate"`
}
