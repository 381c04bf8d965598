package mcptools

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkorolev/whoopsync/internal/models"
	"github.com/mkorolev/whoopsync/internal/syncer"
)

// kJPerKcal converts WHOOP kilojoules to kilocalories.
const kJPerKcal = 4.184

func kcal(kilojoule float64) float64 {
	return kilojoule / kJPerKcal
}

func sleepHours(s *models.SleepStageSummary) float64 {
	return float64(s.TotalInBedTimeMilli-s.TotalAwakeTimeMilli) / 3_600_000
}

func formatTodaySummary(sum *todaySummary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# WHOOP Summary for %s\n", now.Format("2006-01-02"))

	if sum.Profile != nil {
		fmt.Fprintf(&b, "\nAthlete: %s %s", sum.Profile.FirstName, sum.Profile.LastName)
		if sum.Body != nil {
			fmt.Fprintf(&b, " (%.2f m, %.1f kg, max HR %.0f)",
				sum.Body.HeightMeter, sum.Body.WeightKilogram, sum.Body.MaxHeartRate)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n## Recovery\n")
	switch {
	case sum.Recovery == nil:
		b.WriteString("No recovery recorded yet.\n")
	case sum.Recovery.Score == nil:
		fmt.Fprintf(&b, "Recovery is %s.\n", strings.ToLower(sum.Recovery.ScoreState))
	default:
		s := sum.Recovery.Score
		fmt.Fprintf(&b, "- Score: %.0f%%\n", s.RecoveryScore)
		fmt.Fprintf(&b, "- Resting heart rate: %.0f bpm\n", s.RestingHeartRate)
		fmt.Fprintf(&b, "- HRV: %.1f ms\n", s.HRVRmssdMilli)
		if s.UserCalibrating {
			b.WriteString("- Still calibrating\n")
		}
	}

	b.WriteString("\n## Sleep\n")
	switch {
	case sum.Sleep == nil:
		b.WriteString("No sleep recorded yet.\n")
	case sum.Sleep.Score == nil:
		fmt.Fprintf(&b, "Sleep score is %s.\n", strings.ToLower(sum.Sleep.ScoreState))
	default:
		s := sum.Sleep.Score
		fmt.Fprintf(&b, "- Time asleep: %.1f h\n", sleepHours(&s.StageSummary))
		if s.SleepPerformancePercentage != nil {
			fmt.Fprintf(&b, "- Performance: %.0f%%\n", *s.SleepPerformancePercentage)
		}
		if s.SleepEfficiencyPercentage != nil {
			fmt.Fprintf(&b, "- Efficiency: %.0f%%\n", *s.SleepEfficiencyPercentage)
		}
		fmt.Fprintf(&b, "- Disturbances: %d\n", s.StageSummary.DisturbanceCount)
	}

	b.WriteString("\n## Strain\n")
	switch {
	case sum.Cycle == nil:
		b.WriteString("No cycle recorded yet.\n")
	case sum.Cycle.Score == nil:
		fmt.Fprintf(&b, "Strain is %s.\n", strings.ToLower(sum.Cycle.ScoreState))
	default:
		s := sum.Cycle.Score
		fmt.Fprintf(&b, "- Day strain: %.1f\n", s.Strain)
		fmt.Fprintf(&b, "- Calories: %.0f kcal\n", kcal(s.Kilojoule))
		fmt.Fprintf(&b, "- Average heart rate: %.0f bpm\n", s.AverageHeartRate)
	}

	fmt.Fprintf(&b, "\n## Workouts today (%d)\n", len(sum.Workouts))
	if len(sum.Workouts) == 0 {
		b.WriteString("No workouts yet.\n")
	}
	for _, w := range sum.Workouts {
		mins := w.End.Sub(w.Start).Minutes()
		if w.Score != nil {
			fmt.Fprintf(&b, "- %s: %.0f min, strain %.1f, %.0f kcal\n",
				w.SportName, mins, w.Score.Strain, kcal(w.Score.Kilojoule))
		} else {
			fmt.Fprintf(&b, "- %s: %.0f min (%s)\n",
				w.SportName, mins, strings.ToLower(w.ScoreState))
		}
	}

	return b.String()
}

func formatRecoveryTrend(points []models.RecoveryTrendPoint, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Recovery trend, last %d days\n\n", days)
	if len(points) == 0 {
		b.WriteString("No scored recovery data in this window. Try sync_whoop_data first.\n")
		return b.String()
	}
	b.WriteString("| Date | Recovery | RHR (bpm) | HRV (ms) |\n")
	b.WriteString("|------|----------|-----------|----------|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %.0f%% | %.0f | %.1f |\n",
			p.Date, p.RecoveryScore, p.RestingHeartRate, p.HRVRmssdMilli)
	}
	return b.String()
}

func formatSleepTrend(points []models.SleepTrendPoint, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sleep trend, last %d days\n\n", days)
	if len(points) == 0 {
		b.WriteString("No scored sleep data in this window. Try sync_whoop_data first.\n")
		return b.String()
	}
	b.WriteString("| Date | Asleep (h) | Performance | Efficiency | Disturbances |\n")
	b.WriteString("|------|------------|-------------|------------|--------------|\n")
	for _, p := range points {
		eff := "n/a"
		if p.SleepEfficiencyPercentage != nil {
			eff = fmt.Sprintf("%.0f%%", *p.SleepEfficiencyPercentage)
		}
		fmt.Fprintf(&b, "| %s | %.1f | %.0f%% | %s | %d |\n",
			p.Date, p.TotalSleepHours, p.SleepPerformancePercentage, eff, p.DisturbanceCount)
	}
	return b.String()
}

func formatStrainTrend(points []models.StrainTrendPoint, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Strain trend, last %d days\n\n", days)
	if len(points) == 0 {
		b.WriteString("No scored strain data in this window. Try sync_whoop_data first.\n")
		return b.String()
	}
	b.WriteString("| Date | Strain | Calories | Avg HR | Max HR |\n")
	b.WriteString("|------|--------|----------|--------|--------|\n")
	for _, p := range points {
		fmt.Fprintf(&b, "| %s | %.1f | %.0f | %.0f | %.0f |\n",
			p.Date, p.Strain, p.Calories, p.AverageHeartRate, p.MaxHeartRate)
	}
	return b.String()
}

func formatSyncResult(res *syncer.Result) string {
	label := "quick sync (last 7 days)"
	if res.Type == syncer.TypeFull {
		label = "full sync (last 90 days)"
	}
	return fmt.Sprintf("Completed %s: %d cycles, %d recoveries, %d sleeps, %d workouts updated.",
		label, res.Cycles, res.Recoveries, res.Sleeps, res.Workouts)
}
