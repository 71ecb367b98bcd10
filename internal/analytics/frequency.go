// Package analytics derives training-frequency statistics and next-session
// recommendations from a user's workout history.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
)

// MinDaysForFrequency is the number of distinct training days needed before an
// average frequency exists.
const MinDaysForFrequency = 2

// MinDaysForConsistency is the number of distinct training days needed before
// consistency can rate above low.
const MinDaysForConsistency = 3

// DistinctDays collapses timestamps to calendar days in loc and returns each
// day once, as local midnight, in ascending order.
func DistinctDays(times []time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	seen := make(map[int64]bool, len(times))
	var days []time.Time
	for _, ts := range times {
		if ts.IsZero() {
			continue
		}
		d := startOfDay(ts, loc)
		n := dayNumber(d)
		if seen[n] {
			continue
		}
		seen[n] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// Intervals returns the whole-day gaps between consecutive days. days must be
// ascending, as returned by DistinctDays.
func Intervals(days []time.Time) []int {
	if len(days) < 2 {
		return nil
	}
	out := make([]int, 0, len(days)-1)
	for i := 1; i < len(days); i++ {
		out = append(out, DaysBetween(days[i-1], days[i]))
	}
	return out
}

// AverageFrequency is the mean interval in days rounded to one decimal. It
// reports false when fewer than two distinct days are given.
func AverageFrequency(days []time.Time) (float64, bool) {
	if len(days) < MinDaysForFrequency {
		return 0, false
	}
	mean, _ := meanStddev(Intervals(days))
	return math.Round(mean*10) / 10, true
}

// ConsistencyOf rates the regularity of the intervals between days by their
// coefficient of variation.
func ConsistencyOf(days []time.Time) models.Consistency {
	if len(days) < MinDaysForConsistency {
		return models.ConsistencyLow
	}
	return consistencyOfIntervals(Intervals(days))
}

func consistencyOfIntervals(intervals []int) models.Consistency {
	mean, stddev := meanStddev(intervals)
	if mean <= 0 {
		return models.ConsistencyLow
	}
	switch cv := stddev / mean; {
	case cv < 0.3:
		return models.ConsistencyHigh
	case cv < 0.6:
		return models.ConsistencyMedium
	default:
		return models.ConsistencyLow
	}
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var sq float64
	for _, v := range values {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// StatusOf maps the days left until the next recommended session to a status.
func StatusOf(daysUntil int) models.TrainingStatus {
	switch {
	case daysUntil < -1:
		return models.StatusOverdue
	case daysUntil <= 1:
		return models.StatusDueSoon
	case daysUntil <= 3:
		return models.StatusOnTrack
	default:
		return models.StatusAhead
	}
}

// Project builds the next-session recommendation for one exercise from its
// stored average frequency and training days. The next date is the last
// training day plus the rounded frequency. Without any training days the
// exercise is reported overdue with no dates.
func Project(a models.TrainingAnalytics, days []time.Time, now time.Time, loc *time.Location) models.NextRecommendation {
	if loc == nil {
		loc = time.UTC
	}
	rec := models.NextRecommendation{
		ExerciseName:     a.ExerciseName,
		AverageFrequency: a.AverageFrequency,
		Consistency:      ConsistencyOf(days),
	}
	if len(days) == 0 {
		rec.Status = models.StatusOverdue
		return rec
	}

	last := days[len(days)-1]
	next := last.AddDate(0, 0, int(math.Round(a.AverageFrequency)))
	rec.LastTrainingDate = last
	rec.NextRecommendedDate = next
	rec.DaysUntilNext = DaysBetween(startOfDay(now, loc), next)
	rec.Status = StatusOf(rec.DaysUntilNext)
	return rec
}

var statusRank = map[models.TrainingStatus]int{
	models.StatusOverdue: 0,
	models.StatusDueSoon: 1,
	models.StatusOnTrack: 2,
	models.StatusAhead:   3,
}

// SortByUrgency orders recommendations overdue first, then by days until the
// next session, then by exercise name.
func SortByUrgency(recs []models.NextRecommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if statusRank[a.Status] != statusRank[b.Status] {
			return statusRank[a.Status] < statusRank[b.Status]
		}
		if a.DaysUntilNext != b.DaysUntilNext {
			return a.DaysUntilNext < b.DaysUntilNext
		}
		return a.ExerciseName < b.ExerciseName
	})
}

// DaysBetween counts calendar days from a to b, each taken in its own
// location. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(dayNumber(b) - dayNumber(a))
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// dayNumber is the civil date of t as days since the Unix epoch, immune to
// DST-length days.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}
