package records

import (
	"fmt"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
)

// RetryWindow is how far out the suggested retry date is placed.
const RetryWindow = 7 * 24 * time.Hour

// Increment returns the per-type step added to a record for the next target.
func Increment(t models.PRType) float64 {
	switch t {
	case models.PRType5RM:
		return 2.0
	case models.PRType8RM:
		return 1.5
	case models.PRTypeSessionVolume:
		return 10
	default:
		return 2.5
	}
}

// Recommend computes the next target for a newly created record.
func Recommend(rec models.PRRecord, now time.Time) models.Recommendation {
	inc := Increment(rec.PRType)
	base := rec.Value
	if rec.PRType.CarriesSet() && rec.WeightKg != nil {
		base = *rec.WeightKg
	}
	next := round(base+inc, 2)

	return models.Recommendation{
		NextTarget: next,
		Increment:  inc,
		Message:    recommendationMessage(rec, next),
		TargetDate: now.Add(RetryWindow),
	}
}

func recommendationMessage(rec models.PRRecord, next float64) string {
	target := FormatKg(next)
	switch rec.PRType {
	case models.PRTypeE1RM:
		return fmt.Sprintf("%s: 次は推定1RM %skg を目指しましょう", rec.ExerciseName, target)
	case models.PRTypeWeightReps:
		reps := 0
		if rec.Reps != nil {
			reps = *rec.Reps
		}
		return fmt.Sprintf("%s: 次は %skg × %d回 に挑戦しましょう", rec.ExerciseName, target, reps)
	case models.PRType3RM, models.PRType5RM, models.PRType8RM:
		reps, _ := rec.PRType.TargetReps()
		return fmt.Sprintf("%s: 次は %skg で %d回 (%s) に挑戦しましょう", rec.ExerciseName, target, reps, rec.PRType)
	case models.PRTypeSessionVolume:
		return fmt.Sprintf("次のセッションは総ボリューム %skg を目指しましょう", target)
	}
	return fmt.Sprintf("%s: 次の目標は %skg です", rec.ExerciseName, target)
}
