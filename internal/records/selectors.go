package records

import "github.com/HIkaru827/musclegram/internal/models"

// Candidate is a value that may become a new personal record.
type Candidate struct {
	ExerciseName string
	Type         models.PRType
	Value        float64
	WeightKg     float64
	Reps         int
}

// Key returns the (exercise, type) part of the record key.
func (c Candidate) Key(userID string) models.PRKey {
	return models.PRKey{UserID: userID, ExerciseName: c.ExerciseName, Type: c.Type}
}

// BestE1RM picks the set with the highest estimated 1RM. Ties keep the
// first set.
func BestE1RM(sets []models.Set) (Candidate, bool) {
	return bestBy(sets, func(s models.Set) float64 { return E1RM(s.WeightKg, s.Reps) }, models.PRTypeE1RM)
}

// BestWeightReps picks the set with the highest weight × reps product.
// Ties keep the first set.
func BestWeightReps(sets []models.Set) (Candidate, bool) {
	return bestBy(sets, func(s models.Set) float64 { return Volume(s.WeightKg, s.Reps) }, models.PRTypeWeightReps)
}

// BestRepMax picks the heaviest set performed for exactly targetReps reps.
// Sets with any other rep count never qualify.
func BestRepMax(sets []models.Set, targetReps int) (Candidate, bool) {
	var prType models.PRType
	switch targetReps {
	case 3:
		prType = models.PRType3RM
	case 5:
		prType = models.PRType5RM
	case 8:
		prType = models.PRType8RM
	default:
		return Candidate{}, false
	}

	var best Candidate
	found := false
	for _, s := range sets {
		if s.Reps != targetReps || !validSet(s.WeightKg, s.Reps) {
			continue
		}
		if !found || s.WeightKg > best.Value {
			best = Candidate{Type: prType, Value: s.WeightKg, WeightKg: s.WeightKg, Reps: s.Reps}
			found = true
		}
	}
	return best, found
}

// SessionVolume sums weight × reps over every set of every exercise.
func SessionVolume(exercises []models.WorkoutExercise) float64 {
	var total float64
	for _, ex := range exercises {
		for _, s := range ex.Sets {
			total += Volume(s.WeightKg, s.Reps)
		}
	}
	return total
}

func bestBy(sets []models.Set, metric func(models.Set) float64, prType models.PRType) (Candidate, bool) {
	var best Candidate
	found := false
	for _, s := range sets {
		v := metric(s)
		if v <= 0 {
			continue
		}
		if !found || v > best.Value {
			best = Candidate{Type: prType, Value: v, WeightKg: s.WeightKg, Reps: s.Reps}
			found = true
		}
	}
	return best, found
}

// Candidates builds every PR candidate for a workout: per exercise the e1RM,
// weight × reps and 3/5/8RM candidates, followed by one session volume
// candidate. Entries sharing an exercise name are merged first so a post
// produces at most one candidate per (exercise, type).
func Candidates(exercises []models.WorkoutExercise) []Candidate {
	var order []string
	merged := make(map[string][]models.Set)
	for _, ex := range exercises {
		if ex.Name == "" {
			continue
		}
		if _, ok := merged[ex.Name]; !ok {
			order = append(order, ex.Name)
		}
		merged[ex.Name] = append(merged[ex.Name], ex.Sets...)
	}

	var out []Candidate
	add := func(name string, c Candidate, ok bool) {
		if !ok {
			return
		}
		c.ExerciseName = name
		out = append(out, c)
	}
	for _, name := range order {
		sets := merged[name]
		c, ok := BestE1RM(sets)
		add(name, c, ok)
		c, ok = BestWeightReps(sets)
		add(name, c, ok)
		for _, reps := range []int{3, 5, 8} {
			c, ok = BestRepMax(sets, reps)
			add(name, c, ok)
		}
	}

	if v := SessionVolume(exercises); v > 0 {
		out = append(out, Candidate{
			ExerciseName: models.SessionExerciseName,
			Type:         models.PRTypeSessionVolume,
			Value:        v,
		})
	}
	return out
}
