package records

import (
	"testing"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		prType models.PRType
		want   models.Category
	}{
		{models.PRTypeE1RM, models.CategoryMaxStrength},
		{models.PRType3RM, models.CategoryMaxStrength},
		{models.PRType5RM, models.CategoryEndurance},
		{models.PRType8RM, models.CategoryEndurance},
		{models.PRTypeWeightReps, models.CategoryVolume},
		{models.PRTypeSessionVolume, models.CategoryVolume},
		{models.PRType("unknown"), models.CategoryVolume},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.prType); got != tt.want {
			t.Errorf("CategoryOf(%q) = %q, want %q", tt.prType, got, tt.want)
		}
	}
}

// TestMuscleGroupOf covers dictionary hits, normalisation, keyword fallback
// and keyword ordering.
func TestMuscleGroupOf(t *testing.T) {
	tests := []struct {
		name      string
		exercise  string
		want      models.MuscleGroup
		wantKnown bool
	}{
		{"dictionary", "ベンチプレス", models.MuscleGroupChest, true},
		{"dictionary with space", "ベンチ プレス", models.MuscleGroupChest, true},
		{"english dictionary", "Bench Press", models.MuscleGroupChest, true},
		{"english hyphenated", "lat-pulldown", models.MuscleGroupBack, true},
		{"keyword chest", "インクラインダンベルフライ", models.MuscleGroupChest, true},
		{"leg curl is legs", "ライイングレッグカール", models.MuscleGroupLegs, true},
		{"arm curl", "プリーチャーカール", models.MuscleGroupArms, true},
		{"keyword shoulders", "Seated Shoulder Press (Machine)", models.MuscleGroupShoulders, true},
		{"keyword cardio", "トレッドミル", models.MuscleGroupCardio, true},
		{"crunch is not cardio", "Crunch", models.MuscleGroupOther, false},
		{"unknown", "プランク", models.MuscleGroupOther, false},
		{"empty", "", models.MuscleGroupOther, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := MuscleGroupOf(tt.exercise)
			if got != tt.want || known != tt.wantKnown {
				t.Errorf("MuscleGroupOf(%q) = (%q, %v), want (%q, %v)",
					tt.exercise, got, known, tt.want, tt.wantKnown)
			}
		})
	}
}

// TestGroupRecords verifies bucketing keeps order and every record lands in
// exactly one bucket per grouping.
func TestGroupRecords(t *testing.T) {
	recs := []models.PRRecord{
		{ExerciseName: "ベンチプレス", PRType: models.PRTypeE1RM, Value: 100},
		{ExerciseName: "スクワット", PRType: models.PRType5RM, Value: 120},
		{ExerciseName: "ベンチプレス", PRType: models.PRType3RM, Value: 95},
		{ExerciseName: models.SessionExerciseName, PRType: models.PRTypeSessionVolume, Value: 5000},
	}

	g := GroupRecords(recs)

	strength := g.ByCategory[models.CategoryMaxStrength]
	if len(strength) != 2 || strength[0].Value != 100 || strength[1].Value != 95 {
		t.Errorf("max_strength bucket = %+v", strength)
	}
	if n := len(g.ByCategory[models.CategoryEndurance]); n != 1 {
		t.Errorf("endurance bucket has %d records, want 1", n)
	}
	if n := len(g.ByCategory[models.CategoryVolume]); n != 1 {
		t.Errorf("volume bucket has %d records, want 1", n)
	}
	if n := len(g.ByMuscleGroup[models.MuscleGroupChest]); n != 2 {
		t.Errorf("chest bucket has %d records, want 2", n)
	}
	if n := len(g.ByMuscleGroup[models.MuscleGroupLegs]); n != 1 {
		t.Errorf("legs bucket has %d records, want 1", n)
	}
	if n := len(g.ByMuscleGroup[models.MuscleGroupOther]); n != 1 {
		t.Errorf("other bucket has %d records, want 1", n)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		exercise string
		prType   models.PRType
		want     Classification
	}{
		{"ベンチプレス", models.PRType5RM, Classification{
			Exercise: "ベンチプレス", MuscleGroup: models.MuscleGroupChest, Known: true,
			PRType: models.PRType5RM, Category: models.CategoryEndurance,
		}},
		{"スクワット", "", Classification{
			Exercise: "スクワット", MuscleGroup: models.MuscleGroupLegs, Known: true,
		}},
		{"謎の種目", models.PRTypeE1RM, Classification{
			Exercise: "謎の種目", MuscleGroup: models.MuscleGroupOther,
			PRType: models.PRTypeE1RM, Category: models.CategoryMaxStrength,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.exercise, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, Classify(tt.exercise, tt.prType)); diff != "" {
				t.Errorf("Classify mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
