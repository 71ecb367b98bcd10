package records

import (
	"strings"
	"testing"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestRecommend(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		rec      models.PRRecord
		wantNext float64
		wantInc  float64
		wantMsg  string
	}{
		{
			name:     "e1RM builds on the estimate",
			rec:      models.PRRecord{ExerciseName: "ベンチプレス", PRType: models.PRTypeE1RM, Value: 116.6667},
			wantNext: 119.17,
			wantInc:  2.5,
			wantMsg:  "推定1RM 119.17kg",
		},
		{
			name:     "5RM",
			rec:      models.PRRecord{ExerciseName: "スクワット", PRType: models.PRType5RM, Value: 120, WeightKg: ptr(120.0), Reps: ptr(5)},
			wantNext: 122,
			wantInc:  2,
			wantMsg:  "5回",
		},
		{
			name:     "8RM",
			rec:      models.PRRecord{ExerciseName: "スクワット", PRType: models.PRType8RM, Value: 100, WeightKg: ptr(100.0), Reps: ptr(8)},
			wantNext: 101.5,
			wantInc:  1.5,
			wantMsg:  "101.50kg",
		},
		{
			name:     "weight x reps",
			rec:      models.PRRecord{ExerciseName: "デッドリフト", PRType: models.PRTypeWeightReps, Value: 900, WeightKg: ptr(150.0), Reps: ptr(6)},
			wantNext: 152.5,
			wantInc:  2.5,
			wantMsg:  "× 6回",
		},
		{
			name:     "session volume uses the value",
			rec:      models.PRRecord{ExerciseName: models.SessionExerciseName, PRType: models.PRTypeSessionVolume, Value: 5000},
			wantNext: 5010,
			wantInc:  10,
			wantMsg:  "総ボリューム 5010.00kg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Recommend(tt.rec, now)
			if got.NextTarget != tt.wantNext {
				t.Errorf("NextTarget = %v, want %v", got.NextTarget, tt.wantNext)
			}
			if got.Increment != tt.wantInc {
				t.Errorf("Increment = %v, want %v", got.Increment, tt.wantInc)
			}
			if !strings.Contains(got.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want it to contain %q", got.Message, tt.wantMsg)
			}
			if want := now.AddDate(0, 0, 7); !got.TargetDate.Equal(want) {
				t.Errorf("TargetDate = %v, want %v", got.TargetDate, want)
			}
		})
	}
}
