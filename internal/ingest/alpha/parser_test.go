package alpha

import (
	"strings"
	"testing"
	"time"

	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/go-cmp/cmp"
)

const sampleCSV = `
"Legs · Day 2 · Week 4 · Push-Pull-Legs";"2026-02-19 4:54 h";"1:02 hr"
"1. Hack Squats · Machine · 8 reps";"WU1 · 37,5 kg · 9 reps<br>WU2 · 72,5 kg · 7 reps"
#;KG;REPS;RIR
1;115;8;1
2;115;10;1
3;115;10;1
"2. Sumo Squats · Smith machine · 10 reps";"WU1 · 35 kg · 8 reps"
#;KG;REPS;RIR
1;70;8;1
2;70;12;1
"3. Hyperextensions on Roman Chair · Bodyweight · 10 reps";"WU1 · +0 kg · 8 reps"
#;KG;REPS;RIR
1;+35;10;0
2;+35;9;1
3;+35;10;0
"4. Reverse Lunges · Dumbbells · 10 reps"
#;KG;REPS;RIR
1;10;10;1
2;10;10;1
3;10;10;0
"5. Standing Calf Raises · Machine · 12 reps";"WU1 · 47,5 kg · 8 reps"
#;KG;REPS;RIR
1;157,5;11;1
2;157,5;11;0
3;157,5;10;0
"6. Hanging Leg Raises · Bodyweight · 12 reps · 2 dropsets"
#;KG;REPS;RIR
1;+0;12;1
2;+0;12;1
3;+0;12;0

"Push · Day 1 · Week 4 · Push-Pull-Legs";"2026-02-17 5:04 h";"1:12 hr"
"1. Bench Press · Barbell · 6 reps";"WU1 · 22,5 kg · 10 reps<br>WU2 · 47,5 kg · 8 reps<br>WU3 · 77,5 kg · 6 reps"
#;KG;REPS;RIR
1;102,5;6;0
2;102,5;6;0
3;100;6;0
`

// TestParseCompleteSessions verifies a multi-session export: names,
// equipment, target reps and set counts including warm-ups.
func TestParseCompleteSessions(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV), time.UTC)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	if sessions[0].Name != "Legs · Day 2 · Week 4 · Push-Pull-Legs" || sessions[0].Duration != "1:02 hr" {
		t.Errorf("first session = %q %q", sessions[0].Name, sessions[0].Duration)
	}
	if sessions[1].Name != "Push · Day 1 · Week 4 · Push-Pull-Legs" {
		t.Errorf("second session = %q", sessions[1].Name)
	}

	type shape struct {
		Name       string
		Equipment  string
		TargetReps int
		Sets       int
	}
	var got []shape
	for _, ex := range sessions[0].Exercises {
		got = append(got, shape{ex.Name, ex.Equipment, ex.TargetReps, len(ex.Sets)})
	}
	want := []shape{
		{"Hack Squats", "Machine", 8, 5},
		{"Sumo Squats", "Smith machine", 10, 3},
		{"Hyperextensions on Roman Chair", "Bodyweight", 10, 4},
		{"Reverse Lunges", "Dumbbells", 10, 3},
		{"Standing Calf Raises", "Machine", 12, 4},
		{"Hanging Leg Raises", "Bodyweight", 12, 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("exercises mismatch (-want +got):\n%s", diff)
	}
}

// TestParseDecimal covers the comma decimal separator used for weights and
// half-RIR values.
func TestParseDecimal(t *testing.T) {
	tests := map[string]float64{
		"102,5": 102.5,
		"0,5":   0.5,
		"100":   100,
	}
	for in, want := range tests {
		if got := parseDecimal(in); got != want {
			t.Errorf("parseDecimal(%q) = %v, want %v", in, got, want)
		}
	}
}

// TestParseWeight covers the +N notation: bodyweight plus N kg.
func TestParseWeight(t *testing.T) {
	tests := []struct {
		in     string
		weight float64
		plus   bool
	}{
		{"+35", 35, true},
		{"+0", 0, true},
		{"72,5", 72.5, false},
	}
	for _, tt := range tests {
		weight, plus := parseWeight(tt.in)
		if weight != tt.weight || plus != tt.plus {
			t.Errorf("parseWeight(%q) = %v, %v, want %v, %v", tt.in, weight, plus, tt.weight, tt.plus)
		}
	}
}

// TestParseWarmups verifies warm-ups listed in the exercise header are
// split on <br> and flagged.
func TestParseWarmups(t *testing.T) {
	got := parseWarmups("WU1 · 37,5 kg · 9 reps<br>WU2 · +0 kg · 7 reps")
	want := []models.AlphaSet{
		{Number: 1, WeightKg: 37.5, Reps: 9, IsWarmup: true},
		{Number: 2, WeightKg: 0, Reps: 7, IsWarmup: true, IsBodyweightPlus: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("warm-ups mismatch (-want +got):\n%s", diff)
	}
}

// TestEmptyInput verifies that empty input returns no sessions without error.
func TestEmptyInput(t *testing.T) {
	sessions, err := Parse(strings.NewReader(""), time.UTC)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
}

// TestSessionDateLocation verifies zone-less session times are read in the
// configured location.
func TestSessionDateLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	sessions, err := Parse(strings.NewReader(sampleCSV), tokyo)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	want := time.Date(2026, 2, 19, 4, 54, 0, 0, tokyo)
	if !sessions[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", sessions[0].Date, want)
	}
	if got := sessions[0].Date.UTC().Day(); got != 18 {
		t.Errorf("UTC day = %d, want 18", got)
	}
}

// TestParseErrors verifies malformed structure is reported with its line.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exercise before session", "\"1. Bench Press · Barbell · 6 reps\"\n", "line 1"},
		{"set before exercise", "\"Push\";\"2026-02-17 5:04 h\";\"1:12 hr\"\n1;100;5;0\n", "line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), time.UTC)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

// TestToWorkoutPostDropsWarmups verifies the conversion keeps working sets
// only and dates the post at the session.
func TestToWorkoutPostDropsWarmups(t *testing.T) {
	sessions, err := Parse(strings.NewReader(sampleCSV), time.UTC)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	post := sessions[1].ToWorkoutPost("u1")
	if len(post.Exercises) != 1 {
		t.Fatalf("exercises = %d, want 1", len(post.Exercises))
	}
	bench := post.Exercises[0]
	if bench.Name != "Bench Press" || len(bench.Sets) != 3 {
		t.Errorf("bench = %+v", bench)
	}
	if bench.Sets[0].WeightKg != 102.5 || bench.Sets[0].Reps != 6 {
		t.Errorf("first working set = %+v", bench.Sets[0])
	}
	if post.DurationMin != 72 {
		t.Errorf("duration = %d, want 72", post.DurationMin)
	}
	if post.RecordDate == nil || !post.RecordDate.Equal(sessions[1].Date) {
		t.Errorf("record date = %v", post.RecordDate)
	}
}
