package records

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// memStore is an in-memory Store with per-key locking and read failure
// injection.
type memStore struct {
	mu        sync.Mutex
	locks     map[string]*sync.Mutex
	records   map[string][]models.PRRecord
	failReads map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		locks:     make(map[string]*sync.Mutex),
		records:   make(map[string][]models.PRRecord),
		failReads: make(map[string]bool),
	}
}

func (s *memStore) BestPR(_ context.Context, key models.PRKey) (*models.PRRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failReads[key.String()] {
		return nil, errors.New("connection reset")
	}
	var best *models.PRRecord
	for i, r := range s.records[key.String()] {
		if best == nil || r.Value > best.Value {
			best = &s.records[key.String()][i]
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (s *memStore) SavePR(_ context.Context, rec *models.PRRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	k := models.PRKey{UserID: rec.UserID, ExerciseName: rec.ExerciseName, Type: rec.PRType}.String()
	s.records[k] = append(s.records[k], *rec)
	return nil
}

func (s *memStore) WithPRLock(ctx context.Context, key models.PRKey, fn func(ctx context.Context, tx Store) error) error {
	s.mu.Lock()
	l, ok := s.locks[key.String()]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key.String()] = l
	}
	s.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx, s)
}

func (s *memStore) count(key models.PRKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records[key.String()])
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func benchPost(user string, weight float64, reps int, day int) *models.WorkoutPost {
	return &models.WorkoutPost{
		ID:     uuid.New(),
		UserID: user,
		Exercises: []models.WorkoutExercise{
			{ID: "ex-1", Name: "ベンチプレス", Sets: []models.Set{{WeightKg: weight, Reps: reps}}},
		},
		CreatedAt: time.Date(2024, 1, day, 18, 0, 0, 0, time.UTC),
	}
}

func findRecord(recs []models.PRRecord, t models.PRType) *models.PRRecord {
	for i := range recs {
		if recs[i].PRType == t {
			return &recs[i]
		}
	}
	return nil
}

// TestDetectFirstWorkout verifies every candidate becomes a record when the
// user has no history, with a zero improvement and no previous best.
func TestDetectFirstWorkout(t *testing.T) {
	store := newMemStore()
	d := NewDetector(store, metrics.NewTestManager(), 0, discardLogger())

	post := benchPost("u1", 100, 5, 1)
	got, err := d.Detect(context.Background(), post)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	// e1RM, weight_reps, 5RM, session_volume
	if len(got) != 4 {
		t.Fatalf("got %d records, want 4: %+v", len(got), got)
	}
	e1rm := findRecord(got, models.PRTypeE1RM)
	if e1rm == nil {
		t.Fatal("missing e1RM record")
	}
	if e1rm.Value != 116.6667 || FormatKg(e1rm.Value) != "116.67" {
		t.Errorf("e1RM value = %v", e1rm.Value)
	}
	if e1rm.WeightKg != nil || e1rm.Reps != nil {
		t.Error("e1RM records only the derived value")
	}
	if e1rm.PreviousBest != nil {
		t.Errorf("PreviousBest = %v, want nil", *e1rm.PreviousBest)
	}
	if e1rm.Improvement == nil || *e1rm.Improvement != 0 {
		t.Errorf("Improvement = %v, want 0", e1rm.Improvement)
	}
	if e1rm.WorkoutID == nil || *e1rm.WorkoutID != post.ID {
		t.Errorf("WorkoutID = %v, want %v", e1rm.WorkoutID, post.ID)
	}
	if !e1rm.Date.Equal(post.CreatedAt) {
		t.Errorf("Date = %v, want %v", e1rm.Date, post.CreatedAt)
	}

	vol := findRecord(got, models.PRTypeSessionVolume)
	if vol == nil || vol.Value != 500 || vol.ExerciseName != models.SessionExerciseName {
		t.Errorf("session volume record = %+v", vol)
	}
	if vol != nil && (vol.WeightKg != nil || vol.Reps != nil) {
		t.Error("session volume must not carry a set")
	}
}

// TestDetectImprovementSequence verifies a rising series creates one record
// per workout with the improvement measured against the previous best.
func TestDetectImprovementSequence(t *testing.T) {
	store := newMemStore()
	d := NewDetector(store, metrics.NewTestManager(), 2, discardLogger())
	ctx := context.Background()

	weights := []float64{100, 105, 110}
	var prev *models.PRRecord
	for i, w := range weights {
		got, err := d.Detect(ctx, benchPost("u1", w, 1, i+1))
		if err != nil {
			t.Fatalf("Detect %d: %v", i, err)
		}
		rec := findRecord(got, models.PRTypeE1RM)
		if rec == nil {
			t.Fatalf("workout %d created no e1RM record", i)
		}
		if prev != nil {
			if rec.PreviousBest == nil || *rec.PreviousBest != prev.Value {
				t.Errorf("workout %d PreviousBest = %v, want %v", i, rec.PreviousBest, prev.Value)
			}
			want := round((rec.Value-prev.Value)/prev.Value*100, 2)
			if *rec.Improvement != want || want <= 0 {
				t.Errorf("workout %d Improvement = %v, want %v", i, *rec.Improvement, want)
			}
		}
		prev = rec
	}

	key := models.PRKey{UserID: "u1", ExerciseName: "ベンチプレス", Type: models.PRTypeE1RM}
	if n := store.count(key); n != 3 {
		t.Errorf("stored %d e1RM records, want 3", n)
	}
}

// TestDetectNoRecordWhenNotBetter verifies equal and lower values leave the
// series untouched.
func TestDetectNoRecordWhenNotBetter(t *testing.T) {
	store := newMemStore()
	d := NewDetector(store, metrics.NewTestManager(), 0, discardLogger())
	ctx := context.Background()

	if _, err := d.Detect(ctx, benchPost("u1", 100, 5, 1)); err != nil {
		t.Fatal(err)
	}
	for _, w := range []float64{100, 95} {
		got, err := d.Detect(ctx, benchPost("u1", w, 5, 2))
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 0 {
			t.Errorf("weight %v created %d records, want 0", w, len(got))
		}
	}
}

// TestDetectReadFailureSkipsOnlyThatCandidate verifies a failing lookup
// creates no record for its key while the other comparisons proceed.
func TestDetectReadFailureSkipsOnlyThatCandidate(t *testing.T) {
	store := newMemStore()
	failing := models.PRKey{UserID: "u1", ExerciseName: "ベンチプレス", Type: models.PRTypeE1RM}
	store.failReads[failing.String()] = true

	m, reg := metrics.NewTestManagerAndRegistry()
	d := NewDetector(store, m, 0, discardLogger())

	got, err := d.Detect(context.Background(), benchPost("u1", 100, 5, 1))
	if err == nil {
		t.Fatal("expected the read failure to be reported")
	}
	if findRecord(got, models.PRTypeE1RM) != nil {
		t.Error("e1RM record created despite read failure")
	}
	if store.count(failing) != 0 {
		t.Error("e1RM record persisted despite read failure")
	}
	if len(got) != 3 {
		t.Errorf("got %d records, want the 3 unaffected ones", len(got))
	}
	if n, _ := testutil.GatherAndCount(reg, "musclegram_test_pr_comparisons_skipped"); n != 1 {
		t.Errorf("skipped series = %d, want 1", n)
	}
}

// TestDetectConcurrentPostsSameKey verifies that racing posts with the same
// value produce exactly one record for the key.
func TestDetectConcurrentPostsSameKey(t *testing.T) {
	store := newMemStore()
	d := NewDetector(store, metrics.NewTestManager(), 0, discardLogger())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Detect(ctx, benchPost("u1", 100, 5, 1)); err != nil {
				t.Errorf("Detect: %v", err)
			}
		}()
	}
	wg.Wait()

	key := models.PRKey{UserID: "u1", ExerciseName: "ベンチプレス", Type: models.PRTypeE1RM}
	if n := store.count(key); n != 1 {
		t.Errorf("stored %d records for %s, want 1", n, key)
	}
}

// TestDetectUsesRecordDate verifies backfilled posts date their records by
// the training date.
func TestDetectUsesRecordDate(t *testing.T) {
	store := newMemStore()
	d := NewDetector(store, metrics.NewTestManager(), 0, discardLogger())

	post := benchPost("u1", 80, 3, 10)
	trained := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
	post.RecordDate = &trained

	got, err := d.Detect(context.Background(), post)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range got {
		if !r.Date.Equal(trained) {
			t.Errorf("%s date = %v, want %v", r.PRType, r.Date, trained)
		}
	}
}

// TestEvaluate covers the creation rule directly.
func TestEvaluate(t *testing.T) {
	c := Candidate{ExerciseName: "X", Type: models.PRType5RM, Value: 105, WeightKg: 105, Reps: 5}
	date := time.Now()

	if _, ok := Evaluate("u", c, &models.PRRecord{Value: 105}, date, nil); ok {
		t.Error("equal value must not create a record")
	}
	if _, ok := Evaluate("u", Candidate{Type: models.PRTypeE1RM}, nil, date, nil); ok {
		t.Error("zero value must not create a record")
	}

	rec, ok := Evaluate("u", c, &models.PRRecord{Value: 100}, date, nil)
	if !ok {
		t.Fatal("expected a record")
	}
	if *rec.Improvement != 5 {
		t.Errorf("Improvement = %v, want 5", *rec.Improvement)
	}
	if rec.WeightKg == nil || *rec.WeightKg != 105 || rec.Reps == nil || *rec.Reps != 5 {
		t.Errorf("set = %v x %v, want 105 x 5", rec.WeightKg, rec.Reps)
	}
	if rec.WorkoutID != nil {
		t.Error("WorkoutID should be nil when not supplied")
	}
}
