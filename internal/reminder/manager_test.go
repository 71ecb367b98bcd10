package reminder

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeUsers []string

func (f fakeUsers) ListUsersWithAnalytics(context.Context) ([]string, error) { return f, nil }

type fakeRecs struct {
	byUser map[string][]models.NextRecommendation
	fail   map[string]bool
}

func (f fakeRecs) Recommendations(_ context.Context, user string) ([]models.NextRecommendation, error) {
	if f.fail[user] {
		return nil, errors.New("store unavailable")
	}
	return f.byUser[user], nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[string][]string
}

func (n *recordingNotifier) Notify(_ context.Context, user string, due []models.NextRecommendation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = make(map[string][]string)
	}
	for _, r := range due {
		n.sent[user] = append(n.sent[user], r.ExerciseName)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func rec(name string, status models.TrainingStatus) models.NextRecommendation {
	return models.NextRecommendation{ExerciseName: name, Status: status}
}

// TestRunOnceNotifiesDueExercises verifies only overdue and due-soon
// exercises are sent, and users with nothing due are not notified.
func TestRunOnceNotifiesDueExercises(t *testing.T) {
	recs := fakeRecs{byUser: map[string][]models.NextRecommendation{
		"u1": {rec("スクワット", models.StatusOverdue), rec("ベンチプレス", models.StatusDueSoon), rec("懸垂", models.StatusOnTrack)},
		"u2": {rec("デッドリフト", models.StatusAhead)},
	}}
	n := &recordingNotifier{}
	m, reg := metrics.NewTestManagerAndRegistry()
	mgr := New(fakeUsers{"u1", "u2"}, recs, n, "@daily", m, discardLogger())

	notified, err := mgr.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if notified != 1 {
		t.Errorf("notified = %d, want 1", notified)
	}
	want := map[string][]string{"u1": {"スクワット", "ベンチプレス"}}
	if diff := cmp.Diff(want, n.sent); diff != "" {
		t.Errorf("sent mismatch (-want +got):\n%s", diff)
	}
	if got := testutil.ToFloat64(m.CounterReminders.WithLabelValues("overdue")); got != 1 {
		t.Errorf("overdue reminders = %v, want 1", got)
	}
	if c, _ := testutil.GatherAndCount(reg, "musclegram_test_reminders_sent"); c != 2 {
		t.Errorf("reminder series = %d, want 2", c)
	}
}

// TestRunOnceContinuesPastFailures verifies one user's failure is reported
// without blocking the rest.
func TestRunOnceContinuesPastFailures(t *testing.T) {
	recs := fakeRecs{
		byUser: map[string][]models.NextRecommendation{"u2": {rec("スクワット", models.StatusOverdue)}},
		fail:   map[string]bool{"u1": true},
	}
	n := &recordingNotifier{}
	mgr := New(fakeUsers{"u1", "u2"}, recs, n, "@daily", nil, discardLogger())

	notified, err := mgr.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected an error for u1")
	}
	if notified != 1 || len(n.sent["u2"]) != 1 {
		t.Errorf("notified = %d, sent = %v", notified, n.sent)
	}
}

// TestStartStopTransitions verifies the run-state errors.
func TestStartStopTransitions(t *testing.T) {
	mgr := New(fakeUsers{}, fakeRecs{}, &recordingNotifier{}, "0 0 8 * * *", nil, discardLogger())

	if err := mgr.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop before Start = %v, want ErrNotRunning", err)
	}
	if err := mgr.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !mgr.Running() {
		t.Error("Running() = false after Start")
	}
	if err := mgr.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start = %v, want ErrAlreadyRunning", err)
	}
	if err := mgr.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := mgr.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop = %v, want ErrNotRunning", err)
	}

	// A stopped manager can be started again.
	if err := mgr.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if err := mgr.Stop(); err != nil {
		t.Fatalf("Stop after restart: %v", err)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	mgr := New(fakeUsers{}, fakeRecs{}, &recordingNotifier{}, "not a schedule", nil, discardLogger())
	if err := mgr.Start(); err == nil {
		t.Fatal("expected schedule error")
	}
	if mgr.Running() {
		t.Error("manager running after failed Start")
	}
}

func TestDue(t *testing.T) {
	got := Due([]models.NextRecommendation{
		rec("a", models.StatusAhead),
		rec("b", models.StatusOverdue),
		rec("c", models.StatusOnTrack),
		rec("d", models.StatusDueSoon),
	})
	var names []string
	for _, r := range got {
		names = append(names, r.ExerciseName)
	}
	if diff := cmp.Diff([]string{"b", "d"}, names); diff != "" {
		t.Errorf("Due mismatch (-want +got):\n%s", diff)
	}
}
