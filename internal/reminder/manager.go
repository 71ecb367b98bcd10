// Package reminder periodically tells users which exercises are overdue or
// due soon.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/HIkaru827/musclegram/internal/metrics"
	"github.com/HIkaru827/musclegram/internal/models"
	"github.com/robfig/cron"
)

var (
	// ErrAlreadyRunning is returned by Start on a running manager.
	ErrAlreadyRunning = errors.New("reminder manager already running")
	// ErrNotRunning is returned by Stop on a manager that is not running.
	ErrNotRunning = errors.New("reminder manager not running")
)

// Users lists the users that have training analytics.
type Users interface {
	ListUsersWithAnalytics(ctx context.Context) ([]string, error)
}

// Recommender returns a user's next-session recommendations, most urgent
// first.
type Recommender interface {
	Recommendations(ctx context.Context, userID string) ([]models.NextRecommendation, error)
}

// Notifier delivers reminders to a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, due []models.NextRecommendation) error
}

// Manager runs reminder sweeps on a cron schedule. The zero value is not
// usable; build one with New.
type Manager struct {
	users    Users
	recs     Recommender
	notifier Notifier
	schedule string
	metrics  *metrics.Manager
	log      *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	ctx     context.Context
	running bool
	wg      sync.WaitGroup
}

// New creates a stopped Manager. schedule is a six-field cron spec
// (seconds first) or a descriptor such as "@daily".
func New(users Users, recs Recommender, notifier Notifier, schedule string, m *metrics.Manager, log *slog.Logger) *Manager {
	return &Manager{
		users:    users,
		recs:     recs,
		notifier: notifier,
		schedule: schedule,
		metrics:  m,
		log:      log,
	}
}

// Start schedules the sweeps.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return ErrAlreadyRunning
	}

	c := cron.New()
	if err := c.AddFunc(m.schedule, m.tick); err != nil {
		return fmt.Errorf("scheduling reminders %q: %w", m.schedule, err)
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.cron = c
	m.running = true
	c.Start()

	m.log.Info("reminders scheduled", "schedule", m.schedule)
	return nil
}

// Stop unschedules the sweeps and waits for one in flight to return.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return ErrNotRunning
	}
	m.running = false
	m.cron.Stop()
	m.cancel()
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info("reminders stopped")
	return nil
}

// Running reports whether sweeps are scheduled.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Manager) tick() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	ctx := m.ctx
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	n, err := m.RunOnce(ctx)
	if err != nil {
		m.log.Warn("reminder sweep incomplete", "notified", n, "error", err)
		return
	}
	m.log.Info("reminder sweep done", "notified", n)
}

// RunOnce sends one round of reminders and returns how many users were
// notified. A failure for one user does not stop the others.
func (m *Manager) RunOnce(ctx context.Context) (int, error) {
	users, err := m.users.ListUsersWithAnalytics(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing users: %w", err)
	}

	var errs []error
	notified := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		recs, err := m.recs.Recommendations(ctx, user)
		if err != nil {
			errs = append(errs, fmt.Errorf("recommendations for %s: %w", user, err))
			continue
		}
		due := Due(recs)
		if len(due) == 0 {
			continue
		}
		if err := m.notifier.Notify(ctx, user, due); err != nil {
			errs = append(errs, fmt.Errorf("notifying %s: %w", user, err))
			continue
		}
		notified++
		for _, r := range due {
			m.metrics.ReminderSent(string(r.Status))
		}
	}
	return notified, errors.Join(errs...)
}

// Due keeps the recommendations worth a reminder.
func Due(recs []models.NextRecommendation) []models.NextRecommendation {
	var out []models.NextRecommendation
	for _, r := range recs {
		if r.Status == models.StatusOverdue || r.Status == models.StatusDueSoon {
			out = append(out, r)
		}
	}
	return out
}
