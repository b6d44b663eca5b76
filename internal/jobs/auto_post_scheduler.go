// Package jobs holds the background work the server runs on its own.
package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/SscSPs/coop_payroll_app/internal/middleware"
)

// AutoPoster is the slice of the payroll service the scheduler drives.
type AutoPoster interface {
	AutoPostIfDue(ctx context.Context, now time.Time) (*domain.AutoPostResult, error)
}

// AutoPostScheduler calls AutoPostIfDue on every tick. AutoPostIfDue is
// idempotent, so the interval only bounds how late a due period is posted.
type AutoPostScheduler struct {
	poster   AutoPoster
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAutoPostScheduler creates a scheduler. A non-positive interval falls back to one hour.
func NewAutoPostScheduler(poster AutoPoster, logger *slog.Logger, interval time.Duration) *AutoPostScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoPostScheduler{
		poster:   poster,
		logger:   logger.With(slog.String("job", "auto_post")),
		interval: interval,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs one check immediately and then one per interval until ctx is
// cancelled or Stop is called. Starting a running scheduler is a no-op.
func (s *AutoPostScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("Auto-post scheduler started", slog.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for an in-flight check to finish.
func (s *AutoPostScheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.logger.Info("Auto-post scheduler stopped")
}

func (s *AutoPostScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			s.RunOnce(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce performs a single auto-post check. Failures are logged; the next
// tick retries.
func (s *AutoPostScheduler) RunOnce(ctx context.Context) {
	ctx = middleware.WithLogger(ctx, s.logger)

	result, err := s.poster.AutoPostIfDue(ctx, s.now())
	if err != nil {
		s.logger.Error("Auto-post check failed", slog.String("error", err.Error()))
		return
	}
	if result.Posted {
		s.logger.Info("Auto-post posted cycle",
			slog.String("period", result.Period),
			slog.String("cycle_id", result.CycleID))
		return
	}
	s.logger.Debug("Auto-post check done",
		slog.String("period", result.Period),
		slog.Bool("due", result.Due))
}
