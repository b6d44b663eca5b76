package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/coop_payroll_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPoster struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	ran   chan struct{}
}

func (p *countingPoster) AutoPostIfDue(_ context.Context, now time.Time) (*domain.AutoPostResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, now)
	p.mu.Unlock()
	if p.ran != nil {
		select {
		case p.ran <- struct{}{}:
		default:
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	return &domain.AutoPostResult{Period: domain.PeriodOf(now), Due: true, Posted: true, CycleID: "c1"}, nil
}

func (p *countingPoster) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func quietLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestAutoPostScheduler_RunOnceUsesClock(t *testing.T) {
	var buf bytes.Buffer
	poster := &countingPoster{}
	s := NewAutoPostScheduler(poster, quietLogger(&buf), time.Minute)
	fixed := time.Date(2024, 6, 30, 6, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.RunOnce(context.Background())

	require.Equal(t, 1, poster.count())
	assert.Equal(t, fixed, poster.calls[0])
	assert.Contains(t, buf.String(), "Auto-post posted cycle")
	assert.Contains(t, buf.String(), "period=2024-06")
}

func TestAutoPostScheduler_RunOnceLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	poster := &countingPoster{err: errors.New("db down")}
	s := NewAutoPostScheduler(poster, quietLogger(&buf), time.Minute)

	s.RunOnce(context.Background())

	assert.Contains(t, buf.String(), "Auto-post check failed")
	assert.Contains(t, buf.String(), "db down")
}

func TestAutoPostScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	var buf bytes.Buffer
	poster := &countingPoster{ran: make(chan struct{}, 1)}
	s := NewAutoPostScheduler(poster, quietLogger(&buf), time.Hour)

	s.Start(context.Background())
	s.Start(context.Background()) // second start is ignored

	select {
	case <-poster.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run on start")
	}
	s.Stop()
	s.Stop()

	assert.Equal(t, 1, poster.count())
}

func TestAutoPostScheduler_TicksUntilContextCancelled(t *testing.T) {
	var buf bytes.Buffer
	poster := &countingPoster{}
	s := NewAutoPostScheduler(poster, quietLogger(&buf), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return poster.count() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()

	settled := poster.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, poster.count())
}

func TestNewAutoPostScheduler_DefaultInterval(t *testing.T) {
	s := NewAutoPostScheduler(&countingPoster{}, nil, 0)
	assert.Equal(t, time.Hour, s.interval)
}
