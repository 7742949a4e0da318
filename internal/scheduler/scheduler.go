package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler repeats a relay run on a fixed interval when the process is
// started in loop mode. The normal deployment is one-shot and never
// constructs one of these. The first run fires immediately on Start.
type Scheduler struct {
	interval time.Duration
	runFn    func(context.Context) error

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(interval time.Duration, runFn func(context.Context) error) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("interval must be > 0")
	}
	if runFn == nil {
		return nil, errors.New("runFn must not be nil")
	}
	return &Scheduler{
		interval: interval,
		runFn:    runFn,
		done:     make(chan struct{}),
	}, nil
}

func (s *Scheduler) Start() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running.Store(true)

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		slog.Info("scheduler started", "interval", s.interval.String())

		s.safeRun(ctx)

		for {
			select {
			case <-ctx.Done():
				slog.Info("scheduler stopping")
				return
			case <-ticker.C:
				s.safeRun(ctx)
			}
		}
	}()

	return true
}

func (s *Scheduler) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return false
	}

	s.cancel()
	<-s.done
	s.running.Store(false)

	slog.Info("scheduler stopped")
	return true
}

func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// safeRun contains panics and failures of a single run so a bad tick
// never takes the loop down.
func (s *Scheduler) safeRun(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scheduled run panic recovered", "panic", r)
		}
	}()

	start := time.Now()
	if err := s.runFn(ctx); err != nil {
		slog.Error("scheduled run failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	slog.Info("scheduled run completed", "duration_ms", time.Since(start).Milliseconds())
}
