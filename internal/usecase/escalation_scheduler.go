package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/pkg/logger"
	"cutoff-alert-service/pkg/metrics"
)

// ErrSweepInProgress is returned by Trigger when another sweep is running
var ErrSweepInProgress = errors.New("deadline sweep already in progress")

// Sweeper runs one deadline sweep
type Sweeper interface {
	Sweep(ctx context.Context) *entity.SweepResult
}

// EscalationScheduler owns the sweep cadence and guarantees that at most one
// sweep runs at a time. A periodic tick that finds a sweep running is dropped;
// a manual trigger is rejected with ErrSweepInProgress.
type EscalationScheduler struct {
	sweeper  Sweeper
	interval time.Duration
	logger   logger.Logger
	metrics  *metrics.Metrics

	running atomic.Bool

	mu         sync.RWMutex
	lastResult *entity.SweepResult
}

// NewEscalationScheduler creates a new scheduler
func NewEscalationScheduler(sweeper Sweeper, interval time.Duration, logger logger.Logger, metrics *metrics.Metrics) *EscalationScheduler {
	return &EscalationScheduler{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start sweeps once immediately, then on every interval until ctx is cancelled
func (s *EscalationScheduler) Start(ctx context.Context) {
	s.logger.Info("Deadline scheduler started", "interval", s.interval)
	s.runPeriodic(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Deadline scheduler stopped")
			return
		case <-ticker.C:
			s.runPeriodic(ctx)
		}
	}
}

// Trigger runs a sweep synchronously on behalf of an operator
func (s *EscalationScheduler) Trigger(ctx context.Context) (*entity.SweepResult, error) {
	result, ok := s.runExclusive(ctx)
	if !ok {
		s.logger.Warn("Manual sweep rejected, sweep already running")
		return nil, ErrSweepInProgress
	}
	return result, nil
}

// Running reports whether a sweep is in flight
func (s *EscalationScheduler) Running() bool {
	return s.running.Load()
}

// LastResult returns the most recent completed sweep, or nil before the first one
func (s *EscalationScheduler) LastResult() *entity.SweepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastResult
}

func (s *EscalationScheduler) runPeriodic(ctx context.Context) {
	if _, ok := s.runExclusive(ctx); !ok {
		s.logger.Warn("Skipping scheduled sweep, previous sweep still running")
	}
}

func (s *EscalationScheduler) runExclusive(ctx context.Context) (*entity.SweepResult, bool) {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.IncRejected()
		return nil, false
	}
	defer s.running.Store(false)

	result := s.sweeper.Sweep(ctx)

	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()

	return result, true
}
