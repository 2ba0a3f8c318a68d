package usecase

import (
	"context"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"
	"cutoff-alert-service/pkg/logger"
	"cutoff-alert-service/pkg/metrics"

	"github.com/google/uuid"
)

// EscalationEngine runs deadline sweeps: fetch, classify, dispatch, latch
type EscalationEngine struct {
	deadlineRepo     repository.DeadlineRepository
	dispatcher       *AlertDispatcher
	logger           logger.Logger
	metrics          *metrics.Metrics
	operationTimeout time.Duration
	now              func() time.Time
}

// NewEscalationEngine creates a new escalation engine. operationTimeout bounds
// every store and dispatch call made during a sweep.
func NewEscalationEngine(
	deadlineRepo repository.DeadlineRepository,
	dispatcher *AlertDispatcher,
	logger logger.Logger,
	metrics *metrics.Metrics,
	operationTimeout time.Duration,
) *EscalationEngine {
	return &EscalationEngine{
		deadlineRepo:     deadlineRepo,
		dispatcher:       dispatcher,
		logger:           logger,
		metrics:          metrics,
		operationTimeout: operationTimeout,
		now:              time.Now,
	}
}

// WithClock replaces the wall clock, used by tests
func (e *EscalationEngine) WithClock(now func() time.Time) *EscalationEngine {
	e.now = now
	return e
}

// Sweep runs one complete pass over all monitored deadlines. It never returns
// an error: a fetch failure is reported in the result and per-record failures
// are collected as outcomes.
func (e *EscalationEngine) Sweep(ctx context.Context) *entity.SweepResult {
	result := &entity.SweepResult{
		ID:        uuid.NewString(),
		StartedAt: e.now(),
	}
	log := e.logger.With("sweepId", result.ID)

	records, err := e.fetch(ctx)
	if err != nil {
		log.Error("Failed to fetch pending deadlines", "error", err)
		result.Error = err.Error()
		e.finish(log, result, "fetch_failed")
		return result
	}

	if len(records) == 0 {
		log.Info("No pending deadlines to check")
		e.finish(log, result, "noop")
		return result
	}

	for _, record := range records {
		if ctx.Err() != nil {
			log.Warn("Sweep interrupted", "error", ctx.Err(), "remaining", len(records)-result.Scanned)
			result.Interrupted = true
			break
		}
		result.Scanned++
		result.Record(e.processRecord(ctx, log, record))
	}

	e.finish(log, result, "ok")
	return result
}

func (e *EscalationEngine) fetch(ctx context.Context) ([]*entity.BookingDeadline, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, e.operationTimeout)
	defer cancel()

	records, err := e.deadlineRepo.FetchPendingDeadlines(fetchCtx)
	if err != nil {
		return nil, err
	}

	eligible := make([]*entity.BookingDeadline, 0, len(records))
	for _, r := range records {
		if r.IsMonitored() {
			eligible = append(eligible, r)
		}
	}
	return eligible, nil
}

// processRecord handles one record. The latch is written only after a successful dispatch.
func (e *EscalationEngine) processRecord(ctx context.Context, log logger.Logger, record *entity.BookingDeadline) entity.RecordOutcome {
	now := e.now()
	c := Classify(now, record.CutOffs, record.Latches)

	outcome := entity.RecordOutcome{
		DeadlineID: record.ID,
		BookingID:  record.BookingID,
		Tier:       c.Tier,
		Outcome:    entity.OutcomeSkipped,
	}
	if c.Tier == entity.TierNone {
		return outcome
	}

	alert := e.dispatcher.BuildAlert(record, c, now)

	dispatchCtx, cancel := context.WithTimeout(ctx, e.operationTimeout)
	err := e.dispatcher.Dispatch(dispatchCtx, alert)
	cancel()
	if err != nil {
		log.Error("Failed to dispatch deadline alert",
			"deadlineId", record.ID,
			"bookingId", record.BookingID,
			"tier", c.Tier,
			"error", err)
		e.metrics.IncFailure("dispatch")
		outcome.Outcome = entity.OutcomeDispatchFailed
		outcome.Error = err.Error()
		return outcome
	}

	// The alert is out; shutdown must not stop the latch from recording it.
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.operationTimeout)
	err = e.deadlineRepo.SetLatch(writeCtx, record.ID, c.Tier, now)
	cancel()
	if err != nil {
		// The alert went out but the latch did not stick; the next sweep may repeat it.
		log.Error("Failed to persist alert latch",
			"deadlineId", record.ID,
			"bookingId", record.BookingID,
			"tier", c.Tier,
			"error", err)
		e.metrics.IncFailure("latch_write")
		outcome.Outcome = entity.OutcomeWriteFailed
		outcome.Error = err.Error()
		return outcome
	}

	record.Latches = record.Latches.Set(c.Tier)
	record.UpdatedAt = now
	e.metrics.IncAlert(c.Tier.String())

	log.Info("Deadline alert sent",
		"deadlineId", record.ID,
		"bookingId", record.BookingID,
		"tier", c.Tier,
		"cutOff", c.CutOffType,
		"hoursUntil", c.HoursUntil)

	outcome.Outcome = entity.OutcomeFired
	return outcome
}

func (e *EscalationEngine) finish(log logger.Logger, result *entity.SweepResult, status string) {
	result.FinishedAt = e.now()
	e.metrics.ObserveSweep(status, result.Duration().Seconds())

	log.Info("Deadline sweep completed",
		"status", status,
		"scanned", result.Scanned,
		"fired", result.Fired,
		"failed", result.Failed,
		"skipped", result.Skipped,
		"duration", result.Duration())
}
