package repository

import (
	"context"
	"errors"
	"time"

	"cutoff-alert-service/internal/domain/entity"
)

// ErrDeadlineNotFound is returned when a latch update matches no monitored record
var ErrDeadlineNotFound = errors.New("booking deadline not found")

// DeadlineRepository defines the interface for booking deadline operations
type DeadlineRepository interface {
	// FetchPendingDeadlines returns every record with PENDING status that is not sales-confirmed,
	// joined with its booking context.
	FetchPendingDeadlines(ctx context.Context) ([]*entity.BookingDeadline, error)

	// SetLatch sets the latch for tier and stamps updatedAt. No other field is touched.
	SetLatch(ctx context.Context, deadlineID string, tier entity.EscalationTier, at time.Time) error
}
