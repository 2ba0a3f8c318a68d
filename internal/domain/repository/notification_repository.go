package repository

import (
	"context"

	"cutoff-alert-service/internal/domain/entity"
)

// NotificationSender is the delivery contract for escalation alerts
type NotificationSender interface {
	Send(ctx context.Context, alert *entity.Alert) error
}

// NotificationRepository defines the interface for notification storage operations
type NotificationRepository interface {
	Save(ctx context.Context, notification *entity.Notification) error
	FindByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error)
}

// NotificationPublisher pushes notifications to real-time subscribers
type NotificationPublisher interface {
	Publish(ctx context.Context, notification *entity.Notification) error
}
