package notifier

import (
	"context"
	"fmt"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"
	"cutoff-alert-service/pkg/logger"

	"github.com/google/uuid"
)

// DirectSender stores the notification row itself and then pushes it onto
// the real-time channel. Only the store write decides success; a failed
// publish still leaves the row in the user's inbox.
type DirectSender struct {
	notifications repository.NotificationRepository
	publisher     repository.NotificationPublisher
	logger        logger.Logger
}

// NewDirectSender creates a sender. publisher may be nil when real-time
// fan-out is disabled.
func NewDirectSender(notifications repository.NotificationRepository, publisher repository.NotificationPublisher, logger logger.Logger) *DirectSender {
	return &DirectSender{
		notifications: notifications,
		publisher:     publisher,
		logger:        logger,
	}
}

// Send implements repository.NotificationSender
func (s *DirectSender) Send(ctx context.Context, alert *entity.Alert) error {
	notification := entity.NewNotification(uuid.NewString(), alert)

	if err := s.notifications.Save(ctx, notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	if s.publisher == nil {
		return nil
	}

	if err := s.publisher.Publish(ctx, notification); err != nil {
		s.logger.Warn("Failed to publish notification",
			"notificationId", notification.ID,
			"room", notification.RoomKey(),
			"error", err)
		return nil
	}

	s.logger.Debug("Notification published",
		"notificationId", notification.ID,
		"room", notification.RoomKey())
	return nil
}
