package notifier

import (
	"context"
	"sync"

	"cutoff-alert-service/internal/domain/entity"

	"github.com/segmentio/kafka-go"
)

type mockWriter struct {
	mu        sync.Mutex
	messages  []kafka.Message
	writeFunc func(ctx context.Context, msgs ...kafka.Message) error
	closed    bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if m.writeFunc != nil {
		if err := m.writeFunc(ctx, msgs...); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

type mockNotificationRepository struct {
	saveFunc func(ctx context.Context, n *entity.Notification) error
	saved    []*entity.Notification
}

func (m *mockNotificationRepository) Save(ctx context.Context, n *entity.Notification) error {
	if m.saveFunc != nil {
		if err := m.saveFunc(ctx, n); err != nil {
			return err
		}
	}
	m.saved = append(m.saved, n)
	return nil
}

func (m *mockNotificationRepository) FindByUser(ctx context.Context, userID string, limit int) ([]*entity.Notification, error) {
	var result []*entity.Notification
	for _, n := range m.saved {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

type mockPublisher struct {
	publishFunc func(ctx context.Context, n *entity.Notification) error
	published   []*entity.Notification
}

func (m *mockPublisher) Publish(ctx context.Context, n *entity.Notification) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, n); err != nil {
			return err
		}
	}
	m.published = append(m.published, n)
	return nil
}
