package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"cutoff-alert-service/internal/domain/entity"

	"github.com/segmentio/kafka-go"
)

// ErrPublisherClosed is returned when publishing after Close
var ErrPublisherClosed = errors.New("publisher is closed")

// Message headers
const (
	HeaderNotificationID = "notification-id"
	HeaderPriority       = "priority"
	HeaderType           = "type"
	HeaderOriginalTopic  = "original-topic"
)

// messageWriter is the subset of *kafka.Writer the publisher needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaNotificationPublisher fans notifications out to the real-time
// channel keyed by the recipient's room.
type KafkaNotificationPublisher struct {
	writer    messageWriter
	dlqWriter messageWriter
	topic     string
	closed    bool
	mu        sync.RWMutex
}

// NewKafkaNotificationPublisher creates a publisher. dlqWriter may be nil.
func NewKafkaNotificationPublisher(writer, dlqWriter messageWriter, topic string) *KafkaNotificationPublisher {
	return &KafkaNotificationPublisher{
		writer:    writer,
		dlqWriter: dlqWriter,
		topic:     topic,
	}
}

// Publish writes the notification to the alert topic
func (p *KafkaNotificationPublisher) Publish(ctx context.Context, notification *entity.Notification) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	value, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(notification.RoomKey()),
		Value: value,
		Time:  notification.CreatedAt,
		Headers: []kafka.Header{
			{Key: HeaderNotificationID, Value: []byte(notification.ID)},
			{Key: HeaderPriority, Value: []byte(notification.Priority)},
			{Key: HeaderType, Value: []byte(notification.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		if p.dlqWriter != nil {
			if dlqErr := p.sendToDLQ(ctx, msg, err); dlqErr != nil {
				return fmt.Errorf("failed to send to DLQ: %v (original error: %w)", dlqErr, err)
			}
		}
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

func (p *KafkaNotificationPublisher) sendToDLQ(ctx context.Context, msg kafka.Message, originalErr error) error {
	msg.Time = time.Now()
	msg.Headers = append(msg.Headers,
		kafka.Header{Key: HeaderOriginalTopic, Value: []byte(p.topic)},
		kafka.Header{Key: "dlq-error", Value: []byte(originalErr.Error())},
		kafka.Header{Key: "dlq-timestamp", Value: []byte(msg.Time.Format(time.RFC3339))},
	)
	return p.dlqWriter.WriteMessages(ctx, msg)
}

// Close closes the publisher and its writers
func (p *KafkaNotificationPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	err := p.writer.Close()
	if p.dlqWriter != nil {
		if dlqErr := p.dlqWriter.Close(); err == nil {
			err = dlqErr
		}
	}
	return err
}
