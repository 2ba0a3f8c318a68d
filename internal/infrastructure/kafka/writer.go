package kafka

import (
	"fmt"
	"time"

	"cutoff-alert-service/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"
)

// WriterConfig holds the settings for an alert topic writer
type WriterConfig struct {
	Brokers      []string
	Topic        string
	MaxAttempts  int
	BatchTimeout time.Duration
}

// NewWriter creates a synchronous, key-hashed writer so every user's
// notifications land on the same partition in order.
func NewWriter(cfg WriterConfig, log logger.Logger) (*kafka.Writer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic cannot be empty")
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		Compression:            compress.Snappy,
		MaxAttempts:            cfg.MaxAttempts,
		BatchTimeout:           cfg.BatchTimeout,
		AllowAutoTopicCreation: true,
		Logger:                 kafka.LoggerFunc(func(msg string, args ...any) {}),
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...any) {
			log.Error("Kafka writer error", "topic", cfg.Topic, "detail", fmt.Sprintf(msg, args...))
		}),
	}, nil
}
