// internal/infrastructure/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Notifier modes
const (
	NotifierDirect = "direct"
	NotifierHTTP   = "http"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	LogLevel   string `validate:"oneof=debug info warn error"`
	AppBaseURL string `validate:"required,url"`

	// Server
	Port         string `validate:"required,numeric"`
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// PostgreSQL
	PostgresURI string `validate:"required"`
	AutoMigrate bool

	// MongoDB
	MongoURI      string `validate:"required_if=NotifierMode direct"`
	MongoDB       string `validate:"required_if=NotifierMode direct"`
	MongoUser     string
	MongoPassword string
	MongoMaxPool  int `validate:"min=0"`

	// Escalation
	SweepInterval      time.Duration `validate:"min=1s"`
	OperationTimeout   time.Duration `validate:"min=1ms"`
	DefaultRecipientID string

	// Notification delivery
	NotifierMode             string `validate:"oneof=direct http"`
	NotificationServiceURL   string `validate:"required_if=NotifierMode http,omitempty,url"`
	NotificationServiceToken string
	NotificationClientID     string
	NotificationClientSecret string `validate:"required_with=NotificationClientID"`
	NotificationTokenURL     string `validate:"required_with=NotificationClientID,omitempty,url"`
	NotificationScopes       []string

	// Kafka
	KafkaBrokers    []string
	KafkaAlertTopic string
	KafkaDLQTopic   string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		LogLevel:   strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AppBaseURL: strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),

		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 90)) * time.Second,

		PostgresURI: getEnv("POSTGRES_DSN", ""),
		AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "freight"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),
		MongoMaxPool:  getEnvAsInt("MONGO_MAX_POOL_SIZE", 20),

		SweepInterval:      getEnvAsDuration("SWEEP_INTERVAL", 5*time.Minute),
		OperationTimeout:   getEnvAsDuration("OPERATION_TIMEOUT", 10*time.Second),
		DefaultRecipientID: getEnv("DEFAULT_RECIPIENT_ID", ""),

		NotifierMode:             strings.ToLower(getEnv("NOTIFIER_MODE", NotifierDirect)),
		NotificationServiceURL:   getEnv("NOTIFICATION_SERVICE_URL", ""),
		NotificationServiceToken: getEnv("NOTIFICATION_SERVICE_TOKEN", ""),
		NotificationClientID:     getEnv("NOTIFICATION_CLIENT_ID", ""),
		NotificationClientSecret: getEnv("NOTIFICATION_CLIENT_SECRET", ""),
		NotificationTokenURL:     getEnv("NOTIFICATION_TOKEN_URL", ""),
		NotificationScopes:       getEnvAsList("NOTIFICATION_SCOPES"),

		KafkaBrokers:    getEnvAsList("KAFKA_BROKERS"),
		KafkaAlertTopic: getEnv("KAFKA_ALERT_TOPIC", "booking-deadline-alerts"),
		KafkaDLQTopic:   getEnv("KAFKA_DLQ_TOPIC", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration and reports every violation at once
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed on '%s' (value: %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

// KafkaEnabled reports whether real-time fan-out is configured
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaAlertTopic != ""
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration accepts Go durations ("5m") or plain seconds ("300")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}
	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
