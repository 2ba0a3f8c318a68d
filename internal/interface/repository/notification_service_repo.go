package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/pkg/logger"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// HTTPNotificationRepository delivers alerts through a remote notification
// service, which persists and fans them out itself.
type HTTPNotificationRepository struct {
	logger  logger.Logger
	baseURL string
	client  *http.Client
}

// ServiceAuth selects how requests to the notification service are authorized.
// Client credentials win over a static bearer token; neither means no auth.
type ServiceAuth struct {
	BearerToken  string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// NewHTTPNotificationRepository creates a new notification service client
func NewHTTPNotificationRepository(baseURL string, auth ServiceAuth, timeout time.Duration, logger logger.Logger) *HTTPNotificationRepository {
	return &HTTPNotificationRepository{
		logger:  logger,
		baseURL: baseURL,
		client:  auth.httpClient(timeout),
	}
}

func (a ServiceAuth) httpClient(timeout time.Duration) *http.Client {
	// Token requests share the same timeout as notification requests
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, &http.Client{Timeout: timeout})

	var client *http.Client
	switch {
	case a.ClientID != "":
		cfg := clientcredentials.Config{
			ClientID:     a.ClientID,
			ClientSecret: a.ClientSecret,
			TokenURL:     a.TokenURL,
			Scopes:       a.Scopes,
		}
		client = cfg.Client(ctx)
	case a.BearerToken != "":
		client = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: a.BearerToken}))
	default:
		client = &http.Client{}
	}
	client.Timeout = timeout
	return client
}

// sendNotificationRequest is the notification service request body
type sendNotificationRequest struct {
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityId"`
	ActionURL   string `json:"actionUrl"`
	ActionLabel string `json:"actionLabel"`
}

// Send posts the alert to the notification service
func (r *HTTPNotificationRepository) Send(ctx context.Context, alert *entity.Alert) error {
	body := sendNotificationRequest{
		UserID:      alert.RecipientID,
		Type:        entity.NotificationTypeDeadline,
		Priority:    string(alert.Priority),
		Title:       alert.Title,
		Message:     alert.Message,
		EntityType:  "booking",
		EntityID:    alert.BookingID,
		ActionURL:   alert.ActionURL,
		ActionLabel: alert.ActionLabel,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/notifications", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("notification service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			ID string `json:"id"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success {
		return fmt.Errorf("notification rejected: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	r.logger.Info("Notification created",
		"notificationId", response.Data.ID,
		"userId", alert.RecipientID,
		"bookingId", alert.BookingID,
		"tier", alert.Tier)

	return nil
}
