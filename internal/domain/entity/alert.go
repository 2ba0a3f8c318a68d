package entity

import "time"

// Alert is the payload handed to the notification collaborator
type Alert struct {
	Tier        EscalationTier `json:"tier" validate:"required,oneof=OVERDUE H6 H12 H24 H48"`
	Priority    Priority       `json:"priority" validate:"required,oneof=CRITICAL HIGH MEDIUM LOW"`
	Title       string         `json:"title" validate:"required"`
	Message     string         `json:"message" validate:"required"`
	BookingID   string         `json:"bookingId" validate:"required"`
	BookingRef  string         `json:"bookingRef"`
	RecipientID string         `json:"recipientId" validate:"required"`
	ActionURL   string         `json:"actionUrl" validate:"required,url"`
	ActionLabel string         `json:"actionLabel" validate:"required"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// Notification is a persisted notification row
type Notification struct {
	ID          string     `json:"id" bson:"_id"`
	UserID      string     `json:"userId" bson:"userId"`
	Type        string     `json:"type" bson:"type"`
	Priority    Priority   `json:"priority" bson:"priority"`
	Title       string     `json:"title" bson:"title"`
	Message     string     `json:"message" bson:"message"`
	EntityType  string     `json:"entityType" bson:"entityType"`
	EntityID    string     `json:"entityId" bson:"entityId"`
	ActionURL   string     `json:"actionUrl" bson:"actionUrl"`
	ActionLabel string     `json:"actionLabel" bson:"actionLabel"`
	IsRead      bool       `json:"isRead" bson:"isRead"`
	ReadAt      *time.Time `json:"readAt,omitempty" bson:"readAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt" bson:"createdAt"`
}

// NotificationTypeDeadline marks notifications produced by deadline escalation
const NotificationTypeDeadline = "booking_deadline"

// NewNotification builds the persisted row for an alert
func NewNotification(id string, alert *Alert) *Notification {
	return &Notification{
		ID:          id,
		UserID:      alert.RecipientID,
		Type:        NotificationTypeDeadline,
		Priority:    alert.Priority,
		Title:       alert.Title,
		Message:     alert.Message,
		EntityType:  "booking",
		EntityID:    alert.BookingID,
		ActionURL:   alert.ActionURL,
		ActionLabel: alert.ActionLabel,
		CreatedAt:   alert.CreatedAt,
	}
}

// RoomKey is the real-time channel a notification is published on
func (n *Notification) RoomKey() string {
	return "user:" + n.UserID
}
