package usecase

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"cutoff-alert-service/internal/domain/entity"
	"cutoff-alert-service/internal/domain/repository"
	"cutoff-alert-service/templates"

	"github.com/go-playground/validator/v10"
)

// AlertDispatcher turns a classified deadline into an alert and forwards it
// to the notification collaborator. It holds no state between calls.
type AlertDispatcher struct {
	sender             repository.NotificationSender
	baseURL            string
	defaultRecipientID string
	validate           *validator.Validate
}

// NewAlertDispatcher creates a new alert dispatcher. baseURL prefixes the booking deep link.
func NewAlertDispatcher(sender repository.NotificationSender, baseURL, defaultRecipientID string) *AlertDispatcher {
	return &AlertDispatcher{
		sender:             sender,
		baseURL:            baseURL,
		defaultRecipientID: defaultRecipientID,
		validate:           validator.New(),
	}
}

// BuildAlert composes the alert payload for one record
func (d *AlertDispatcher) BuildAlert(record *entity.BookingDeadline, c entity.Classification, now time.Time) *entity.Alert {
	recipient := record.Booking.SalesUserID
	if recipient == "" {
		recipient = d.defaultRecipientID
	}

	return &entity.Alert{
		Tier:        c.Tier,
		Priority:    c.Tier.Priority(),
		Title:       templates.Title(c.Tier, c.CutOffType),
		Message:     templates.Message(c.Tier, c.CutOffType, c.HoursUntil, record.Booking),
		BookingID:   record.BookingID,
		BookingRef:  record.Booking.BookingRef,
		RecipientID: recipient,
		ActionURL:   fmt.Sprintf("%s/bookings/%s", d.baseURL, url.PathEscape(record.BookingID)),
		ActionLabel: templates.ActionLabel(c.Tier),
		CreatedAt:   now,
	}
}

// Dispatch validates the alert and hands it to the sender
func (d *AlertDispatcher) Dispatch(ctx context.Context, alert *entity.Alert) error {
	if err := d.validate.Struct(alert); err != nil {
		return fmt.Errorf("invalid alert: %w", err)
	}
	if err := d.sender.Send(ctx, alert); err != nil {
		return fmt.Errorf("failed to send alert: %w", err)
	}
	return nil
}
