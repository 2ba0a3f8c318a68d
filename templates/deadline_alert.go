package templates

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cutoff-alert-service/internal/domain/entity"
)

// Title markers per tier
var tierMarkers = map[entity.EscalationTier]string{
	entity.TierOverdue: "🚨",
	entity.TierH6:      "🔴",
	entity.TierH12:     "🟠",
	entity.TierH24:     "🟡",
	entity.TierH48:     "🔵",
}

const (
	OVERDUE_TITLE   = "%s OVERDUE: %s passed"
	UPCOMING_TITLE  = "%s %s: %s in %dh"
	OVERDUE_MESSAGE = "Booking %s missed its %s %s ago.%s Cancel or escalate this booking now."
	UPCOMING_MSG    = "Booking %s has %s left until its %s.%s Please confirm the booking before the cut-off."

	ACTION_ESCALATE = "Cancel / Escalate"
	ACTION_CONFIRM  = "Confirm Booking"
)

// Title composes the alert title for a tier
func Title(tier entity.EscalationTier, cutOff entity.CutOffType) string {
	marker := tierMarkers[tier]
	if tier == entity.TierOverdue {
		return fmt.Sprintf(OVERDUE_TITLE, marker, cutOff.Label())
	}
	return fmt.Sprintf(UPCOMING_TITLE, marker, tier.Priority(), cutOff.Label(), tier.Hours())
}

// Message composes the alert body. hoursUntil is signed; negative when overdue.
func Message(tier entity.EscalationTier, cutOff entity.CutOffType, hoursUntil float64, booking entity.BookingContext) string {
	ref := bookingLabel(booking)
	details := contextLine(booking)

	if tier == entity.TierOverdue {
		return fmt.Sprintf(OVERDUE_MESSAGE, ref, cutOff.Label(), FormatHours(-hoursUntil), details)
	}
	return fmt.Sprintf(UPCOMING_MSG, ref, FormatHours(hoursUntil), cutOff.Label(), details)
}

// ActionLabel returns the call-to-action label for a tier
func ActionLabel(tier entity.EscalationTier) string {
	if tier == entity.TierOverdue {
		return ACTION_ESCALATE
	}
	return ACTION_CONFIRM
}

// FormatHours renders a non-negative hour count as "3h 05m", rounded to the minute
func FormatHours(hours float64) string {
	d := time.Duration(math.Abs(hours) * float64(time.Hour)).Round(time.Minute)
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %02dm", h, m)
}

func bookingLabel(b entity.BookingContext) string {
	if b.BookingRef != "" {
		return b.BookingRef
	}
	return b.BookingID
}

func contextLine(b entity.BookingContext) string {
	var parts []string
	if route := b.Route(); route != "" {
		parts = append(parts, "Route: "+route)
	}
	if b.Carrier != "" {
		parts = append(parts, carrierLabel(b.ShipmentType)+": "+b.Carrier)
	}
	if b.ShipmentType != "" {
		parts = append(parts, "Shipment: "+b.ShipmentType)
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " | ") + "."
}

func carrierLabel(shipmentType string) string {
	if strings.EqualFold(shipmentType, "AIR") {
		return "Flight"
	}
	return "Vessel"
}
