// internal/domain/entity/booking_deadline.go
package entity

import (
	"time"
)

// Monitoring status
const (
	MonitoringPending  = "PENDING"
	MonitoringResolved = "RESOLVED"
)

// CutOffType identifies one of the three booking cut-offs
type CutOffType string

const (
	CutOffSI  CutOffType = "SI"
	CutOffVGM CutOffType = "VGM"
	CutOffCY  CutOffType = "CY"
)

// Label returns the display name used in alert text
func (c CutOffType) Label() string {
	switch c {
	case CutOffSI:
		return "SI Cut-off"
	case CutOffVGM:
		return "VGM Cut-off"
	case CutOffCY:
		return "CY Cut-off"
	default:
		return "Cut-off"
	}
}

// CutOffs holds the deadline timestamps of a booking
type CutOffs struct {
	SI  time.Time
	VGM time.Time
	CY  time.Time
}

// Earliest returns the soonest cut-off and its type. Ties resolve in SI, VGM, CY order.
func (c CutOffs) Earliest() (time.Time, CutOffType) {
	earliest, kind := c.SI, CutOffSI
	if c.VGM.Before(earliest) {
		earliest, kind = c.VGM, CutOffVGM
	}
	if c.CY.Before(earliest) {
		earliest, kind = c.CY, CutOffCY
	}
	return earliest, kind
}

// Latches records which escalation tiers have already been alerted.
// A latch only ever moves from false to true.
type Latches struct {
	Alerted48h     bool
	Alerted24h     bool
	Alerted12h     bool
	Alerted6h      bool
	AlertedOverdue bool
}

// IsSet reports whether the latch for tier is already set
func (l Latches) IsSet(tier EscalationTier) bool {
	switch tier {
	case TierOverdue:
		return l.AlertedOverdue
	case TierH6:
		return l.Alerted6h
	case TierH12:
		return l.Alerted12h
	case TierH24:
		return l.Alerted24h
	case TierH48:
		return l.Alerted48h
	default:
		return false
	}
}

// Set returns a copy of the latches with the tier's latch set
func (l Latches) Set(tier EscalationTier) Latches {
	switch tier {
	case TierOverdue:
		l.AlertedOverdue = true
	case TierH6:
		l.Alerted6h = true
	case TierH12:
		l.Alerted12h = true
	case TierH24:
		l.Alerted24h = true
	case TierH48:
		l.Alerted48h = true
	}
	return l
}

// BookingContext is the read-only booking data used to compose alert text
type BookingContext struct {
	BookingID    string
	BookingRef   string
	ShipmentType string
	Origin       string
	Destination  string
	Carrier      string // vessel name or flight number
	SalesUserID  string
}

// Route returns "ORIGIN → DESTINATION", or an empty string if unknown
func (b BookingContext) Route() string {
	if b.Origin == "" && b.Destination == "" {
		return ""
	}
	return b.Origin + " → " + b.Destination
}

// BookingDeadline is one monitored deadline record joined with its booking
type BookingDeadline struct {
	ID               string
	BookingID        string
	CutOffs          CutOffs
	MonitoringStatus string
	SalesConfirmed   bool
	Latches          Latches
	Booking          BookingContext
	UpdatedAt        time.Time
}

// IsMonitored reports whether the record is still eligible for sweeps
func (d *BookingDeadline) IsMonitored() bool {
	return d.MonitoringStatus == MonitoringPending && !d.SalesConfirmed
}
