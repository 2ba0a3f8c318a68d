package entity

// EscalationTier is the time bucket a deadline currently falls into
type EscalationTier string

const (
	TierNone    EscalationTier = "NONE"
	TierOverdue EscalationTier = "OVERDUE"
	TierH6      EscalationTier = "H6"
	TierH12     EscalationTier = "H12"
	TierH24     EscalationTier = "H24"
	TierH48     EscalationTier = "H48"
)

// Priority is the notification priority attached to a tier
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// Tiers lists every alertable tier, most urgent first
var Tiers = []EscalationTier{TierOverdue, TierH6, TierH12, TierH24, TierH48}

// Priority returns the tier's priority. NONE has no priority.
func (t EscalationTier) Priority() Priority {
	switch t {
	case TierOverdue, TierH6:
		return PriorityCritical
	case TierH12:
		return PriorityHigh
	case TierH24:
		return PriorityMedium
	case TierH48:
		return PriorityLow
	default:
		return ""
	}
}

// Hours returns the upper bound of the tier window in hours, 0 for OVERDUE and NONE
func (t EscalationTier) Hours() int {
	switch t {
	case TierH6:
		return 6
	case TierH12:
		return 12
	case TierH24:
		return 24
	case TierH48:
		return 48
	default:
		return 0
	}
}

func (t EscalationTier) String() string {
	return string(t)
}

// Classification is the classifier's verdict for one record
type Classification struct {
	Tier       EscalationTier
	CutOffType CutOffType
	HoursUntil float64 // signed; negative once the cut-off has passed
}
