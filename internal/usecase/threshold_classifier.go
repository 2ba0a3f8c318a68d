package usecase

import (
	"time"

	"cutoff-alert-service/internal/domain/entity"
)

// Classify returns the escalation tier for a record at time now.
//
// The tier is chosen against the earliest of the three cut-offs. Windows are
// right-closed: (0,6], (6,12], (12,24], (24,48]; anything already passed is
// OVERDUE. A cut-off at exactly now falls in no window and yields NONE. If the
// latch for the matched tier is already set, the result is NONE as well.
func Classify(now time.Time, cutOffs entity.CutOffs, latches entity.Latches) entity.Classification {
	earliest, kind := cutOffs.Earliest()
	hoursUntil := earliest.Sub(now).Hours()

	result := entity.Classification{
		Tier:       tierFor(hoursUntil),
		CutOffType: kind,
		HoursUntil: hoursUntil,
	}
	if latches.IsSet(result.Tier) {
		result.Tier = entity.TierNone
	}
	return result
}

func tierFor(hoursUntil float64) entity.EscalationTier {
	switch {
	case hoursUntil < 0:
		return entity.TierOverdue
	case hoursUntil > 0 && hoursUntil <= 6:
		return entity.TierH6
	case hoursUntil > 6 && hoursUntil <= 12:
		return entity.TierH12
	case hoursUntil > 12 && hoursUntil <= 24:
		return entity.TierH24
	case hoursUntil > 24 && hoursUntil <= 48:
		return entity.TierH48
	default:
		return entity.TierNone
	}
}
