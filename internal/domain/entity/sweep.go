package entity

import "time"

// Outcome of processing one record within a sweep
type Outcome string

const (
	OutcomeSkipped        Outcome = "SKIPPED"
	OutcomeFired          Outcome = "FIRED"
	OutcomeDispatchFailed Outcome = "DISPATCH_FAILED"
	OutcomeWriteFailed    Outcome = "WRITE_FAILED"
)

// RecordOutcome is the tagged result for one deadline record
type RecordOutcome struct {
	DeadlineID string         `json:"deadlineId"`
	BookingID  string         `json:"bookingId"`
	Tier       EscalationTier `json:"tier"`
	Outcome    Outcome        `json:"outcome"`
	Error      string         `json:"error,omitempty"`
}

// SweepResult summarises one pass of the escalation engine. Interrupted is
// set when cancellation stopped the sweep before every record was checked.
type SweepResult struct {
	ID          string          `json:"id"`
	StartedAt   time.Time       `json:"startedAt"`
	FinishedAt  time.Time       `json:"finishedAt"`
	Scanned     int             `json:"scanned"`
	Fired       int             `json:"fired"`
	Failed      int             `json:"failed"`
	Skipped     int             `json:"skipped"`
	Outcomes    []RecordOutcome `json:"outcomes,omitempty"`
	Interrupted bool            `json:"interrupted,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Record updates the counters. Skipped records are counted but not listed.
func (r *SweepResult) Record(o RecordOutcome) {
	switch o.Outcome {
	case OutcomeSkipped:
		r.Skipped++
		return
	case OutcomeFired:
		r.Fired++
	case OutcomeDispatchFailed, OutcomeWriteFailed:
		r.Failed++
	}
	r.Outcomes = append(r.Outcomes, o)
}

// Duration returns how long the sweep took
func (r *SweepResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
