package cli

import (
	"fmt"
	"io"
	"time"

	"cutoff-alert-service/internal/domain/entity"

	"github.com/fatih/color"
)

func outcomeColor(o entity.Outcome) *color.Color {
	switch o {
	case entity.OutcomeFired:
		return color.New(color.FgGreen)
	case entity.OutcomeDispatchFailed, entity.OutcomeWriteFailed:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

func priorityColor(p entity.Priority) *color.Color {
	switch p {
	case entity.PriorityCritical:
		return color.New(color.FgRed, color.Bold)
	case entity.PriorityHigh:
		return color.New(color.FgRed)
	case entity.PriorityMedium:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgBlue)
	}
}

func renderSweep(w io.Writer, r *entity.SweepResult) {
	fmt.Fprintf(w, "Sweep %s (%s)\n", r.ID, r.Duration().Round(time.Millisecond))
	if r.Error != "" {
		fmt.Fprintf(w, "  %s %s\n", color.New(color.FgRed).Sprint("FAILED"), r.Error)
		return
	}

	fmt.Fprintf(w, "  scanned: %d  fired: %s  failed: %s  skipped: %d\n",
		r.Scanned,
		color.New(color.FgGreen).Sprint(r.Fired),
		color.New(color.FgRed).Sprint(r.Failed),
		r.Skipped)
	if r.Interrupted {
		fmt.Fprintf(w, "  %s remaining records are checked by the next sweep\n", color.New(color.FgYellow).Sprint("INTERRUPTED"))
	}

	for _, o := range r.Outcomes {
		line := fmt.Sprintf("  %-16s %-6s booking=%s deadline=%s",
			outcomeColor(o.Outcome).Sprint(o.Outcome), o.Tier, o.BookingID, o.DeadlineID)
		if o.Error != "" {
			line += " error=" + o.Error
		}
		fmt.Fprintln(w, line)
	}
}

func renderStatus(w io.Writer, running bool, last *entity.SweepResult) {
	state := color.New(color.FgBlue).Sprint("idle")
	if running {
		state = color.New(color.FgGreen).Sprint("sweeping")
	}
	fmt.Fprintf(w, "Scheduler: %s\n", state)

	if last == nil {
		fmt.Fprintln(w, "No sweep has completed yet.")
		return
	}
	fmt.Fprintf(w, "Last sweep finished %s\n", last.FinishedAt.Format(time.RFC3339))
	renderSweep(w, last)
}

func renderInbox(w io.Writer, userID string, notifications []*entity.Notification) {
	if len(notifications) == 0 {
		fmt.Fprintf(w, "No notifications for %s\n", userID)
		return
	}
	for _, n := range notifications {
		read := " "
		if n.IsRead {
			read = "✓"
		}
		fmt.Fprintf(w, "%s %s %s\n", read, priorityColor(n.Priority).Sprintf("%-8s", n.Priority), n.Title)
		fmt.Fprintf(w, "    %s\n", n.Message)
		fmt.Fprintf(w, "    %s → %s\n", n.ActionLabel, n.ActionURL)
	}
}
