package triage

import (
	"fmt"
	"strings"
)

// Report accumulates per-outcome counters for one run. It is owned by the
// run loop and never shared.
type Report struct {
	RunID  string
	DryRun bool

	Processed int
	Closed    int
	Reminded  int
	Migrated  int
	Skipped   int
	Failed    int
}

// Record counts one issue. Every issue increments Processed and exactly one
// outcome counter. A migration skipped for a missing category counts as
// skipped; partially applied actions count as failed.
func (r *Report) Record(res Result) {
	r.Processed++

	switch res.Outcome {
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeClosed:
		r.Closed++
	case OutcomeReminded:
		r.Reminded++
	case OutcomeMarkedForDiscussion, OutcomeMigrated:
		r.Migrated++
	default:
		r.Failed++
	}
}

// Summary renders the counters as the multi-line block printed at the end of a run.
func (r *Report) Summary() string {
	var b strings.Builder
	b.WriteString("=== Backlog cleanup summary ===\n")
	if r.DryRun {
		b.WriteString("Mode: dry run (no changes were made)\n")
	}
	fmt.Fprintf(&b, "Total issues processed: %d\n", r.Processed)
	fmt.Fprintf(&b, "Total issues closed: %d\n", r.Closed)
	fmt.Fprintf(&b, "Total reminders sent: %d\n", r.Reminded)
	fmt.Fprintf(&b, "Total marked to migrate to discussions: %d\n", r.Migrated)
	fmt.Fprintf(&b, "Total skipped: %d\n", r.Skipped)
	fmt.Fprintf(&b, "Total failed: %d", r.Failed)
	return b.String()
}
