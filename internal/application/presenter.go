package application

import (
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

// Presenter renders structured workflow output for human review. The CLI
// provides a styled terminal implementation; tests capture calls.
type Presenter interface {
	Printf(format string, a ...any)

	// OrgList renders the id/slug/name table of all visible orgs.
	OrgList(orgs []inventory.Org)

	// ProjectGroups renders the per-monitored-date grouping. When cutoff is
	// non-nil, groups on or before it are marked for deletion.
	ProjectGroups(buckets []inventory.Bucket, cutoff *time.Time)

	// DeletionWarning prints the irreversibility warning shown before the
	// first confirmation gate.
	DeletionWarning()

	// TicketWarning surfaces the exact set of linked ticket ids that would
	// be orphaned by the deletion.
	TicketWarning(ids []string)

	// TargetTable renders the orphan targets up for removal.
	TargetTable(targets []inventory.Target)

	// DeletionStart, CountdownTick and DeletionDone compose the per-item
	// progress line: name (padded to width), countdown ticks, result mark.
	DeletionStart(name string, width int)
	CountdownTick(remaining int)
	DeletionDone()
}
