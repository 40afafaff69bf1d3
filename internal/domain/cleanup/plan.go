// Package cleanup contains the deletion-eligibility rules and the
// confirmation protocol that guards destructive inventory operations.
package cleanup

import (
	"sort"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

// Plan is the approved unit of work for a deletion run. It is derived once
// from a snapshot of the project list and never mutated; a stale plan is
// recomputed, not patched.
type Plan struct {
	Cutoff    time.Time
	Projects  []inventory.Project
	IssueRefs []string
}

// EligibleProjects returns the projects whose monitored date falls on or
// before the cutoff, sorted by name. Projects that were never monitored
// carry no staleness signal and are never eligible.
func EligibleProjects(projects []inventory.Project, cutoff time.Time) []inventory.Project {
	cutoffDay := inventory.DateOf(cutoff)

	var eligible []inventory.Project
	for _, p := range projects {
		if p.MonitoredAt == nil {
			continue
		}
		if !inventory.DateOf(*p.MonitoredAt).After(cutoffDay) {
			eligible = append(eligible, p)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Name < eligible[j].Name
	})
	return eligible
}

// NewPlan assembles the immutable plan from the eligible projects and the
// issue references fetched for them. IssueRefs is the deduplicated union of
// ticket ids across all eligible projects, sorted for stable output.
func NewPlan(cutoff time.Time, eligible []inventory.Project, refsByProject map[string][]inventory.IssueRef) *Plan {
	seen := make(map[string]struct{})
	var refs []string
	for _, p := range eligible {
		for _, ref := range refsByProject[p.ID] {
			if _, ok := seen[ref.ID]; ok {
				continue
			}
			seen[ref.ID] = struct{}{}
			refs = append(refs, ref.ID)
		}
	}
	sort.Strings(refs)

	return &Plan{
		Cutoff:    inventory.DateOf(cutoff),
		Projects:  eligible,
		IssueRefs: refs,
	}
}

// Empty reports whether the plan contains no work.
func (p *Plan) Empty() bool {
	return len(p.Projects) == 0
}
