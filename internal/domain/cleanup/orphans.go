package cleanup

import (
	"sort"

	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

// OrphanTargets returns the targets whose id is referenced by no current
// project, sorted by display name for deterministic deletion order. The id
// comparison is case-insensitive, matching how org and target ids are
// compared elsewhere.
func OrphanTargets(targets []inventory.Target, projects []inventory.Project) []inventory.Target {
	var orphans []inventory.Target
	for _, target := range targets {
		referenced := false
		for _, p := range projects {
			if p.TargetRelationshipID == "" {
				continue
			}
			if inventory.EqualID(p.TargetRelationshipID, target.ID) {
				referenced = true
				break
			}
		}
		if !referenced {
			orphans = append(orphans, target)
		}
	}

	sort.Slice(orphans, func(i, j int) bool {
		return orphans[i].DisplayName < orphans[j].DisplayName
	})
	return orphans
}
