package cleanup

import (
	"testing"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

func TestOrphanTargets(t *testing.T) {
	now := time.Now()
	targets := []inventory.Target{
		{ID: "t1", DisplayName: "org/repo-b", CreatedAt: now},
		{ID: "t2", DisplayName: "org/repo-a", CreatedAt: now},
		{ID: "t3", DisplayName: "org/repo-c", CreatedAt: now},
	}
	projects := []inventory.Project{
		{ID: "p1", TargetRelationshipID: "T1"}, // case differs, still referenced
		{ID: "p2"},                             // no target relationship
	}

	orphans := OrphanTargets(targets, projects)
	if len(orphans) != 2 {
		t.Fatalf("expected 2 orphans, got %d", len(orphans))
	}
	// Deterministic order by display name.
	if orphans[0].ID != "t2" || orphans[1].ID != "t3" {
		t.Errorf("unexpected orphan order: %s, %s", orphans[0].ID, orphans[1].ID)
	}
}

func TestOrphanTargetsAllReferenced(t *testing.T) {
	targets := []inventory.Target{{ID: "t1"}, {ID: "t2"}}
	projects := []inventory.Project{
		{ID: "p1", TargetRelationshipID: "t1"},
		{ID: "p2", TargetRelationshipID: "t2"},
	}
	if got := OrphanTargets(targets, projects); len(got) != 0 {
		t.Fatalf("expected no orphans, got %d", len(got))
	}
}

func TestOrphanTargetsNoProjects(t *testing.T) {
	targets := []inventory.Target{{ID: "t1", DisplayName: "a"}}
	orphans := OrphanTargets(targets, nil)
	if len(orphans) != 1 {
		t.Fatalf("every target is an orphan when no projects exist, got %d", len(orphans))
	}
}
