package application_test

import (
	"testing"

	"github.com/dsamoylenko/snyksweep/internal/application"
	"github.com/dsamoylenko/snyksweep/internal/domain/audit"
)

func TestAuditServiceChainsEvents(t *testing.T) {
	repo := &memoryAuditRepo{}
	service := application.NewAuditService(repo)

	if err := service.Log(audit.ActionPlanComputed, "org-1", map[string]any{"projects": 2}); err != nil {
		t.Fatal(err)
	}
	if err := service.Log(audit.ActionProjectDeleted, "org-1", map[string]any{"project_id": "p1"}); err != nil {
		t.Fatal(err)
	}

	events, err := service.Timeline()
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].PrevHash != "" {
		t.Error("first event must start the chain")
	}
	if events[1].PrevHash != events[0].Hash {
		t.Error("second event must chain to the first")
	}

	violations, err := service.VerifyIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Errorf("fresh chain should verify clean, got %v", violations)
	}
}

func TestAuditServiceDetectsTampering(t *testing.T) {
	repo := &memoryAuditRepo{}
	service := application.NewAuditService(repo)

	service.Log(audit.ActionProjectDeleted, "org-1", map[string]any{"project_id": "p1"})
	service.Log(audit.ActionProjectDeleted, "org-1", map[string]any{"project_id": "p2"})

	repo.events[0].Metadata["project_id"] = "rewritten"

	violations, err := service.VerifyIntegrity()
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) == 0 {
		t.Fatal("tampered event must be reported")
	}
}
