package application

import (
	"context"
	"fmt"

	"github.com/dsamoylenko/snyksweep/internal/domain/audit"
	"github.com/dsamoylenko/snyksweep/internal/domain/cleanup"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

// TargetService detects scan targets no project references anymore and
// offers their removal. Targets carry no linked-ticket risk, so a single
// confirmation and no countdown suffice.
type TargetService struct {
	inv    inventory.Service
	prompt cleanup.Prompter
	out    Presenter
	audit  *AuditService
}

func NewTargetService(inv inventory.Service, prompt cleanup.Prompter, out Presenter, auditSvc *AuditService) *TargetService {
	return &TargetService{inv: inv, prompt: prompt, out: out, audit: auditSvc}
}

// RunAudit re-fetches projects and targets, presents the orphan set and
// deletes it on approval. The fresh fetch is deliberate: a deletion run may
// have just changed the project list.
func (s *TargetService) RunAudit(ctx context.Context, org inventory.Org) error {
	s.out.Printf("\nFetching projects and targets... ")
	projects, err := s.inv.ListProjects(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	s.out.Printf("Got %d projects. ", len(projects))

	targets, err := s.inv.ListTargets(ctx, org.ID, true)
	if err != nil {
		return fmt.Errorf("fetch targets: %w", err)
	}
	s.out.Printf("And %d targets.\n", len(targets))

	orphans := cleanup.OrphanTargets(targets, projects)
	if len(orphans) == 0 {
		s.out.Printf("No empty targets detected.\n")
		return nil
	}

	s.out.Printf("\nEmpty targets detected:\n\n")
	s.out.TargetTable(orphans)

	approved, err := s.prompt.Confirm("Do you want to delete these targets?")
	if err != nil {
		return err
	}
	s.out.Printf("\n")
	if !approved {
		s.out.Printf("Aborted. Nothing was deleted.\n")
		return nil
	}

	width := 0
	for _, t := range orphans {
		if len(t.DisplayName) > width {
			width = len(t.DisplayName)
		}
	}

	var failures []string
	for _, target := range orphans {
		select {
		case <-ctx.Done():
			s.out.Printf("\nInterrupted. Remaining targets were left untouched.\n")
			return nil
		default:
		}

		s.out.DeletionStart(target.DisplayName, width)
		if err := s.inv.DeleteTarget(ctx, org.ID, target.ID); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", target.DisplayName, err))
			s.out.Printf("failed: %v\n", err)
			continue
		}
		s.out.DeletionDone()
		s.warnOnAuditFailure(s.audit.Log(audit.ActionTargetDeleted, org.ID, map[string]any{
			"target_id": target.ID,
			"name":      target.DisplayName,
		}))
	}
	s.out.Printf("\n")

	if len(failures) > 0 {
		return &BatchError{Kind: "target", Failures: failures, Total: len(orphans)}
	}
	return nil
}

func (s *TargetService) warnOnAuditFailure(err error) {
	if err != nil {
		s.out.Printf("warning: audit log: %v\n", err)
	}
}
