package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/audit"
	"github.com/dsamoylenko/snyksweep/internal/domain/cleanup"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

// DeleteCountdown is the number of one-second ticks before each project
// deletion. The countdown is operator courtesy, a last chance to interrupt,
// not a functional gate.
const DeleteCountdown = 3

// CleanupService drives the project listing and deletion workflows.
type CleanupService struct {
	inv    inventory.Service
	prompt cleanup.Prompter
	out    Presenter
	audit  *AuditService
	tick   time.Duration
}

// CleanupOption customizes a CleanupService.
type CleanupOption func(*CleanupService)

// WithCountdownTick overrides the countdown tick duration. Tests use this
// to avoid real sleeps.
func WithCountdownTick(d time.Duration) CleanupOption {
	return func(s *CleanupService) { s.tick = d }
}

func NewCleanupService(inv inventory.Service, prompt cleanup.Prompter, out Presenter, auditSvc *AuditService, opts ...CleanupOption) *CleanupService {
	s := &CleanupService{
		inv:    inv,
		prompt: prompt,
		out:    out,
		audit:  auditSvc,
		tick:   time.Second,
	}
	for _, fn := range opts {
		fn(s)
	}
	return s
}

// ShowProjects renders the monitored-date grouping for an org and hints at
// the deletion flag.
func (s *CleanupService) ShowProjects(ctx context.Context, org inventory.Org) error {
	s.out.Printf("Working with org: %s (%s)\n\n", org.Slug, org.ID)
	s.out.Printf("Fetching Snyk project info... ")

	projects, err := s.inv.ListProjects(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	s.out.Printf("Got %d projects.\n\n", len(projects))

	s.out.ProjectGroups(inventory.GroupByMonitoredDate(projects), nil)

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	s.out.Printf("\nUse command line parameter '--delete' to delete projects monitored before a certain date. E.g., '--delete %s'\n", yesterday)
	return nil
}

// RunDeletion computes the deletion plan for the cutoff date, runs the
// confirmation protocol and executes the approved plan. Declined gates and
// empty plans are successful no-ops.
func (s *CleanupService) RunDeletion(ctx context.Context, org inventory.Org, cutoff time.Time) error {
	s.out.Printf("Fetching project list... ")
	projects, err := s.inv.ListProjects(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	s.out.Printf("Got %d projects.\n", len(projects))

	s.out.ProjectGroups(inventory.GroupByMonitoredDate(projects), &cutoff)

	eligible := cleanup.EligibleProjects(projects, cutoff)
	if len(eligible) == 0 {
		s.out.Printf("There were no projects monitored on or before %s.\n", cutoff.Format("2006-01-02"))
		return nil
	}

	refsByProject := make(map[string][]inventory.IssueRef)
	for _, p := range eligible {
		grouped, err := s.inv.ListIssueRefs(ctx, org.ID, p.ID)
		if err != nil {
			return fmt.Errorf("fetch issue refs for %s: %w", p.Name, err)
		}
		for _, refs := range grouped {
			refsByProject[p.ID] = append(refsByProject[p.ID], refs...)
		}
	}

	plan := cleanup.NewPlan(cutoff, eligible, refsByProject)
	s.warnOnAuditFailure(s.audit.Log(audit.ActionPlanComputed, org.ID, map[string]any{
		"cutoff":      plan.Cutoff.Format("2006-01-02"),
		"projects":    len(plan.Projects),
		"linked_refs": len(plan.IssueRefs),
	}))

	gate, err := cleanup.NewApprovalGate(len(plan.IssueRefs) > 0)
	if err != nil {
		return err
	}
	if err := gate.Review(); err != nil {
		return err
	}

	s.out.DeletionWarning()
	approved, err := s.prompt.Confirm("Do you want to proceed?")
	if err != nil {
		return err
	}
	if !approved {
		return s.abort(gate, org.ID, "first confirmation declined")
	}
	if err := gate.Approve(); err != nil {
		return err
	}

	if len(plan.IssueRefs) > 0 {
		s.out.TicketWarning(plan.IssueRefs)
		acknowledged, err := s.prompt.Confirm("Are you absolutely sure you want to proceed?")
		if err != nil {
			return err
		}
		if !acknowledged {
			return s.abort(gate, org.ID, "ticket confirmation declined")
		}
		if err := gate.AcknowledgeTickets(); err != nil {
			return err
		}
	}

	if !gate.Ready() {
		return fmt.Errorf("approval gate in unexpected state '%s'", gate.State())
	}

	return s.execute(ctx, org, plan)
}

// execute deletes the planned projects strictly sequentially, each preceded
// by its countdown. A cancellation during a countdown stops the run before
// the next deletion call; a deletion call already issued always finishes.
func (s *CleanupService) execute(ctx context.Context, org inventory.Org, plan *cleanup.Plan) error {
	s.out.Printf("Deleting projects... ")
	s.out.Printf("(press Control+C to interrupt)\n")

	width := 0
	for _, p := range plan.Projects {
		if len(p.Name) > width {
			width = len(p.Name)
		}
	}

	var failures []string
	for _, p := range plan.Projects {
		if err := s.countdown(ctx, p.Name, width); err != nil {
			s.out.Printf("\nInterrupted. Remaining projects were left untouched.\n")
			s.warnOnAuditFailure(s.audit.Log(audit.ActionRunAborted, org.ID, map[string]any{
				"reason": "interrupted during countdown",
			}))
			return nil
		}

		if err := s.inv.DeleteProject(ctx, org.ID, p.ID); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", p.Name, err))
			s.out.Printf("failed: %v\n", err)
			continue
		}
		s.out.DeletionDone()
		s.warnOnAuditFailure(s.audit.Log(audit.ActionProjectDeleted, org.ID, map[string]any{
			"project_id": p.ID,
			"name":       p.Name,
		}))
	}

	if len(failures) > 0 {
		return &BatchError{Kind: "project", Failures: failures, Total: len(plan.Projects)}
	}
	return nil
}

func (s *CleanupService) countdown(ctx context.Context, name string, width int) error {
	s.out.DeletionStart(name, width)
	for remaining := DeleteCountdown; remaining >= 1; remaining-- {
		s.out.CountdownTick(remaining)
		timer := time.NewTimer(s.tick)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return nil
}

func (s *CleanupService) abort(gate *cleanup.ApprovalGate, orgID, reason string) error {
	if err := gate.Decline(); err != nil {
		return err
	}
	s.warnOnAuditFailure(s.audit.Log(audit.ActionRunAborted, orgID, map[string]any{"reason": reason}))
	s.out.Printf("Aborted. Nothing was deleted.\n")
	return nil
}

// The operator already approved the run; a broken audit log must not block
// it, only be visible.
func (s *CleanupService) warnOnAuditFailure(err error) {
	if err != nil {
		s.out.Printf("warning: audit log: %v\n", err)
	}
}

// BatchError summarizes per-item failures of a deletion batch. The run
// continues past individual failures and reports them at the end.
type BatchError struct {
	Kind     string
	Failures []string
	Total    int
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%d of %d %s deletions failed:\n  %s",
		len(e.Failures), e.Total, e.Kind, strings.Join(e.Failures, "\n  "))
}
