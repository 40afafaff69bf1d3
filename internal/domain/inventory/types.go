// Package inventory holds the records fetched from the Snyk inventory API
// and the pure logic that derives views from them.
package inventory

import (
	"context"
	"strings"
	"time"
)

// Org is a Snyk organization as returned by the orgs listing.
type Org struct {
	ID   string
	Slug string
	Name string
}

// Project is a monitored software artifact. MonitoredAt is nil when the
// project has never been monitored through the CLI workflow.
// TargetRelationshipID links the project to the target it was imported
// from and is empty when the relationship is absent.
type Project struct {
	ID                   string
	Name                 string
	MonitoredAt          *time.Time
	TargetRelationshipID string
}

// Target is the scan source (repository, image, ...) projects originate from.
type Target struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
	Private     bool
}

// IssueRef is a reference to an external issue-tracker ticket linked to a
// project finding.
type IssueRef struct {
	ID string
}

// Service is the remote inventory collaborator. Implementations talk to the
// Snyk API; tests substitute scripted fakes.
type Service interface {
	ListOrgs(ctx context.Context) ([]Org, error)
	ListProjects(ctx context.Context, orgID string) ([]Project, error)
	ListIssueRefs(ctx context.Context, orgID, projectID string) (map[string][]IssueRef, error)
	DeleteProject(ctx context.Context, orgID, projectID string) error
	ListTargets(ctx context.Context, orgID string, includeEmpty bool) ([]Target, error)
	DeleteTarget(ctx context.Context, orgID, targetID string) error
}

// EqualID compares two opaque identifiers the way the Snyk API treats them
// in practice: case-insensitively. Snyk ids are UUIDs and arrive in either
// case depending on the endpoint, so a strict compare would produce false
// mismatches.
func EqualID(a, b string) bool {
	return strings.EqualFold(a, b)
}

// DateOf truncates a timestamp to its calendar date in local time.
func DateOf(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, time.Local)
}
