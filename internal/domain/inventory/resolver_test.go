package inventory

import (
	"errors"
	"testing"
)

var testOrgs = []Org{
	{ID: "3FA85F64-5717-4562-B3FC-2C963F66AFA6", Slug: "platform-team", Name: "Platform Team"},
	{ID: "a81bc81b-dead-4e5d-abff-90865d1e13b1", Slug: "Security", Name: "Security"},
}

func TestResolveOrgByID(t *testing.T) {
	org, err := ResolveOrg("3fa85f64-5717-4562-b3fc-2c963f66afa6", testOrgs)
	if err != nil {
		t.Fatalf("resolve by id: %v", err)
	}
	if org.Slug != "platform-team" {
		t.Errorf("expected platform-team, got %s", org.Slug)
	}
}

func TestResolveOrgBySlug(t *testing.T) {
	org, err := ResolveOrg("security", testOrgs)
	if err != nil {
		t.Fatalf("resolve by slug: %v", err)
	}
	if org.ID != "a81bc81b-dead-4e5d-abff-90865d1e13b1" {
		t.Errorf("unexpected org: %+v", org)
	}
}

func TestResolveOrgSlugThatLooksLikeNothing(t *testing.T) {
	// A non-UUID identifier must never be matched against ids.
	_, err := ResolveOrg("3fa85f64", testOrgs)
	var notFound *OrgNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected OrgNotFoundError, got %v", err)
	}
	if notFound.Identifier != "3fa85f64" {
		t.Errorf("unexpected identifier in error: %s", notFound.Identifier)
	}
}

func TestResolveOrgUUIDNeverMatchesSlug(t *testing.T) {
	// A well-formed UUID is only matched by id, even if some org had an
	// identical slug.
	orgs := []Org{{ID: "x", Slug: "a81bc81b-dead-4e5d-abff-90865d1e13b1", Name: "trap"}}
	if _, err := ResolveOrg("a81bc81b-dead-4e5d-abff-90865d1e13b1", orgs); err == nil {
		t.Fatal("expected no match")
	}
}

func TestResolveOrgEmptyList(t *testing.T) {
	if _, err := ResolveOrg("anything", nil); err == nil {
		t.Fatal("expected OrgNotFoundError")
	}
}
