package inventory

import (
	"fmt"

	"github.com/google/uuid"
)

// OrgNotFoundError is returned when an identifier matches no visible org.
type OrgNotFoundError struct {
	Identifier string
}

func (e *OrgNotFoundError) Error() string {
	return fmt.Sprintf("cannot find org '%s'", e.Identifier)
}

// ResolveOrg matches a user-supplied identifier against the fetched org list.
// A well-formed UUID is matched by id, anything else by slug; both matches
// are case-insensitive. When several orgs match, the first one wins.
func ResolveOrg(identifier string, orgs []Org) (Org, error) {
	_, err := uuid.Parse(identifier)
	byID := err == nil

	for _, org := range orgs {
		if byID {
			if EqualID(org.ID, identifier) {
				return org, nil
			}
			continue
		}
		if EqualID(org.Slug, identifier) {
			return org, nil
		}
	}

	return Org{}, &OrgNotFoundError{Identifier: identifier}
}
