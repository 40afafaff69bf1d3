// Package snyk implements the inventory.Service port against the Snyk API.
// Listings go through the REST API (JSON:API envelope, cursor pagination);
// Jira references and project deletion use the v1 API, which the REST API
// does not cover.
package snyk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
	"github.com/felixgeelhaar/fortify/retry"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is the public Snyk API host.
const DefaultEndpoint = "https://api.snyk.io"

// restVersion pins the REST API version all requests are made against.
const restVersion = "2024-10-15"

const pageLimit = 100

// Client talks to the Snyk API. Read calls are retried with exponential
// backoff; destructive calls are issued exactly once.
type Client struct {
	http      *http.Client
	endpoint  string
	readRetry retry.Config
}

var _ inventory.Service = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint points the client at a different API host. Tests use this
// for their fake servers; self-hosted Snyk tenants use it for real.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = strings.TrimRight(endpoint, "/") }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithReadRetry overrides the retry policy for read calls.
func WithReadRetry(cfg retry.Config) Option {
	return func(c *Client) { c.readRetry = cfg }
}

// NewClient builds a client authenticating with the given API token. Snyk
// expects the non-standard `token` authorization scheme, carried here by a
// static oauth2 token source.
func NewClient(token string, opts ...Option) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "token",
	})

	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 30 * time.Second

	c := &Client{
		http:     httpClient,
		endpoint: DefaultEndpoint,
		readRetry: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  500 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

// ListOrgs fetches every org visible to the token.
func (c *Client) ListOrgs(ctx context.Context) ([]inventory.Org, error) {
	retryer := retry.New[[]inventory.Org](c.readRetry)
	return retryer.Do(ctx, func(ctx context.Context) ([]inventory.Org, error) {
		var orgs []inventory.Org
		err := c.listPages(ctx, "/rest/orgs", nil, func(data json.RawMessage) error {
			var resources []orgResource
			if err := json.Unmarshal(data, &resources); err != nil {
				return fmt.Errorf("decode orgs page: %w", err)
			}
			for _, r := range resources {
				orgs = append(orgs, inventory.Org{
					ID:   r.ID,
					Slug: r.Attributes.Slug,
					Name: r.Attributes.Name,
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return orgs, nil
	})
}

// ListProjects fetches all projects of an org. The target relationship id
// is resolved here, at deserialization time, so the rest of the system
// never touches the raw relationship map.
func (c *Client) ListProjects(ctx context.Context, orgID string) ([]inventory.Project, error) {
	retryer := retry.New[[]inventory.Project](c.readRetry)
	return retryer.Do(ctx, func(ctx context.Context) ([]inventory.Project, error) {
		var projects []inventory.Project
		path := fmt.Sprintf("/rest/orgs/%s/projects", url.PathEscape(orgID))
		params := url.Values{"meta.cli_monitored_at": {"true"}}
		err := c.listPages(ctx, path, params, func(data json.RawMessage) error {
			var resources []projectResource
			if err := json.Unmarshal(data, &resources); err != nil {
				return fmt.Errorf("decode projects page: %w", err)
			}
			for _, r := range resources {
				projects = append(projects, inventory.Project{
					ID:                   r.ID,
					Name:                 r.Attributes.Name,
					MonitoredAt:          r.Meta.CliMonitoredAt,
					TargetRelationshipID: r.Relationships.Target.Data.ID,
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return projects, nil
	})
}

// ListTargets fetches the org's targets. includeEmpty also returns targets
// with no monitored projects.
func (c *Client) ListTargets(ctx context.Context, orgID string, includeEmpty bool) ([]inventory.Target, error) {
	retryer := retry.New[[]inventory.Target](c.readRetry)
	return retryer.Do(ctx, func(ctx context.Context) ([]inventory.Target, error) {
		var targets []inventory.Target
		path := fmt.Sprintf("/rest/orgs/%s/targets", url.PathEscape(orgID))
		params := url.Values{"exclude_empty": {fmt.Sprintf("%t", !includeEmpty)}}
		err := c.listPages(ctx, path, params, func(data json.RawMessage) error {
			var resources []targetResource
			if err := json.Unmarshal(data, &resources); err != nil {
				return fmt.Errorf("decode targets page: %w", err)
			}
			for _, r := range resources {
				targets = append(targets, inventory.Target{
					ID:          r.ID,
					DisplayName: r.Attributes.DisplayName,
					CreatedAt:   r.Attributes.CreatedAt,
					Private:     r.Attributes.IsPrivate,
				})
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return targets, nil
	})
}

// ListIssueRefs fetches the Jira issues linked to a project, grouped by the
// Snyk issue id they are attached to.
func (c *Client) ListIssueRefs(ctx context.Context, orgID, projectID string) (map[string][]inventory.IssueRef, error) {
	retryer := retry.New[map[string][]inventory.IssueRef](c.readRetry)
	return retryer.Do(ctx, func(ctx context.Context) (map[string][]inventory.IssueRef, error) {
		path := fmt.Sprintf("/v1/org/%s/project/%s/jira-issues",
			url.PathEscape(orgID), url.PathEscape(projectID))

		body, err := c.do(ctx, http.MethodGet, c.endpoint+path, "list jira issues")
		if err != nil {
			return nil, err
		}

		var grouped map[string][]jiraIssueEnvelope
		if err := json.Unmarshal(body, &grouped); err != nil {
			return nil, fmt.Errorf("decode jira issues: %w", err)
		}

		refs := make(map[string][]inventory.IssueRef, len(grouped))
		for issueID, envelopes := range grouped {
			for _, env := range envelopes {
				refs[issueID] = append(refs[issueID], inventory.IssueRef{ID: env.JiraIssue.ID})
			}
		}
		return refs, nil
	})
}

// DeleteProject removes a single project. Never retried: a delete that
// failed in an unknown state must surface, not repeat.
func (c *Client) DeleteProject(ctx context.Context, orgID, projectID string) error {
	path := fmt.Sprintf("/v1/org/%s/project/%s", url.PathEscape(orgID), url.PathEscape(projectID))
	_, err := c.do(ctx, http.MethodDelete, c.endpoint+path, "delete project")
	return err
}

// DeleteTarget removes a single target. Never retried.
func (c *Client) DeleteTarget(ctx context.Context, orgID, targetID string) error {
	u := fmt.Sprintf("%s/rest/orgs/%s/targets/%s?version=%s",
		c.endpoint, url.PathEscape(orgID), url.PathEscape(targetID), restVersion)
	_, err := c.do(ctx, http.MethodDelete, u, "delete target")
	return err
}

// listPages walks a REST collection following the JSON:API next links.
func (c *Client) listPages(ctx context.Context, path string, params url.Values, decode func(json.RawMessage) error) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("version", restVersion)
	params.Set("limit", fmt.Sprintf("%d", pageLimit))

	next := path + "?" + params.Encode()
	for next != "" {
		body, err := c.do(ctx, http.MethodGet, c.restURL(next), "list "+path)
		if err != nil {
			return err
		}

		var envelope jsonAPIEnvelope
		if err := json.Unmarshal(body, &envelope); err != nil {
			return fmt.Errorf("decode response envelope: %w", err)
		}
		if err := decode(envelope.Data); err != nil {
			return err
		}

		next = envelope.Links.Next
	}
	return nil
}

// restURL turns a REST path or a next link into an absolute URL. Next links
// come back relative to the /rest base.
func (c *Client) restURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/rest") {
		return c.endpoint + "/rest" + path
	}
	return c.endpoint + path
}

func (c *Client) do(ctx context.Context, method, rawURL, op string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/vnd.api+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode >= 400:
		return nil, &APIError{Op: op, StatusCode: resp.StatusCode, Body: snippet(body)}
	}

	return body, nil
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
