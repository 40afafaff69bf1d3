package snyk

import (
	"encoding/json"
	"fmt"
	"time"
)

// jsonAPIEnvelope is the REST API response wrapper.
type jsonAPIEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

type orgResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"attributes"`
}

type projectResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Name string `json:"name"`
	} `json:"attributes"`
	Meta struct {
		CliMonitoredAt *time.Time `json:"cli_monitored_at"`
	} `json:"meta"`
	Relationships struct {
		Target struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		} `json:"target"`
	} `json:"relationships"`
}

type targetResource struct {
	ID         string `json:"id"`
	Attributes struct {
		DisplayName string    `json:"display_name"`
		CreatedAt   time.Time `json:"created_at"`
		IsPrivate   bool      `json:"is_private"`
	} `json:"attributes"`
}

// jiraIssueEnvelope is one entry of the v1 jira-issues response.
type jiraIssueEnvelope struct {
	JiraIssue struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	} `json:"jiraIssue"`
}

// AuthError means the token was rejected at the API.
type AuthError struct {
	StatusCode int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("snyk api rejected the credentials (status %d)", e.StatusCode)
}

// APIError is any other non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: snyk api error (status %d)", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: snyk api error (status %d): %s", e.Op, e.StatusCode, e.Body)
}
