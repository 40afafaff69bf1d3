package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dsamoylenko/snyksweep/internal/application"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/snyk"
)

func TestCLIError(t *testing.T) {
	t.Run("Error with cause", func(t *testing.T) {
		cause := errors.New("root cause")
		e := NewCLIError("something failed", "try this", cause)
		if e.Error() != "something failed: root cause" {
			t.Fatalf("unexpected: %s", e.Error())
		}
		if e.ExitCode != 1 {
			t.Fatalf("expected exit code 1, got %d", e.ExitCode)
		}
	})

	t.Run("Error without cause", func(t *testing.T) {
		e := NewCLIError("something failed", "try this", nil)
		if e.Error() != "something failed" {
			t.Fatalf("unexpected: %s", e.Error())
		}
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("root")
		e := NewCLIError("msg", "", cause)
		if !errors.Is(e, cause) {
			t.Fatal("errors.Is should match wrapped cause")
		}
	})
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantHint string
		wantCLI  bool
	}{
		{
			name: "nil returns nil",
			err:  nil,
		},
		{
			name:     "org not found",
			err:      &inventory.OrgNotFoundError{Identifier: "acme"},
			wantHint: "Run snyksweep without arguments to list the orgs your token can see",
			wantCLI:  true,
		},
		{
			name:     "auth error",
			err:      &snyk.AuthError{StatusCode: 401},
			wantHint: "Check the API token. Try running 'snyk container test hello-world', and run this tool again",
			wantCLI:  true,
		},
		{
			name:     "wrapped auth error",
			err:      fmt.Errorf("fetch orgs: %w", &snyk.AuthError{StatusCode: 403}),
			wantHint: "Check the API token. Try running 'snyk container test hello-world', and run this tool again",
			wantCLI:  true,
		},
		{
			name:     "api error",
			err:      &snyk.APIError{Op: "list projects", StatusCode: 500, Body: "boom"},
			wantHint: "The API may be degraded; retry in a minute",
			wantCLI:  true,
		},
		{
			name:     "batch error",
			err:      &application.BatchError{Kind: "project", Failures: []string{"api: 500"}, Total: 3},
			wantHint: "The failed items are still in the inventory; re-run the same command to retry them",
			wantCLI:  true,
		},
		{
			name: "unmapped error passes through",
			err:  errors.New("something else"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)
			if tt.err == nil {
				if result != nil {
					t.Fatal("expected nil")
				}
				return
			}
			if !tt.wantCLI {
				if result != tt.err {
					t.Fatal("unmapped error should pass through unchanged")
				}
				return
			}
			var cliErr *CLIError
			if !errors.As(result, &cliErr) {
				t.Fatalf("expected CLIError, got %T", result)
			}
			if cliErr.Hint != tt.wantHint {
				t.Fatalf("hint = %q, want %q", cliErr.Hint, tt.wantHint)
			}
			if !errors.Is(cliErr, tt.err) {
				t.Fatal("CLIError should wrap original error")
			}
		})
	}
}
