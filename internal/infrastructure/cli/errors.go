package cli

import (
	"errors"
	"fmt"

	"github.com/dsamoylenko/snyksweep/internal/application"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
	"github.com/dsamoylenko/snyksweep/internal/infrastructure/snyk"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var notFound *inventory.OrgNotFoundError
	if errors.As(err, &notFound) {
		return NewCLIError(
			notFound.Error(),
			"Run snyksweep without arguments to list the orgs your token can see",
			err,
		)
	}

	var authErr *snyk.AuthError
	if errors.As(err, &authErr) {
		return NewCLIError(
			"It looks like we were not successful working with the Snyk API",
			"Check the API token. Try running 'snyk container test hello-world', and run this tool again",
			err,
		)
	}

	var apiErr *snyk.APIError
	if errors.As(err, &apiErr) {
		return NewCLIError(
			fmt.Sprintf("Snyk API request failed during %s", apiErr.Op),
			"The API may be degraded; retry in a minute",
			err,
		)
	}

	var batchErr *application.BatchError
	if errors.As(err, &batchErr) {
		return NewCLIError(
			batchErr.Error(),
			"The failed items are still in the inventory; re-run the same command to retry them",
			err,
		)
	}

	return err
}
