// Package storage persists the cleanup audit trail under the operator's
// home directory.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/audit"
	"github.com/felixgeelhaar/fortify/retry"
)

const SweepDir = ".snyksweep"
const EventsFile = "events.jsonl"

// AuditLog is a file-backed audit.Repository. Events are appended as JSON
// lines so a partially written run still leaves every completed record
// readable.
type AuditLog struct {
	root        string
	retryConfig retry.Config
}

// NewAuditLog stores the log under root/.snyksweep. Pass the home directory
// in production; tests pass a temp dir.
func NewAuditLog(root string) *AuditLog {
	return &AuditLog{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// ResolvePath ensures the path is within the .snyksweep directory and
// prevents traversal.
func (r *AuditLog) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, SweepDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *AuditLog) Initialize() error {
	path := filepath.Join(r.root, SweepDir)
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", SweepDir, err)
	}
	return nil
}

func (r *AuditLog) RecordEvent(event audit.Event) error {
	path, err := r.ResolvePath(EventsFile)
	if err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data = append(data, '\n')

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open events file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (r *AuditLog) LoadEvents() ([]audit.Event, error) {
	retryer := retry.New[[]audit.Event](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]audit.Event, error) {
		path, err := r.ResolvePath(EventsFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return []audit.Event{}, nil
			}
			return nil, fmt.Errorf("failed to read events file: %w", err)
		}

		var events []audit.Event
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			var e audit.Event
			if err := json.Unmarshal(line, &e); err != nil {
				continue // Skip malformed lines
			}
			events = append(events, e)
		}

		return events, nil
	})
}
