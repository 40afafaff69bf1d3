package application

import (
	"fmt"
	"time"

	"github.com/dsamoylenko/snyksweep/internal/domain/audit"
	"github.com/google/uuid"
)

// AuditService appends destructive actions to the hash-chained event log
// and verifies its integrity.
type AuditService struct {
	repo audit.Repository
}

func NewAuditService(repo audit.Repository) *AuditService {
	return &AuditService{repo: repo}
}

func (s *AuditService) Log(action, org string, metadata map[string]any) error {
	// Continue the hash chain from the latest recorded event.
	events, _ := s.repo.LoadEvents()
	prevHash := ""
	if len(events) > 0 {
		prevHash = events[len(events)-1].Hash
	}

	event := audit.Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Action:    action,
		Org:       org,
		Metadata:  metadata,
		PrevHash:  prevHash,
	}
	event.Hash = event.CalculateHash()

	return s.repo.RecordEvent(event)
}

func (s *AuditService) Timeline() ([]audit.Event, error) {
	return s.repo.LoadEvents()
}

// VerifyIntegrity walks the chain and reports every broken link or
// tampered event.
func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.repo.LoadEvents()
	if err != nil {
		return nil, err
	}

	var violations []string
	lastHash := ""

	for i, e := range events {
		if e.PrevHash != lastHash {
			violations = append(violations, fmt.Sprintf("Event %d (%s): PrevHash mismatch. Audit trail broken.", i, e.ID))
		}
		if e.Hash != e.CalculateHash() {
			violations = append(violations, fmt.Sprintf("Event %d (%s): Content hash mismatch. Possible tampering.", i, e.ID))
		}
		lastHash = e.Hash
	}

	return violations, nil
}
