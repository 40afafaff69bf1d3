package cleanup

import "testing"

func TestGateWithoutLinkedRefs(t *testing.T) {
	gate, err := NewApprovalGate(false)
	if err != nil {
		t.Fatal(err)
	}
	if gate.State() != GatePlanned {
		t.Fatalf("expected planned, got %s", gate.State())
	}

	if err := gate.Review(); err != nil {
		t.Fatal(err)
	}
	if gate.State() != GateFirstConfirmation {
		t.Fatalf("expected first_confirmation, got %s", gate.State())
	}

	if err := gate.Approve(); err != nil {
		t.Fatal(err)
	}
	if !gate.Ready() {
		t.Errorf("expected ready after single confirmation, got %s", gate.State())
	}
}

func TestGateWithLinkedRefsRequiresSecondConfirmation(t *testing.T) {
	gate, err := NewApprovalGate(true)
	if err != nil {
		t.Fatal(err)
	}

	if err := gate.Review(); err != nil {
		t.Fatal(err)
	}
	if err := gate.Approve(); err != nil {
		t.Fatal(err)
	}
	if gate.State() != GateTicketConfirmation {
		t.Fatalf("expected ticket_confirmation, got %s", gate.State())
	}
	if gate.Ready() {
		t.Fatal("gate must not be ready before the ticket gate passes")
	}

	if err := gate.AcknowledgeTickets(); err != nil {
		t.Fatal(err)
	}
	if !gate.Ready() {
		t.Errorf("expected ready, got %s", gate.State())
	}
}

func TestGateDeclineFirstGate(t *testing.T) {
	gate, _ := NewApprovalGate(true)
	gate.Review()
	if err := gate.Decline(); err != nil {
		t.Fatal(err)
	}
	if !gate.Aborted() {
		t.Errorf("expected aborted, got %s", gate.State())
	}
}

func TestGateDeclineTicketGate(t *testing.T) {
	gate, _ := NewApprovalGate(true)
	gate.Review()
	gate.Approve()
	if err := gate.Decline(); err != nil {
		t.Fatal(err)
	}
	if !gate.Aborted() {
		t.Errorf("expected aborted, got %s", gate.State())
	}
}

func TestGateRejectsOutOfOrderEvents(t *testing.T) {
	gate, _ := NewApprovalGate(false)
	if err := gate.Approve(); err == nil {
		t.Error("approve before review should be rejected")
	}
	if gate.State() != GatePlanned {
		t.Errorf("state must not change on invalid event, got %s", gate.State())
	}
}
