package cleanup

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Gate states. A plan starts out planned and only reaches ready after every
// required confirmation has been given; declining any gate is terminal.
const (
	GatePlanned            = "planned"
	GateFirstConfirmation  = "first_confirmation"
	GateTicketConfirmation = "ticket_confirmation"
	GateReady              = "ready"
	GateAborted            = "aborted"
)

type gateContext struct {
	HasLinkedRefs bool
}

// ApprovalGate enforces the confirmation protocol for a deletion plan: one
// yes/no gate for every run, and a second one when linked tickets would be
// orphaned by the deletion. Ticket loss-of-context is irreversible and easy
// to overlook, hence the deliberate double gate.
type ApprovalGate struct {
	interpreter   *statekit.Interpreter[gateContext]
	hasLinkedRefs bool
}

// NewApprovalGate builds the gate machine for a plan. hasLinkedRefs selects
// whether the ticket-disclosure gate is part of the protocol.
func NewApprovalGate(hasLinkedRefs bool) (*ApprovalGate, error) {
	builder := statekit.NewMachine[gateContext]("approval-gate").
		WithInitial(GatePlanned).
		WithContext(gateContext{HasLinkedRefs: hasLinkedRefs}).
		WithGuard("hasLinkedRefs", func(ctx gateContext, e statekit.Event) bool {
			return ctx.HasLinkedRefs
		}).
		WithGuard("noLinkedRefs", func(ctx gateContext, e statekit.Event) bool {
			return !ctx.HasLinkedRefs
		})

	builder.State(GatePlanned).
		On("review").Target(GateFirstConfirmation).
		Done()

	builder.State(GateFirstConfirmation).
		On("confirm").Target(GateTicketConfirmation).Guard("hasLinkedRefs").
		On("proceed").Target(GateReady).Guard("noLinkedRefs").
		On("decline").Target(GateAborted).
		Done()

	builder.State(GateTicketConfirmation).
		On("confirm").Target(GateReady).
		On("decline").Target(GateAborted).
		Done()

	builder.State(GateReady).Done()
	builder.State(GateAborted).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build approval gate: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ApprovalGate{interpreter: interpreter, hasLinkedRefs: hasLinkedRefs}, nil
}

// Review presents the plan for the first confirmation.
func (g *ApprovalGate) Review() error { return g.send("review") }

// Approve records a passed first gate. When linked tickets exist, the gate
// moves on to ticket disclosure; otherwise the plan becomes ready.
func (g *ApprovalGate) Approve() error {
	if g.hasLinkedRefs {
		return g.send("confirm")
	}
	return g.send("proceed")
}

// AcknowledgeTickets records a passed ticket-disclosure gate.
func (g *ApprovalGate) AcknowledgeTickets() error { return g.send("confirm") }

// Decline aborts the protocol. Declining is a clean outcome, not an error.
func (g *ApprovalGate) Decline() error { return g.send("decline") }

// State returns the current gate state.
func (g *ApprovalGate) State() string {
	return string(g.interpreter.State().Value)
}

// Ready reports whether every required confirmation has been given.
func (g *ApprovalGate) Ready() bool { return g.State() == GateReady }

// Aborted reports whether the operator declined a gate.
func (g *ApprovalGate) Aborted() bool { return g.State() == GateAborted }

func (g *ApprovalGate) send(event string) error {
	before := g.State()
	g.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if g.State() == before {
		return fmt.Errorf("gate event '%s' is not valid in state '%s'", event, before)
	}
	return nil
}
