// Package gadget implements the reactive state-machine contract: uniquely
// addressable stateful units that receive incoming events, decide on a named
// action, mutate their state, and emit effects through an extension pipeline.
package gadget

import "github.com/danmuck/gadgetctl/internal/effect"

// Gadget is the core capability set every stateful unit implements. State is
// opaque to the framework and must be cheap to duplicate; Incoming is the
// event type the unit accepts.
type Gadget[S, I any] interface {
	// Current returns a duplicate of the present state. Read-only.
	Current() S
	// Update unconditionally replaces internal state, bypassing the decision
	// pipeline. No effect is emitted.
	Update(state S)
	// Receive runs the decision function against (current state, incoming)
	// and, when it names an action, executes it and emits the result.
	Receive(incoming I)
	// Emit threads an effect through the extension pipeline in registration
	// order and delivers the final effect to the sink.
	Emit(e effect.Effect)
}

// ConsiderResult is the decision produced by inspecting (state, incoming)
// before any mutation: either "run the action named X" or "do nothing".
type ConsiderResult struct {
	action string
	act    bool
}

// Act names the action to run.
func Act(name string) ConsiderResult {
	return ConsiderResult{action: name, act: true}
}

// Nothing declines to act. Input the decision function cannot classify must
// resolve to Nothing, never to a fault.
func Nothing() ConsiderResult {
	return ConsiderResult{}
}

// Action reports the chosen action name, if any.
func (r ConsiderResult) Action() (string, bool) {
	return r.action, r.act
}

// ConsiderFunc inspects state and incoming read-only and decides which
// action, if any, to run.
type ConsiderFunc[S, I any] func(state S, incoming I) ConsiderResult

// ActionFunc mutates state in place and returns the effect describing the
// outcome. Actions are expected total: they never fail.
type ActionFunc[S, I any] func(state *S, incoming I) effect.Effect

// Sink receives the final effect after the extension pipeline has run.
type Sink func(e effect.Effect)
