package gadget

import (
	"errors"
	"fmt"

	"github.com/danmuck/gadgetctl/internal/effect"
	"github.com/rs/zerolog/log"
)

var (
	ErrActionExists = errors.New("gadget: action already registered")
	ErrActionNil    = errors.New("gadget: action is nil")
	ErrActionName   = errors.New("gadget: action name is empty")
)

// Machine is the reusable state-machine engine, instantiable over any
// (State, Incoming) pair. It is driven by a decision function and a table of
// named actions, with an ordered extension pipeline applied on every
// emission. A Machine is not safe for concurrent use; callers serialize
// access (the registry holds its lock across every dispatch).
type Machine[S, I any] struct {
	state    S
	consider ConsiderFunc[S, I]
	actions  map[string]ActionFunc[S, I]
	exts     []Extension
	sink     Sink
}

var _ Gadget[int, string] = (*Machine[int, string])(nil)

// NewMachine builds an engine with the given initial state and decision
// function. The default sink logs emissions at debug level.
func NewMachine[S, I any](initial S, consider ConsiderFunc[S, I]) *Machine[S, I] {
	return &Machine[S, I]{
		state:    initial,
		consider: consider,
		actions:  make(map[string]ActionFunc[S, I]),
		sink: func(e effect.Effect) {
			log.Debug().Stringer("effect", e).Msg("gadget emit")
		},
	}
}

// RegisterAction adds a named action to the table. Duplicate names are
// rejected rather than silently shadowed.
func (m *Machine[S, I]) RegisterAction(name string, fn ActionFunc[S, I]) error {
	if name == "" {
		return ErrActionName
	}
	if fn == nil {
		return fmt.Errorf("%w: %q", ErrActionNil, name)
	}
	if _, ok := m.actions[name]; ok {
		return fmt.Errorf("%w: %q", ErrActionExists, name)
	}
	m.actions[name] = fn
	return nil
}

// Use appends an extension to the pipeline. Extensions observe effects in
// the order they were registered.
func (m *Machine[S, I]) Use(ext Extension) {
	m.exts = append(m.exts, ext)
}

// SetSink replaces the default diagnostic sink.
func (m *Machine[S, I]) SetSink(sink Sink) {
	m.sink = sink
}

func (m *Machine[S, I]) Current() S {
	return m.state
}

func (m *Machine[S, I]) Update(state S) {
	m.state = state
}

// Receive wraps the incoming value through the extension pipeline, runs the
// decision function, and executes the chosen action. An unknown action name
// is a no-op from the caller's perspective.
func (m *Machine[S, I]) Receive(incoming I) {
	wrapped := incoming
	for _, ext := range m.exts {
		if v, ok := ext.WrapReceive(any(wrapped)).(I); ok {
			wrapped = v
		}
	}

	result := m.consider(m.state, wrapped)
	name, ok := result.Action()
	if !ok {
		return
	}
	action, ok := m.actions[name]
	if !ok {
		log.Debug().Str("action", name).Msg("gadget action not registered")
		return
	}
	m.Emit(action(&m.state, wrapped))
}

func (m *Machine[S, I]) Emit(e effect.Effect) {
	for _, ext := range m.exts {
		e = ext.WrapEmit(e)
	}
	if m.sink != nil {
		m.sink(e)
	}
}
