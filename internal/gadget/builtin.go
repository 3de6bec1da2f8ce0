package gadget

import (
	"strconv"

	"github.com/danmuck/gadgetctl/internal/effect"
)

// Built-in conformance machines. Both are instances of the generic engine,
// not bespoke implementations of the contract.

const (
	CounterIncrement = "increment"
	CounterDecrement = "decrement"
	CounterReset     = "reset"

	counterNoop  = "noop"
	maxCellRaise = "raise"
	maxCellHold  = "hold"
)

// NewCounter builds a counter gadget: textual commands increment, decrement,
// and reset mutate an integer and emit the new value; an unrecognized
// command emits Noop and leaves the count alone.
func NewCounter() *Machine[int, string] {
	m := NewMachine(0, func(_ int, cmd string) ConsiderResult {
		switch cmd {
		case CounterIncrement, CounterDecrement, CounterReset:
			return Act(cmd)
		default:
			return Act(counterNoop)
		}
	})
	mustRegister(m, CounterIncrement, func(s *int, _ string) effect.Effect {
		*s++
		return effect.Changed(strconv.Itoa(*s))
	})
	mustRegister(m, CounterDecrement, func(s *int, _ string) effect.Effect {
		*s--
		return effect.Changed(strconv.Itoa(*s))
	})
	mustRegister(m, CounterReset, func(s *int, _ string) effect.Effect {
		*s = 0
		return effect.Changed(strconv.Itoa(*s))
	})
	mustRegister(m, counterNoop, func(_ *int, _ string) effect.Effect {
		return effect.Noop()
	})
	return m
}

// NewMaxCell builds a maximum-tracking gadget: state becomes an incoming
// integer only when it strictly exceeds the previous maximum, emitting
// Changed; anything else emits Noop.
func NewMaxCell(initial int) *Machine[int, int] {
	m := NewMachine(initial, func(s int, in int) ConsiderResult {
		if in > s {
			return Act(maxCellRaise)
		}
		return Act(maxCellHold)
	})
	mustRegister(m, maxCellRaise, func(s *int, in int) effect.Effect {
		*s = in
		return effect.Changed(strconv.Itoa(in))
	})
	mustRegister(m, maxCellHold, func(_ *int, _ int) effect.Effect {
		return effect.Noop()
	})
	return m
}

func mustRegister[S, I any](m *Machine[S, I], name string, fn ActionFunc[S, I]) {
	if err := m.RegisterAction(name, fn); err != nil {
		panic(err)
	}
}
