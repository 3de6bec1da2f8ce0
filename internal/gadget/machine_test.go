package gadget

import (
	"errors"
	"strconv"
	"testing"

	"github.com/danmuck/gadgetctl/internal/effect"
	"github.com/danmuck/gadgetctl/internal/testutil/testlog"
)

func newTestMachine(t *testing.T) *Machine[int, string] {
	t.Helper()
	m := NewMachine(0, func(_ int, cmd string) ConsiderResult {
		switch cmd {
		case "set-five", "missing":
			return Act(cmd)
		default:
			return Nothing()
		}
	})
	if err := m.RegisterAction("set-five", func(s *int, _ string) effect.Effect {
		*s = 5
		return effect.Changed(strconv.Itoa(*s))
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	return m
}

func TestReceiveRunsDecidedAction(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)

	var emitted []effect.Effect
	m.SetSink(func(e effect.Effect) { emitted = append(emitted, e) })

	m.Receive("set-five")
	if got := m.Current(); got != 5 {
		t.Fatalf("state after action: got=%d want=5", got)
	}
	if len(emitted) != 1 || emitted[0].Kind != effect.KindChanged || emitted[0].Payload != "5" {
		t.Fatalf("unexpected emissions: %v", emitted)
	}
}

func TestReceiveNothingEmitsNothing(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)

	var emitted []effect.Effect
	m.SetSink(func(e effect.Effect) { emitted = append(emitted, e) })

	m.Receive("unclassified input")
	if got := m.Current(); got != 0 {
		t.Fatalf("state changed on Nothing decision: got=%d", got)
	}
	if len(emitted) != 0 {
		t.Fatalf("expected no emissions, got %v", emitted)
	}
}

func TestReceiveUnknownActionIsNoop(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)

	var emitted []effect.Effect
	m.SetSink(func(e effect.Effect) { emitted = append(emitted, e) })

	// "missing" is decided but never registered.
	m.Receive("missing")
	if got := m.Current(); got != 0 {
		t.Fatalf("state changed on unknown action: got=%d", got)
	}
	if len(emitted) != 0 {
		t.Fatalf("expected no emissions, got %v", emitted)
	}
}

func TestRegisterActionDuplicateRejected(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)
	err := m.RegisterAction("set-five", func(s *int, _ string) effect.Effect {
		return effect.Noop()
	})
	if !errors.Is(err, ErrActionExists) {
		t.Fatalf("expected ErrActionExists, got %v", err)
	}
}

func TestRegisterActionValidation(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)
	if err := m.RegisterAction("", func(s *int, _ string) effect.Effect { return effect.Noop() }); !errors.Is(err, ErrActionName) {
		t.Fatalf("expected ErrActionName, got %v", err)
	}
	if err := m.RegisterAction("nil-action", nil); !errors.Is(err, ErrActionNil) {
		t.Fatalf("expected ErrActionNil, got %v", err)
	}
}

func TestUpdateCurrentIdempotent(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)
	m.Receive("set-five")

	before := m.Current()
	m.Update(m.Current())
	if got := m.Current(); got != before {
		t.Fatalf("update(current()) changed state: got=%d want=%d", got, before)
	}
}

func TestUpdateBypassesPipeline(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)

	var emitted []effect.Effect
	m.SetSink(func(e effect.Effect) { emitted = append(emitted, e) })

	m.Update(42)
	if got := m.Current(); got != 42 {
		t.Fatalf("update: got=%d want=42", got)
	}
	if len(emitted) != 0 {
		t.Fatalf("update emitted effects: %v", emitted)
	}
}

type suffixExt struct {
	PassthroughExtension
	suffix string
}

func (e suffixExt) WrapEmit(in effect.Effect) effect.Effect {
	in.Payload += e.suffix
	return in
}

func TestExtensionOrdering(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)
	m.Use(suffixExt{suffix: "-a"})
	m.Use(suffixExt{suffix: "-b"})

	var final effect.Effect
	m.SetSink(func(e effect.Effect) { final = e })

	m.Receive("set-five")
	// E2(E1(original)): suffixes apply in registration order.
	if final.Payload != "5-a-b" {
		t.Fatalf("extension order violated: got=%q want=%q", final.Payload, "5-a-b")
	}
}

type rewriteExt struct {
	PassthroughExtension
	from, to string
}

func (e rewriteExt) WrapReceive(data any) any {
	if s, ok := data.(string); ok && s == e.from {
		return e.to
	}
	return data
}

func TestWrapReceiveRewritesIncoming(t *testing.T) {
	testlog.Start(t)
	m := newTestMachine(t)
	m.Use(rewriteExt{from: "alias", to: "set-five"})

	m.Receive("alias")
	if got := m.Current(); got != 5 {
		t.Fatalf("wrap_receive rewrite not applied: got=%d want=5", got)
	}
}
