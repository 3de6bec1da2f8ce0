package registry

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/danmuck/gadgetctl/internal/effect"
	"github.com/danmuck/gadgetctl/internal/gadget"
	"github.com/danmuck/gadgetctl/internal/observability"
	"github.com/rs/zerolog/log"
)

var ErrBadPayload = errors.New("registry: invalid payload")

// Handler is the uniform capability stored in the registry. Concrete gadgets
// with differing state and incoming types adapt to it internally, so
// heterogeneous instances can share one table.
type Handler interface {
	// Receive forwards textual data to the gadget and returns its current
	// representation afterwards.
	Receive(data string) (string, error)
	// Current returns the gadget's current representation.
	Current() string
}

type counterHandler struct {
	m *gadget.Machine[int, string]
}

// NewCounterHandler builds a counter gadget bridged to the textual handler
// contract, starting at zero.
func NewCounterHandler() Handler {
	return NewCounterHandlerAt(0)
}

// NewCounterHandlerAt builds a counter starting at an explicit count, used
// by bootstrap definitions.
func NewCounterHandlerAt(initial int) Handler {
	m := gadget.NewCounter()
	m.Update(initial)
	m.SetSink(effectSink(KindCounter))
	return &counterHandler{m: m}
}

func (h *counterHandler) Receive(data string) (string, error) {
	h.m.Receive(data)
	return h.Current(), nil
}

func (h *counterHandler) Current() string {
	return strconv.Itoa(h.m.Current())
}

type maxCellHandler struct {
	m *gadget.Machine[int, int]
}

// NewMaxCellHandler builds a maximum-tracking gadget bridged to the textual
// handler contract.
func NewMaxCellHandler(initial int) Handler {
	m := gadget.NewMaxCell(initial)
	m.SetSink(effectSink(KindMaxCell))
	return &maxCellHandler{m: m}
}

func (h *maxCellHandler) Receive(data string) (string, error) {
	value, err := strconv.Atoi(data)
	if err != nil {
		return "", fmt.Errorf("%w: invalid integer", ErrBadPayload)
	}
	h.m.Receive(value)
	return h.Current(), nil
}

func (h *maxCellHandler) Current() string {
	return strconv.Itoa(h.m.Current())
}

func effectSink(kind string) gadget.Sink {
	return func(e effect.Effect) {
		observability.RecordEffect(kind, e.Kind.String())
		log.Debug().Str("kind", kind).Stringer("effect", e).Msg("gadget emit")
	}
}
