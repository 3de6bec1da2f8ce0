// Package server exposes the gadget registry over a newline-delimited
// textual request/response protocol.
package server

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/gadgetctl/internal/observability"
	"github.com/danmuck/gadgetctl/internal/registry"
)

const (
	VerbReceive = "receive"
	VerbCurrent = "current"
	VerbCreate  = "create"
	VerbList    = "list"

	replyInvalidFormat = "ERROR: Invalid command format. Use: GADGET_NAME COMMAND [DATA]"
)

// Dispatcher maps one request line to exactly one reply line. Parsing and
// reply composition touch no shared state; each request makes a single
// registry call, so the registry lock covers the whole critical section.
type Dispatcher struct {
	reg *registry.Registry
}

func NewDispatcher(reg *registry.Registry) *Dispatcher {
	return &Dispatcher{reg: reg}
}

// Dispatch handles one request line. The grammar is
// `<gadget-name> <action> [<data...>]`; data is the remainder of the line.
// A bare `list` is accepted as well.
func (d *Dispatcher) Dispatch(line string) string {
	start := time.Now()
	verb, reply := d.dispatch(line)
	observability.RecordProtocolRequest(verb, !strings.HasPrefix(reply, "ERROR:"), time.Since(start))
	return reply
}

func (d *Dispatcher) dispatch(line string) (verb, reply string) {
	parts := strings.Fields(strings.TrimSpace(line))

	if len(parts) == 1 && parts[0] == VerbList {
		return VerbList, d.list()
	}
	if len(parts) < 2 {
		return "invalid", replyInvalidFormat
	}

	name := parts[0]
	verb = parts[1]
	data := ""
	if len(parts) > 2 {
		data = strings.Join(parts[2:], " ")
	}

	switch verb {
	case VerbReceive:
		out, err := d.reg.Receive(name, data)
		if err != nil {
			return verb, errorReply(name, err)
		}
		return verb, out
	case VerbCurrent:
		out, err := d.reg.Current(name)
		if err != nil {
			return verb, errorReply(name, err)
		}
		return verb, out
	case VerbCreate:
		// The first token names the kind on create requests.
		confirm, err := d.reg.Create(name, data)
		if err != nil {
			return verb, errorReply(name, err)
		}
		return verb, confirm
	case VerbList:
		return verb, d.list()
	default:
		return "unknown", fmt.Sprintf("ERROR: Unknown action '%s'", verb)
	}
}

func (d *Dispatcher) list() string {
	return "Gadgets: " + strings.Join(d.reg.Names(), ", ")
}

func errorReply(token string, err error) string {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		return fmt.Sprintf("ERROR: Gadget '%s' not found", token)
	case errors.Is(err, registry.ErrUnknownKind):
		return fmt.Sprintf("ERROR: Unknown gadget type '%s'", token)
	case errors.Is(err, registry.ErrBadPayload):
		return "ERROR: Invalid integer"
	default:
		return "ERROR: " + strings.TrimPrefix(err.Error(), "registry: ")
	}
}
