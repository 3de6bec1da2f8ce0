// Package registry holds the shared name-to-gadget mapping exposed by the
// network service, together with the kind factories used by create requests.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrNotFound    = errors.New("registry: gadget not found")
	ErrNameExists  = errors.New("registry: gadget already exists")
	ErrNameEmpty   = errors.New("registry: gadget name is empty")
	ErrHandlerNil  = errors.New("registry: handler is nil")
	ErrUnknownKind = errors.New("registry: unknown gadget kind")
	ErrKindExists  = errors.New("registry: kind already registered")
)

const (
	KindCounter = "counter"
	KindMaxCell = "maxcell"
)

// Created describes the outcome of a kind factory: the derived unique name,
// the handler to insert, and the confirmation text for the client.
type Created struct {
	Name         string
	Handler      Handler
	Confirmation string
}

// Factory builds a default-configured gadget of one kind from the textual
// create argument.
type Factory func(arg string) (Created, error)

// Registry is the single shared mutable resource of the service. Its mutex
// is held for the full duration of every operation, lookup through reply
// composition, so no two dispatches observe overlapping state. Requests
// against the same instance are totally ordered by lock acquisition.
type Registry struct {
	mu    sync.Mutex
	items map[string]Handler
	kinds map[string]Factory
}

// New creates an empty registry with no kinds registered.
func New() *Registry {
	return &Registry{
		items: make(map[string]Handler),
		kinds: make(map[string]Factory),
	}
}

// Defaults creates the startup registry: counter and maxcell kinds plus the
// default instances "counter" and "maxcell", both initialized to zero.
func Defaults() *Registry {
	r := New()
	mustOK(r.RegisterKind(KindCounter, CounterFactory))
	mustOK(r.RegisterKind(KindMaxCell, MaxCellFactory))
	mustOK(r.Insert("counter", NewCounterHandler()))
	mustOK(r.Insert("maxcell", NewMaxCellHandler(0)))
	return r
}

// RegisterKind adds a creation factory under a kind name.
func (r *Registry) RegisterKind(kind string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.kinds[kind]; ok {
		return fmt.Errorf("%w: %q", ErrKindExists, kind)
	}
	r.kinds[kind] = f
	return nil
}

// Insert adds a named gadget. Duplicate names are rejected rather than
// silently replaced.
func (r *Registry) Insert(name string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(name, h)
}

func (r *Registry) insertLocked(name string, h Handler) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameEmpty
	}
	if h == nil {
		return fmt.Errorf("%w: %q", ErrHandlerNil, name)
	}
	if _, ok := r.items[name]; ok {
		return fmt.Errorf("%w: %q", ErrNameExists, name)
	}
	r.items[name] = h
	return nil
}

// Receive forwards data to the named gadget and returns its resulting
// representation. Lookup, mutation, and reply composition all happen inside
// one critical section.
func (r *Registry) Receive(name, data string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return h.Receive(data)
}

// Current returns the named gadget's representation.
func (r *Registry) Current(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.items[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return h.Current(), nil
}

// Create instantiates a new gadget of the given kind and inserts it under
// the factory-derived name, returning the confirmation text.
func (r *Registry) Create(kind, arg string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.kinds[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	created, err := f(arg)
	if err != nil {
		return "", err
	}
	if err := r.insertLocked(created.Name, created.Handler); err != nil {
		return "", err
	}
	return created.Confirmation, nil
}

// Install inserts a named instance of a built-in kind with an explicit
// initial value, as declared by a bootstrap definition.
func (r *Registry) Install(name, kind string, initial int) error {
	var h Handler
	switch kind {
	case KindCounter:
		h = NewCounterHandlerAt(initial)
	case KindMaxCell:
		h = NewMaxCellHandler(initial)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return r.Insert(name, h)
}

// Names returns the registered gadget names, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CounterFactory creates a counter named by the create argument.
func CounterFactory(arg string) (Created, error) {
	name := strings.TrimSpace(arg)
	if name == "" {
		return Created{}, ErrNameEmpty
	}
	return Created{
		Name:         name,
		Handler:      NewCounterHandler(),
		Confirmation: fmt.Sprintf("Created counter '%s'", name),
	}, nil
}

// MaxCellFactory creates a maxcell whose initial value is the create
// argument; a non-numeric argument falls back to zero. The instance name is
// derived from the initial value.
func MaxCellFactory(arg string) (Created, error) {
	initial, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		initial = 0
	}
	return Created{
		Name:         fmt.Sprintf("maxcell_%d", initial),
		Handler:      NewMaxCellHandler(initial),
		Confirmation: fmt.Sprintf("Created maxcell with initial value %d", initial),
	}, nil
}

func mustOK(err error) {
	if err != nil {
		panic(err)
	}
}
