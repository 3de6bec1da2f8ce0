package gadget

import (
	"sync"

	"github.com/danmuck/gadgetctl/internal/effect"
	"github.com/google/uuid"
)

// Extension decorates a gadget with cross-cutting behavior without touching
// its decision or action logic. WrapEmit transforms or observes an outgoing
// effect; WrapReceive rewrites incoming data before the decision function
// sees it. Both default to identity via PassthroughExtension.
type Extension interface {
	WrapEmit(e effect.Effect) effect.Effect
	WrapReceive(data any) any
}

// PassthroughExtension provides identity hooks for embedding, so extensions
// override only the hook they care about.
type PassthroughExtension struct{}

func (PassthroughExtension) WrapEmit(e effect.Effect) effect.Effect { return e }

func (PassthroughExtension) WrapReceive(data any) any { return data }

type tapEntry struct {
	id uuid.UUID
	fn func(effect.Effect)
}

// TapExtension fans every emitted effect out to an open-ended set of
// observer callbacks. Observers run exactly once per emission, in
// registration order, and can be revoked through their handle.
type TapExtension struct {
	PassthroughExtension

	mu   sync.Mutex
	taps []tapEntry
}

func NewTapExtension() *TapExtension {
	return &TapExtension{}
}

// Tap registers an observer and returns its revocation handle.
func (t *TapExtension) Tap(fn func(effect.Effect)) TapHandle {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := uuid.New()
	t.taps = append(t.taps, tapEntry{id: id, fn: fn})
	return TapHandle{id: id, ext: t}
}

func (t *TapExtension) WrapEmit(e effect.Effect) effect.Effect {
	t.mu.Lock()
	entries := make([]tapEntry, len(t.taps))
	copy(entries, t.taps)
	t.mu.Unlock()

	for _, entry := range entries {
		entry.fn(e)
	}
	return e
}

func (t *TapExtension) revoke(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, entry := range t.taps {
		if entry.id == id {
			t.taps = append(t.taps[:i], t.taps[i+1:]...)
			return
		}
	}
}

// TapHandle identifies one registered observer. Revocation is explicit: a
// long-lived registry must not accumulate dead observers.
type TapHandle struct {
	id  uuid.UUID
	ext *TapExtension
}

// Revoke removes the observer; it is not invoked on subsequent emissions.
// Revoking twice is harmless.
func (h TapHandle) Revoke() {
	if h.ext != nil {
		h.ext.revoke(h.id)
	}
}
