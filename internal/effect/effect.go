// Package effect defines the vocabulary of observable outcomes a gadget can
// produce when it processes one incoming event.
package effect

import "fmt"

// Kind discriminates the effect variants.
type Kind int

const (
	// KindNoop marks input that was accepted without a state change.
	KindNoop Kind = iota
	// KindChanged marks a material state change; Payload carries the new value.
	KindChanged
	// KindCustom marks an extension-defined outcome keyed by Key.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindNoop:
		return "noop"
	case KindChanged:
		return "changed"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Effect is an immutable description of one observable outcome. Effects have
// no identity beyond their content.
type Effect struct {
	Kind    Kind
	Payload string
	Key     string
}

// Changed builds an effect recording a material state change.
func Changed(payload string) Effect {
	return Effect{Kind: KindChanged, Payload: payload}
}

// Noop builds an effect recording accepted input with no state change.
func Noop() Effect {
	return Effect{Kind: KindNoop}
}

// Custom builds an extension-defined effect.
func Custom(key, value string) Effect {
	return Effect{Kind: KindCustom, Key: key, Payload: value}
}

func (e Effect) String() string {
	switch e.Kind {
	case KindChanged:
		return fmt.Sprintf("changed(%s)", e.Payload)
	case KindCustom:
		return fmt.Sprintf("custom(%s=%s)", e.Key, e.Payload)
	default:
		return e.Kind.String()
	}
}
