// Package warning defines the diagnostics vocabulary shared by the lowering,
// expansion, and schema passes: a Kind for non-aborting warnings, the
// aborting error types, and an append-only Sink that a conversion pipeline
// owns for its lifetime.
package warning

import "fmt"

// Kind classifies a non-aborting Warning.
type Kind int

const (
	// MSONError marks a warning about the shape of the input MSON AST.
	MSONError Kind = iota
	// ApplicationError marks a warning raised by the lowering/expansion logic itself.
	ApplicationError
)

func (k Kind) String() string {
	switch k {
	case MSONError:
		return "mson"
	case ApplicationError:
		return "application"
	default:
		return "unknown"
	}
}

// Range is an opaque character-range source-map reference, carried through
// from the MSON AST collaborator (mson.SourceMap) without interpretation.
type Range struct {
	Start int
	Length int
}

// Warning is a non-aborting diagnostic: text, a Kind, and the source range
// it originated from (zero Range if the originating node had none).
type Warning struct {
	Text  string
	Kind  Kind
	Range Range
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Kind, w.Text)
}

// Sink accumulates Warnings in document order. It is single-producer per
// conversion and is never read concurrently with a write.
type Sink struct {
	warnings []Warning
}

// Warn appends a warning of the given kind and range.
func (s *Sink) Warn(kind Kind, rng Range, format string, args ...any) {
	s.warnings = append(s.warnings, Warning{
		Text:  fmt.Sprintf(format, args...),
		Kind:  kind,
		Range: rng,
	})
}

// Warnings returns the warnings accumulated so far, in document order.
// The returned slice must not be mutated by the caller.
func (s *Sink) Warnings() []Warning {
	return s.warnings
}
