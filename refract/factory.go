package refract

import (
	"strconv"

	"github.com/apib/refract/mson"
	"github.com/apib/refract/warning"
)

// CreationMode selects which of the three ways a literal is turned into an
// element.
type CreationMode int

const (
	// ValueMode parses the literal and sets it as the element's value.
	ValueMode CreationMode = iota
	// SampleMode wraps a parsed primitive literal into a samples attribute,
	// or (for compound targets) produces a verbatim "generic" string
	// placeholder.
	SampleMode
	// ElementMode sets the element-name to the literal instead of parsing it
	// as a value — used when a named type is referenced by name rather than
	// given a literal value.
	ElementMode
)

func isCompound(v Variant) bool {
	switch v {
	case Array, Object, Enum:
		return true
	default:
		return false
	}
}

// VariantForBaseType maps an MSON base type to the Refract variant that
// represents it, treating both ObjectTypeName and UndefinedTypeName as
// Object.
func VariantForBaseType(b mson.BaseTypeName) Variant {
	return variantForBaseType(b)
}

func variantForBaseType(b mson.BaseTypeName) Variant {
	switch b {
	case mson.BooleanTypeName:
		return Bool
	case mson.NumberTypeName:
		return Number
	case mson.StringTypeName:
		return String
	case mson.ArrayTypeName:
		return Array
	case mson.EnumTypeName:
		return Enum
	default:
		// mson.ObjectTypeName and mson.UndefinedTypeName both land on Object.
		return Object
	}
}

// Create builds a fresh element for baseType from literal under mode.
// sink and rng are used to record a parse-failure warning for
// primitive targets; rng is the literal's own source-map range.
func Create(baseType mson.BaseTypeName, literal string, mode CreationMode, sink *warning.Sink, rng warning.Range) *Element {
	v := variantForBaseType(baseType)

	if !isCompound(v) {
		switch mode {
		case ValueMode:
			e := New(v)
			if parsed, ok := parseLiteral(v, literal); ok {
				e.SetValue(parsed)
			} else {
				warnInvalidLiteral(sink, v, rng)
			}
			return e
		case SampleMode:
			e := New(v)
			sample := New(v)
			if parsed, ok := parseLiteral(v, literal); ok {
				sample.SetValue(parsed)
			} else {
				warnInvalidLiteral(sink, v, rng)
			}
			samples := New(Array)
			samples.SetChildren([]*Element{sample})
			e.Attributes().Set("samples", samples)
			return e
		default: // ElementMode
			return NewNamed(v, literal)
		}
	}

	// Compound target.
	if mode == SampleMode {
		e := NewNamed(String, "generic")
		e.SetValue(literal)
		return e
	}
	e := New(v)
	if mode == ElementMode {
		e.ElementName = literal
	}
	return e
}

func parseLiteral(v Variant, literal string) (any, bool) {
	switch v {
	case Bool:
		switch literal {
		case "true":
			return true, true
		case "false":
			return false, true
		default:
			return nil, false
		}
	case Number:
		n, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case String:
		return literal, true
	default:
		return nil, false
	}
}

func warnInvalidLiteral(sink *warning.Sink, v Variant, rng warning.Range) {
	if sink == nil {
		return
	}
	switch v {
	case Bool:
		sink.Warn(warning.MSONError, rng, "invalid value for 'boolean' type")
	case Number:
		sink.Warn(warning.MSONError, rng, "invalid value format for 'number' type")
	}
}
