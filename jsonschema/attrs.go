package jsonschema

import "github.com/apib/refract/refract"

// typeAttrSet reads the flags lowerTypeAttributesInto (package lower)
// recorded on an element's "typeAttributes" attribute array into a set
// keyed by flag name ("required", "optional", "fixed", "fixedType",
// "nullable").
func typeAttrSet(e *refract.Element) map[string]bool {
	out := map[string]bool{}
	if e == nil || !e.HasAttributes() {
		return out
	}
	arr, ok := e.Attributes().Get("typeAttributes")
	if !ok {
		return out
	}
	children, _ := arr.Children()
	for _, c := range children {
		if s, ok := c.StringValue(); ok {
			out[s] = true
		}
	}
	return out
}

// effectiveFixed implements the "Fixed propagation" rule: an element's own
// optional bit overrides any inherited fixed context; its own fixed or
// fixedType bit establishes one; otherwise the inherited context survives
// unchanged.
func effectiveFixed(e *refract.Element, ctxFixed bool) bool {
	attrs := typeAttrSet(e)
	if attrs["optional"] {
		return false
	}
	if attrs["fixed"] || attrs["fixedType"] {
		return true
	}
	return ctxFixed
}

// applyNullable implements the "Nullable" rule against an already-built
// schema fragment: type widens to a two-element array, and an existing
// enum gains a null entry.
func applyNullable(m *Map, nullable bool) {
	if !nullable {
		return
	}
	if t, ok := m.Get("type"); ok {
		switch v := t.(type) {
		case string:
			m.Set("type", []any{v, "null"})
		case []any:
			m.Set("type", append(v, "null"))
		}
	}
	if en, ok := m.Get("enum"); ok {
		if arr, ok := en.([]any); ok {
			m.Set("enum", append(arr, nil))
		}
	}
}

// elementToJSONValue renders e as a plain JSON value (used for "default"
// and fixed-enum literals, which must appear as data, not as schema).
func elementToJSONValue(e *refract.Element) any {
	if e == nil {
		return nil
	}
	switch e.Variant {
	case refract.Null:
		return nil
	case refract.Bool:
		v, _ := e.BoolValue()
		return v
	case refract.Number:
		v, _ := e.NumberValue()
		return v
	case refract.String:
		v, _ := e.StringValue()
		return v
	case refract.Array:
		children, _ := e.Children()
		out := make([]any, len(children))
		for i, c := range children {
			out[i] = elementToJSONValue(c)
		}
		return out
	case refract.Object:
		children, _ := e.Children()
		m := newMap()
		for _, c := range children {
			mv, ok := c.MemberKV()
			if !ok {
				continue
			}
			k, _ := mv.Key.StringValue()
			m.Set(k, elementToJSONValue(mv.Value))
		}
		return m
	case refract.Enum:
		v, _ := e.EnumValue()
		return elementToJSONValue(v)
	default:
		return nil
	}
}
