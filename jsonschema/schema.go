// Package jsonschema implements the draft-04 JSON Schema generation
// visitor: it walks a (typically already-expanded) Refract element tree
// and produces a JSON-serializable schema document, with variable
// properties folded into a shared definitions map.
package jsonschema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is the ordered, string-keyed document type every schema fragment is
// built from, so that marshaling to JSON preserves the key order this
// package constructs deliberately ($schema, type, properties, required,
// oneOf, additionalProperties, definitions).
type Map = orderedmap.OrderedMap[string, any]

func newMap() *Map {
	return orderedmap.New[string, any]()
}
