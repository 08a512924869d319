// Package refract implements the Refract element tree: a closed, tagged
// set of node variants with an ordered meta/attributes map per node. Every
// edge in the tree is owning; a ref element's symbol is a relation, never
// ownership, so cycles cannot arise by construction.
//
// The variant set is closed by design, so that the lowering (package
// lower), expansion (package expand), and schema (package jsonschema)
// passes can each dispatch on Element.Variant with an ordinary switch
// rather than a type hierarchy.
package refract

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Variant is one of the reserved node shapes of the element tree.
type Variant int

const (
	Null Variant = iota
	Bool
	Number
	String
	Array
	Object
	Enum
	Member
	Ref
	Extend
	Option
	Select
	Holder
)

var variantNames = map[Variant]string{
	Null:   "null",
	Bool:   "boolean",
	Number: "number",
	String: "string",
	Array:  "array",
	Object: "object",
	Enum:   "enum",
	Member: "member",
	Ref:    "ref",
	Extend: "extend",
	Option: "option",
	Select: "select",
	Holder: "holder",
}

var namesToVariant = func() map[string]Variant {
	m := make(map[string]Variant, len(variantNames))
	for v, n := range variantNames {
		m[n] = v
	}
	return m
}()

func (v Variant) String() string {
	if n, ok := variantNames[v]; ok {
		return n
	}
	return "unknown"
}

// IsReserved reports whether name names a variant rather than a named type.
func IsReserved(name string) bool {
	_, ok := namesToVariant[name]
	return ok
}

// VariantByName returns the Variant a reserved name refers to.
func VariantByName(name string) (Variant, bool) {
	v, ok := namesToVariant[name]
	return v, ok
}

// MemberValue is the value of a Member-variant element: an owned key and
// an owned value.
type MemberValue struct {
	Key   *Element
	Value *Element
}

// OrderedMap is the shape of Meta and Attributes: an ordered, string-keyed,
// duplicate-replaces-in-place map of owned elements.
type OrderedMap = orderedmap.OrderedMap[string, *Element]

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return orderedmap.New[string, *Element]()
}

// Element is one node of the Refract tree.
type Element struct {
	Variant     Variant
	ElementName string

	meta       *OrderedMap
	attributes *OrderedMap

	value    any
	hasValue bool
}

// New returns an empty element of the given variant. ElementName defaults
// to the variant's reserved name.
func New(v Variant) *Element {
	return &Element{Variant: v, ElementName: v.String()}
}

// NewNamed returns an empty element of the given variant with the given
// element-name (used when a named type inherits directly from a variant).
func NewNamed(v Variant, name string) *Element {
	e := New(v)
	e.ElementName = name
	return e
}

// Meta returns this element's meta map, creating it on first access.
func (e *Element) Meta() *OrderedMap {
	if e.meta == nil {
		e.meta = NewOrderedMap()
	}
	return e.meta
}

// Attributes returns this element's attributes map, creating it on first access.
func (e *Element) Attributes() *OrderedMap {
	if e.attributes == nil {
		e.attributes = NewOrderedMap()
	}
	return e.attributes
}

// HasMeta reports whether Meta has been materialized and is non-empty.
func (e *Element) HasMeta() bool { return e.meta != nil && e.meta.Len() > 0 }

// HasAttributes reports whether Attributes has been materialized and is non-empty.
func (e *Element) HasAttributes() bool { return e.attributes != nil && e.attributes.Len() > 0 }

// MetaID returns the meta.id element's string value, if set.
func (e *Element) MetaID() (string, bool) {
	if e.meta == nil {
		return "", false
	}
	v, ok := e.meta.Get("id")
	if !ok || v.Variant != String {
		return "", false
	}
	s, ok := v.StringValue()
	return s, ok
}

// SetMetaID sets meta.id to a string element carrying name.
func (e *Element) SetMetaID(name string) {
	id := New(String)
	id.SetValue(name)
	e.Meta().Set("id", id)
}

// Empty reports whether this element's value has never been set. An
// element holding the empty sequence is not empty.
func (e *Element) Empty() bool {
	return !e.hasValue
}

// SetValue sets the element's value. The caller is responsible for passing
// a shape appropriate to e.Variant; typed accessors below enforce this on
// read.
func (e *Element) SetValue(v any) {
	e.value = v
	e.hasValue = true
}

// BoolValue returns the element's boolean value.
func (e *Element) BoolValue() (bool, bool) {
	if !e.hasValue {
		return false, false
	}
	b, ok := e.value.(bool)
	return b, ok
}

// NumberValue returns the element's numeric value.
func (e *Element) NumberValue() (float64, bool) {
	if !e.hasValue {
		return 0, false
	}
	n, ok := e.value.(float64)
	return n, ok
}

// StringValue returns the element's string value.
func (e *Element) StringValue() (string, bool) {
	if !e.hasValue {
		return "", false
	}
	s, ok := e.value.(string)
	return s, ok
}

// Children returns the owned child elements of an array, object, extend,
// option, or select element. It returns nil, false for any other variant
// or when the value is unset.
func (e *Element) Children() ([]*Element, bool) {
	if !e.hasValue {
		return nil, false
	}
	switch e.Variant {
	case Array, Object, Extend, Option, Select:
		c, ok := e.value.([]*Element)
		return c, ok
	default:
		return nil, false
	}
}

// SetChildren sets the owned children of an array, object, extend, option,
// or select element.
func (e *Element) SetChildren(children []*Element) {
	e.SetValue(children)
}

// EnumValue returns the chosen value of an enum element.
func (e *Element) EnumValue() (*Element, bool) {
	if !e.hasValue || e.Variant != Enum {
		return nil, false
	}
	v, ok := e.value.(*Element)
	return v, ok
}

// SetEnumValue sets the chosen value of an enum element.
func (e *Element) SetEnumValue(v *Element) {
	e.SetValue(v)
}

// MemberKV returns the key/value pair of a Member element.
func (e *Element) MemberKV() (*MemberValue, bool) {
	if !e.hasValue || e.Variant != Member {
		return nil, false
	}
	m, ok := e.value.(*MemberValue)
	return m, ok
}

// SetMember sets the key/value pair of a Member element.
func (e *Element) SetMember(key, value *Element) {
	e.SetValue(&MemberValue{Key: key, Value: value})
}

// RefSymbol returns the referenced symbol of a Ref element.
func (e *Element) RefSymbol() (string, bool) {
	if !e.hasValue || e.Variant != Ref {
		return "", false
	}
	s, ok := e.value.(string)
	return s, ok
}

// SetRefSymbol sets the referenced symbol of a Ref element.
func (e *Element) SetRefSymbol(symbol string) {
	e.SetValue(symbol)
}

// HolderValue returns the single owned child of a Holder element.
func (e *Element) HolderValue() (*Element, bool) {
	if !e.hasValue || e.Variant != Holder {
		return nil, false
	}
	v, ok := e.value.(*Element)
	return v, ok
}

// SetHolderValue sets the single owned child of a Holder element.
func (e *Element) SetHolderValue(v *Element) {
	e.SetValue(v)
}
