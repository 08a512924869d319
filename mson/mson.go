// Package mson defines the input AST collaborator that the lowering pass
// (package lower) consumes: a pre-parsed Markdown Syntax for Object
// Notation tree, annotated with source maps.
//
// This package does not parse Markdown or MSON text. It is the contract a
// real MSON parser is expected to produce; the compact textual notation
// parsed by mson/fixture exists only to build trees of this shape cheaply
// in tests and in the cmd/refractc demo.
package mson

// BaseTypeName is one of the MSON base types, or Undefined when a member's
// type must be disambiguated by lowering.
type BaseTypeName int

const (
	UndefinedTypeName BaseTypeName = iota
	BooleanTypeName
	NumberTypeName
	StringTypeName
	ArrayTypeName
	ObjectTypeName
	EnumTypeName
)

func (b BaseTypeName) String() string {
	switch b {
	case BooleanTypeName:
		return "boolean"
	case NumberTypeName:
		return "number"
	case StringTypeName:
		return "string"
	case ArrayTypeName:
		return "array"
	case ObjectTypeName:
		return "object"
	case EnumTypeName:
		return "enum"
	default:
		return "undefined"
	}
}

// SourceMap is an opaque set of character ranges, each a (start, length)
// pair. The core never interprets it beyond carrying it forward; it is
// rendered by an external serializer.
type SourceMap struct {
	Ranges [][2]int
}

// Empty reports whether the source map carries no ranges.
func (s SourceMap) Empty() bool {
	return len(s.Ranges) == 0
}

// TypeAttribute is one bit of the TypeAttributes bitset.
type TypeAttribute uint8

const (
	RequiredTypeAttribute TypeAttribute = 1 << iota
	OptionalTypeAttribute
	FixedTypeAttribute
	FixedTypeTypeAttribute
	NullableTypeAttribute
	DefaultTypeAttribute
	SampleTypeAttribute
)

// TypeAttributes is the bitset attached to a ValueMember or PropertyMember.
type TypeAttributes uint8

// Has reports whether the bitset contains the given attribute.
func (t TypeAttributes) Has(a TypeAttribute) bool {
	return TypeAttributes(a)&t != 0
}

// TypeSpecification names a member's type: a base type (possibly
// Undefined), the symbol of a named type when the base type is itself a
// named-type reference, and any nested type names (e.g. the T1, T2 in
// `enum[T1, T2]`).
type TypeSpecification struct {
	Name        TypeSpecificationName
	NestedTypes []TypeSpecificationName
}

// TypeSpecificationName is either a reserved base type or a named-type
// symbol (at most one is meaningful at a time; Symbol is empty for a
// reserved base type).
type TypeSpecificationName struct {
	Base   BaseTypeName
	Symbol string
}

// TypeDefinition pairs a TypeSpecification with the attribute bitset that
// applies to the member it types.
type TypeDefinition struct {
	TypeSpecification TypeSpecification
	Attributes        TypeAttributes
}

// Literal is a single scalar token: the text as written, whether it was
// written as a "variable" placeholder value (e.g. `*id*`), and its source
// range.
type Literal struct {
	Value     string
	Variable  bool
	SourceMap SourceMap
}

// ValueDefinition holds zero or more literal values and the (possibly
// Undefined) type they were annotated with, e.g. `1, 2, 3 (array[number])`.
type ValueDefinition struct {
	Values         []Literal
	TypeDefinition TypeDefinition
}

// Name is the literal name of a data structure or a property key, with its
// own source map.
type Name struct {
	Literal   string
	SourceMap SourceMap
}

// TypeSectionClass distinguishes the four TypeSection payload shapes.
type TypeSectionClass int

const (
	MemberTypeSectionClass TypeSectionClass = iota
	SampleTypeSectionClass
	DefaultTypeSectionClass
	BlockDescriptionTypeSectionClass
)

// TypeSection is one block of a DataStructure or ValueMember body: either a
// list of member Elements, a sample value, a default value, or free-text
// description.
type TypeSection struct {
	Class       TypeSectionClass
	Members     []Element       // MemberTypeSectionClass
	Value       ValueDefinition // SampleTypeSectionClass, DefaultTypeSectionClass
	Description string          // BlockDescriptionTypeSectionClass
	SourceMap   SourceMap
}

// ElementClass distinguishes the MSON element shapes that can appear inside
// a TypeSection's member list or at the top of a DataStructure.
type ElementClass int

const (
	PropertyMemberElementClass ElementClass = iota
	ValueMemberElementClass
	MixinElementClass
	OneOfElementClass
	GroupElementClass
)

// Element is one node of the MSON tree. Exactly one of the payload fields
// is meaningful, selected by ElementClass.
type Element struct {
	ElementClass ElementClass

	PropertyMember *PropertyMember
	ValueMember    *ValueMember
	Mixin          *Mixin
	OneOf          *OneOf
	Group          *Group

	SourceMap SourceMap
}

// ValueMember is a member that carries a value (and, recursively, its own
// nested TypeSections) but no property key — used for array items, enum
// alternatives, and the body of anonymous structures.
type ValueMember struct {
	ValueDefinition ValueDefinition
	TypeSections    []TypeSection
	SourceMap       SourceMap
}

// PropertyMember is an object member: a key (possibly a variable
// placeholder), a ValueDefinition, and nested TypeSections.
type PropertyMember struct {
	Name            PropertyName
	ValueDefinition ValueDefinition
	TypeSections    []TypeSection
	SourceMap       SourceMap
}

// PropertyName is a property key, which may be a literal string or a
// variable placeholder typed by a ValueDefinition.
type PropertyName struct {
	Literal   string
	Variable  bool
	Variables []ValueDefinition // all variable type annotations found; lowering warns and uses [0]
	SourceMap SourceMap
}

// Mixin is a `Include Other` reference.
type Mixin struct {
	TypeSpecification TypeSpecification
	SourceMap         SourceMap
}

// OneOf is a `One Of` block; each Alternative is either a Group (whose
// children contribute directly) or a single Element.
type OneOf struct {
	Alternatives []OneOfAlternative
	SourceMap    SourceMap
}

// OneOfAlternative is one branch of a OneOf.
type OneOfAlternative struct {
	Group   *Group
	Element *Element
}

// Group is a set of Elements that, inside a OneOf alternative, contribute
// their children directly into the enclosing option rather than as one
// nested element.
type Group struct {
	Elements  []Element
	SourceMap SourceMap
}

// DataStructure is a top-level named type declaration.
type DataStructure struct {
	Name           Name
	TypeDefinition TypeDefinition
	TypeSections   []TypeSection
	SourceMap      SourceMap
}
