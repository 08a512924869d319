// Package fixture parses a compact line-oriented notation into the mson
// package's AST shapes, so tests (and cmd/refractc's demo input) can write
//
//	struct Person {
//	  name: string required
//	  age: number optional
//	  address: object {
//	    city: string required
//	  }
//	  include Timestamps
//	}
//
// instead of hand-building deeply nested mson.DataStructure literals. This
// notation is not MSON — it carries no source-map or Markdown syntax of its
// own — and is only ever imported from _test.go files and cmd/refractc.
package fixture

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/apib/refract/mson"
)

// --- Participle grammar structs ---

// FileDef is the top-level grammar: zero or more struct definitions.
type FileDef struct {
	Structs []StructDef `parser:"@@*"`
}

// StructDef parses: struct Name ['(' ParentSymbol ')'] '{' MemberDef* '}'
type StructDef struct {
	Name    string      `parser:"'struct' @Ident"`
	Parent  *ParentRef  `parser:"@@?"`
	Members []MemberDef `parser:"'{' @@* '}'"`
}

// ParentRef parses: '(' Symbol ')'
type ParentRef struct {
	Symbol string `parser:"'(' @Ident ')'"`
}

// MemberDef is one of: a property member or a mixin include.
type MemberDef struct {
	Property *PropertyDef `parser:"  @@"`
	Mixin    *MixinDef    `parser:"| @@"`
}

// MixinDef parses: include Symbol
type MixinDef struct {
	Symbol string `parser:"'include' @Ident"`
}

// PropertyDef parses: Key ':' ['*'] TypeSpec Attr* Block? Literals?
type PropertyDef struct {
	Key      string      `parser:"@Ident ':'"`
	Variable bool        `parser:"@'*'?"`
	Type     TypeSpec    `parser:"@@"`
	Attrs    []string    `parser:"@('required' | 'optional' | 'fixed' | 'fixedType' | 'nullable')*"`
	Nested   []MemberDef `parser:"( '{' @@* '}' )?"`
	Literals []string    `parser:"( '[' @(String|Ident) (',' @(String|Ident))* ']' )?"`
}

// TypeSpec parses a base-type keyword or a named-type symbol.
type TypeSpec struct {
	Base   string `parser:"@('string' | 'number' | 'boolean' | 'array' | 'object' | 'enum')"`
	Symbol string `parser:"| @Ident"`
}

var fixtureLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_-]*`},
	{Name: "Punct", Pattern: `[{}()\[\]:,*]`},
})

// Parse parses text into the mson.DataStructure values it declares, one per
// top-level struct block, in source order.
func Parse(text string) ([]mson.DataStructure, error) {
	parser, err := participle.Build[FileDef](
		participle.Lexer(fixtureLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("build fixture parser: %w", err)
	}

	file, err := parser.ParseString("fixture", text)
	if err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}

	out := make([]mson.DataStructure, len(file.Structs))
	for i, s := range file.Structs {
		out[i] = convertStruct(s)
	}
	return out, nil
}

// ParseOne parses text and returns its single struct definition. It is an
// error for text to declare zero or more than one struct.
func ParseOne(text string) (mson.DataStructure, error) {
	all, err := Parse(text)
	if err != nil {
		return mson.DataStructure{}, err
	}
	if len(all) != 1 {
		return mson.DataStructure{}, fmt.Errorf("fixture: expected exactly one struct, got %d", len(all))
	}
	return all[0], nil
}

func convertStruct(s StructDef) mson.DataStructure {
	ds := mson.DataStructure{Name: mson.Name{Literal: s.Name}}
	if s.Parent != nil {
		ds.TypeDefinition.TypeSpecification.Name.Symbol = s.Parent.Symbol
	}
	members := convertMembers(s.Members)
	if len(members) > 0 {
		ds.TypeSections = []mson.TypeSection{{Class: mson.MemberTypeSectionClass, Members: members}}
	}
	return ds
}

func convertMembers(defs []MemberDef) []mson.Element {
	out := make([]mson.Element, 0, len(defs))
	for _, d := range defs {
		switch {
		case d.Property != nil:
			out = append(out, convertProperty(*d.Property))
		case d.Mixin != nil:
			out = append(out, mson.Element{
				ElementClass: mson.MixinElementClass,
				Mixin: &mson.Mixin{
					TypeSpecification: mson.TypeSpecification{Name: mson.TypeSpecificationName{Symbol: d.Mixin.Symbol}},
				},
			})
		}
	}
	return out
}

func convertProperty(p PropertyDef) mson.Element {
	typeSpec := convertTypeSpec(p.Type)
	attrs := convertAttrs(p.Attrs)

	var literals []mson.Literal
	for _, l := range p.Literals {
		literals = append(literals, mson.Literal{Value: unquote(l)})
	}

	pm := &mson.PropertyMember{
		Name: mson.PropertyName{Literal: p.Key, Variable: p.Variable},
		ValueDefinition: mson.ValueDefinition{
			Values:         literals,
			TypeDefinition: mson.TypeDefinition{TypeSpecification: typeSpec, Attributes: attrs},
		},
	}
	if nested := convertMembers(p.Nested); len(nested) > 0 {
		pm.TypeSections = []mson.TypeSection{{Class: mson.MemberTypeSectionClass, Members: nested}}
	}
	return mson.Element{ElementClass: mson.PropertyMemberElementClass, PropertyMember: pm}
}

func convertTypeSpec(t TypeSpec) mson.TypeSpecification {
	if t.Symbol != "" {
		return mson.TypeSpecification{Name: mson.TypeSpecificationName{Symbol: t.Symbol}}
	}
	base := mson.UndefinedTypeName
	switch t.Base {
	case "string":
		base = mson.StringTypeName
	case "number":
		base = mson.NumberTypeName
	case "boolean":
		base = mson.BooleanTypeName
	case "array":
		base = mson.ArrayTypeName
	case "object":
		base = mson.ObjectTypeName
	case "enum":
		base = mson.EnumTypeName
	}
	return mson.TypeSpecification{Name: mson.TypeSpecificationName{Base: base}}
}

func convertAttrs(names []string) mson.TypeAttributes {
	var out mson.TypeAttributes
	for _, n := range names {
		switch n {
		case "required":
			out |= mson.TypeAttributes(mson.RequiredTypeAttribute)
		case "optional":
			out |= mson.TypeAttributes(mson.OptionalTypeAttribute)
		case "fixed":
			out |= mson.TypeAttributes(mson.FixedTypeAttribute)
		case "fixedType":
			out |= mson.TypeAttributes(mson.FixedTypeTypeAttribute)
		case "nullable":
			out |= mson.TypeAttributes(mson.NullableTypeAttribute)
		}
	}
	return out
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
