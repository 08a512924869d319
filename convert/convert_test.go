package convert

import (
	"testing"

	"github.com/apib/refract/jsonschema"
	"github.com/apib/refract/mson"
)

func propertyMember(name string, base mson.BaseTypeName, attrs mson.TypeAttribute) mson.Element {
	return mson.Element{
		ElementClass: mson.PropertyMemberElementClass,
		PropertyMember: &mson.PropertyMember{
			Name: mson.PropertyName{Literal: name},
			ValueDefinition: mson.ValueDefinition{
				TypeDefinition: mson.TypeDefinition{
					TypeSpecification: mson.TypeSpecification{Name: mson.TypeSpecificationName{Base: base}},
					Attributes:        mson.TypeAttributes(attrs),
				},
			},
		},
	}
}

func TestConvertDataStructure_SimpleObject(t *testing.T) {
	ds := mson.DataStructure{
		Name: mson.Name{Literal: "Person"},
		TypeSections: []mson.TypeSection{
			{
				Class: mson.MemberTypeSectionClass,
				Members: []mson.Element{
					propertyMember("name", mson.StringTypeName, mson.RequiredTypeAttribute),
					propertyMember("age", mson.NumberTypeName, 0),
				},
			},
		},
	}

	schema, expanded, warnings, err := ConvertDataStructure(ds, Options{})
	if err != nil {
		t.Fatalf("ConvertDataStructure: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if expanded == nil {
		t.Fatalf("expected a non-nil expanded tree")
	}
	typ, ok := schema.Get("type")
	if !ok || typ != "object" {
		t.Fatalf("expected type object, got %v (ok=%v)", typ, ok)
	}
	props, ok := schema.Get("properties")
	if !ok {
		t.Fatalf("expected properties")
	}
	pm := props.(*jsonschema.Map)
	if pm.Len() != 2 {
		t.Errorf("expected 2 properties, got %d", pm.Len())
	}
	required, ok := schema.Get("required")
	if !ok {
		t.Fatalf("expected required")
	}
	if list := required.([]any); len(list) != 1 || list[0] != "name" {
		t.Errorf("expected required [name], got %v", list)
	}
}

func TestConvertDataStructure_Empty(t *testing.T) {
	schema, expanded, _, err := ConvertDataStructure(mson.DataStructure{}, Options{})
	if err != nil {
		t.Fatalf("ConvertDataStructure: %v", err)
	}
	if schema != nil || expanded != nil {
		t.Errorf("expected nil schema and tree for an empty data structure")
	}
}

func TestPipeline_InheritanceAcrossDataStructures(t *testing.T) {
	p := NewPipeline(Options{})

	base := mson.DataStructure{
		Name: mson.Name{Literal: "Base"},
		TypeSections: []mson.TypeSection{
			{Class: mson.MemberTypeSectionClass, Members: []mson.Element{
				propertyMember("id", mson.StringTypeName, mson.RequiredTypeAttribute),
			}},
		},
	}
	if _, err := p.Register(base); err != nil {
		t.Fatalf("Register(base): %v", err)
	}

	derived := mson.DataStructure{
		Name: mson.Name{Literal: "Derived"},
		TypeDefinition: mson.TypeDefinition{
			TypeSpecification: mson.TypeSpecification{Name: mson.TypeSpecificationName{Symbol: "Base"}},
		},
		TypeSections: []mson.TypeSection{
			{Class: mson.MemberTypeSectionClass, Members: []mson.Element{
				propertyMember("label", mson.StringTypeName, 0),
			}},
		},
	}
	el, err := p.Register(derived)
	if err != nil {
		t.Fatalf("Register(derived): %v", err)
	}

	schema, _, err := p.Convert(el)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	props, ok := schema.Get("properties")
	if !ok {
		t.Fatalf("expected properties from the merged extend")
	}
	pm := props.(*jsonschema.Map)
	if _, ok := pm.Get("id"); !ok {
		t.Errorf("expected inherited property %q", "id")
	}
	if _, ok := pm.Get("label"); !ok {
		t.Errorf("expected own property %q", "label")
	}
}

func TestConvertDataStructure_StripsSourceMapByDefault(t *testing.T) {
	ds := mson.DataStructure{
		Name:      mson.Name{Literal: "Thing"},
		SourceMap: mson.SourceMap{Ranges: [][2]int{{0, 5}}},
		TypeSections: []mson.TypeSection{
			{Class: mson.MemberTypeSectionClass, Members: []mson.Element{
				propertyMember("x", mson.NumberTypeName, 0),
			}},
		},
	}

	_, expanded, _, err := ConvertDataStructure(ds, Options{})
	if err != nil {
		t.Fatalf("ConvertDataStructure: %v", err)
	}
	if expanded.HasAttributes() {
		if _, ok := expanded.Attributes().Get("sourceMap"); ok {
			t.Errorf("expected sourceMap stripped when EmitSourceMap is false")
		}
	}
}

func TestConvertDataStructure_KeepsSourceMapWhenRequested(t *testing.T) {
	ds := mson.DataStructure{
		Name:      mson.Name{Literal: "Thing"},
		SourceMap: mson.SourceMap{Ranges: [][2]int{{0, 5}}},
	}

	_, expanded, _, err := ConvertDataStructure(ds, Options{EmitSourceMap: true})
	if err != nil {
		t.Fatalf("ConvertDataStructure: %v", err)
	}
	if !expanded.HasAttributes() {
		t.Fatalf("expected sourceMap attribute to survive")
	}
	if _, ok := expanded.Attributes().Get("sourceMap"); !ok {
		t.Errorf("expected sourceMap attribute present")
	}
}
