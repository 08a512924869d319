// Package convert orchestrates the conversion pipeline end to end: MSON →
// Refract lowering (package lower), expansion (package expand), and JSON
// Schema generation (package jsonschema), sharing one registry and one
// warning sink across a batch of related data structures.
package convert

import (
	"github.com/apib/refract/expand"
	"github.com/apib/refract/jsonschema"
	"github.com/apib/refract/lower"
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// Options holds the conversion pipeline's configuration.
type Options struct {
	// EmitSourceMap controls whether the "sourceMap" attribute lowering
	// attaches to every element survives into Convert's output. It
	// defaults to false (the zero value): source maps are stripped unless
	// a caller opts in.
	EmitSourceMap bool
}

// Pipeline owns the one registry and one warning sink a related batch of
// conversions shares: register every named type a document
// defines first, then convert whichever of them the caller needs a schema
// for, in any order, with mixins and inheritance resolved against the
// whole batch.
type Pipeline struct {
	Options Options

	reg  *refract.Registry
	sink *warning.Sink
}

// NewPipeline returns a Pipeline with a fresh registry and warning sink.
func NewPipeline(opts Options) *Pipeline {
	return &Pipeline{Options: opts, reg: refract.NewRegistry(), sink: &warning.Sink{}}
}

// Registry exposes the pipeline's registry, e.g. to look up a named type's
// lowered form directly.
func (p *Pipeline) Registry() *refract.Registry { return p.reg }

// Warnings returns every warning accumulated so far across every Register
// and Convert call made on this pipeline.
func (p *Pipeline) Warnings() []warning.Warning { return p.sink.Warnings() }

// Register lowers ds (C4) and, if it carries a name, adds it to the
// pipeline's registry (C2) so later Convert calls can resolve inheritance
// and mixins against it. It returns (nil, nil) for an empty data
// structure, matching lower.LowerDataStructure.
func (p *Pipeline) Register(ds mson.DataStructure) (*refract.Element, error) {
	el, err := lower.LowerDataStructure(ds, p.reg, p.sink)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, nil
	}
	if _, ok := el.MetaID(); ok {
		if _, err := p.reg.Add(el); err != nil {
			return nil, err
		}
	}
	return el, nil
}

// Convert runs C5 (expansion) and C6 (schema generation) over el, an
// element this pipeline's Register returned. It returns the generated
// schema and the expanded tree the schema was generated from.
func (p *Pipeline) Convert(el *refract.Element) (*jsonschema.Map, *refract.Element, error) {
	expanded, err := expand.Expand(p.reg, el)
	if err != nil {
		return nil, nil, err
	}
	if !p.Options.EmitSourceMap {
		stripSourceMaps(expanded)
	}
	schema, err := jsonschema.Generate(expanded)
	if err != nil {
		return nil, nil, err
	}
	return schema, expanded, nil
}

// ConvertDataStructure is the one-shot convenience entry point for the
// common case of converting a single data structure with no other named
// types to register against: register it, then convert it.
func ConvertDataStructure(ds mson.DataStructure, opts Options) (*jsonschema.Map, *refract.Element, []warning.Warning, error) {
	p := NewPipeline(opts)
	el, err := p.Register(ds)
	if err != nil {
		return nil, nil, p.Warnings(), err
	}
	if el == nil {
		return nil, nil, p.Warnings(), nil
	}
	schema, expanded, err := p.Convert(el)
	return schema, expanded, p.Warnings(), err
}

// stripSourceMaps removes the "sourceMap" attribute lower's
// attachSourceMap added from e and every element reachable from it along
// an owning edge.
func stripSourceMaps(e *refract.Element) {
	if e == nil {
		return
	}
	if e.HasAttributes() {
		e.Attributes().Delete("sourceMap")
	}
	if e.HasMeta() {
		for pair := e.Meta().Oldest(); pair != nil; pair = pair.Next() {
			stripSourceMaps(pair.Value)
		}
	}
	if e.HasAttributes() {
		for pair := e.Attributes().Oldest(); pair != nil; pair = pair.Next() {
			stripSourceMaps(pair.Value)
		}
	}
	if e.Empty() {
		return
	}
	switch e.Variant {
	case refract.Array, refract.Object, refract.Extend, refract.Option, refract.Select:
		children, _ := e.Children()
		for _, c := range children {
			stripSourceMaps(c)
		}
	case refract.Enum:
		v, _ := e.EnumValue()
		stripSourceMaps(v)
	case refract.Holder:
		v, _ := e.HolderValue()
		stripSourceMaps(v)
	case refract.Member:
		mv, _ := e.MemberKV()
		stripSourceMaps(mv.Key)
		stripSourceMaps(mv.Value)
	}
}
