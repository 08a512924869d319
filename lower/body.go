package lower

import (
	"strings"

	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// bucketEntry is one fill-rule contribution: the group of elements it
// produced and the source range that produced them.
type bucketEntry struct {
	children []*refract.Element
	rng      warning.Range
}

// collector holds the four typed buckets plus the description list that
// finalize folds into a finished element.
type collector struct {
	values       []bucketEntry
	samples      []bucketEntry
	defaults     []bucketEntry
	enumerations []bucketEntry
	descriptions []string
}

func rangeOf(sm mson.SourceMap) warning.Range {
	if sm.Empty() {
		return warning.Range{}
	}
	r := sm.Ranges[0]
	return warning.Range{Start: r[0], Length: r[1]}
}

// lowerBody builds the collector from valueDef and sections, then
// finalizes it into a fresh element of the target's variant. target is the
// already-resolved+disambiguated base type; it is never Undefined here.
func lowerBody(target mson.BaseTypeName, valueDef mson.ValueDefinition, sections []mson.TypeSection, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	primitive := !isCompoundBaseType(target)
	c := &collector{}

	if err := c.fillFromValueMember(target, valueDef, primitive, reg, sink); err != nil {
		return nil, err
	}
	c.fillFromNestedTypes(target, valueDef.TypeDefinition.TypeSpecification.NestedTypes, primitive, reg)
	if err := c.fillFromSections(target, sections, primitive, reg, sink); err != nil {
		return nil, err
	}

	return c.finalize(target, primitive), nil
}

func isCompoundBaseType(b mson.BaseTypeName) bool {
	switch b {
	case mson.ArrayTypeName, mson.ObjectTypeName, mson.EnumTypeName:
		return true
	default:
		return false
	}
}

// fillFromValueMember buckets the node's own value member: default and
// sample attributes redirect it, a multi-value enum becomes enumerations,
// anything else is a plain value.
func (c *collector) fillFromValueMember(target mson.BaseTypeName, valueDef mson.ValueDefinition, primitive bool, reg *refract.Registry, sink *warning.Sink) error {
	ta := valueDef.TypeDefinition.Attributes
	lits := valueDef.Values

	if len(lits) == 0 {
		if ta.Has(mson.DefaultTypeAttribute) {
			sink.Warn(warning.MSONError, warning.Range{}, "no value present when 'default' is specified")
		} else if ta.Has(mson.SampleTypeAttribute) {
			sink.Warn(warning.MSONError, warning.Range{}, "no value present when 'sample' is specified")
		}
		return nil
	}

	if primitive && len(lits) > 1 {
		return &warning.TooManyValuesError{ElementName: target.String(), Count: len(lits), Range: rangeOf(lits[0].SourceMap)}
	}

	children := make([]*refract.Element, 0, len(lits))
	for _, lit := range lits {
		var el *refract.Element
		rng := rangeOf(lit.SourceMap)
		if primitive {
			el = refract.Create(target, lit.Value, refract.ValueMode, sink, rng)
		} else {
			nested := selectNestedType(valueDef.TypeDefinition.TypeSpecification.NestedTypes, reg)
			mode := refract.ValueMode
			if lit.Variable {
				mode = refract.SampleMode
			}
			el = refract.Create(nested, lit.Value, mode, sink, rng)
		}
		children = append(children, el)
	}

	entry := bucketEntry{children: children, rng: rangeOf(lits[0].SourceMap)}
	switch {
	case ta.Has(mson.DefaultTypeAttribute):
		c.defaults = append(c.defaults, entry)
	case ta.Has(mson.SampleTypeAttribute) || (primitive && lits[0].Variable):
		c.samples = append(c.samples, entry)
	case target == mson.EnumTypeName && len(lits) > 1:
		c.enumerations = append(c.enumerations, entry)
	default:
		c.values = append(c.values, entry)
	}
	return nil
}

// fillFromNestedTypes buckets the nested type names of a compound target
// (the T1, T2 in `enum[T1, T2]`). Primitives have
// no nested types and are unaffected. A nested name that the registry
// cannot resolve to a root ancestor is treated as a variable placeholder
// (mode=sample); a resolvable named type is carried by name (mode=element);
// a bare reserved base type carries its own reserved name.
func (c *collector) fillFromNestedTypes(target mson.BaseTypeName, nested []mson.TypeSpecificationName, primitive bool, reg *refract.Registry) {
	if primitive {
		return
	}
	for _, n := range nested {
		base := mson.ObjectTypeName
		name := n.Symbol
		mode := refract.ElementMode

		if n.Base != mson.UndefinedTypeName {
			base = n.Base
			name = n.Base.String()
		} else if name != "" {
			base = ResolveType(mson.TypeSpecification{Name: n}, reg)
			if base == mson.UndefinedTypeName {
				base, mode = mson.StringTypeName, refract.SampleMode
			}
		}

		el := refract.Create(base, name, mode, nil, warning.Range{})
		entry := bucketEntry{children: []*refract.Element{el}}
		if target == mson.EnumTypeName {
			c.enumerations = append(c.enumerations, entry)
		} else {
			c.values = append(c.values, entry)
		}
	}
}

// fillFromSections buckets each type section by its class.
func (c *collector) fillFromSections(target mson.BaseTypeName, sections []mson.TypeSection, primitive bool, reg *refract.Registry, sink *warning.Sink) error {
	for _, sec := range sections {
		switch sec.Class {
		case mson.MemberTypeSectionClass:
			if primitive {
				// The MSON parser tolerates member sections on primitive
				// targets (e.g. a malformed document); lowering ignores them
				// rather than aborting.
				continue
			}
			children := make([]*refract.Element, 0, len(sec.Members))
			for _, m := range sec.Members {
				el, err := LowerElement(m, reg, sink)
				if err != nil {
					return err
				}
				if el != nil {
					children = append(children, el)
				}
			}
			entry := bucketEntry{children: children, rng: rangeOf(sec.SourceMap)}
			if target == mson.EnumTypeName {
				c.enumerations = append(c.enumerations, entry)
			} else {
				c.values = append(c.values, entry)
			}
		case mson.SampleTypeSectionClass:
			children := lowerSectionValue(target, sec.Value, primitive, reg, sink)
			c.samples = append(c.samples, bucketEntry{children: children, rng: rangeOf(sec.SourceMap)})
		case mson.DefaultTypeSectionClass:
			children := lowerSectionValue(target, sec.Value, primitive, reg, sink)
			c.defaults = append(c.defaults, bucketEntry{children: children, rng: rangeOf(sec.SourceMap)})
		case mson.BlockDescriptionTypeSectionClass:
			c.descriptions = append(c.descriptions, sec.Description)
		default:
			return &warning.UnknownSectionError{Range: rangeOf(sec.SourceMap)}
		}
	}
	return nil
}

func lowerSectionValue(target mson.BaseTypeName, vd mson.ValueDefinition, primitive bool, reg *refract.Registry, sink *warning.Sink) []*refract.Element {
	children := make([]*refract.Element, 0, len(vd.Values))
	for _, lit := range vd.Values {
		rng := rangeOf(lit.SourceMap)
		if primitive {
			children = append(children, refract.Create(target, lit.Value, refract.ValueMode, sink, rng))
			continue
		}
		nested := selectNestedType(vd.TypeDefinition.TypeSpecification.NestedTypes, reg)
		mode := refract.ValueMode
		if lit.Variable {
			mode = refract.SampleMode
		}
		children = append(children, refract.Create(nested, lit.Value, mode, sink, rng))
	}
	return children
}

// finalize folds the collected buckets into a fresh element: the value per
// target kind, then the samples and default attributes and the description
// meta entry.
func (c *collector) finalize(target mson.BaseTypeName, primitive bool) *refract.Element {
	v := refract.VariantForBaseType(target)
	el := refract.New(v)

	switch {
	case primitive:
		if len(c.values) > 0 && len(c.values[0].children) > 0 {
			first := c.values[0].children[0]
			if !first.Empty() {
				val, _ := firstValue(first)
				el.SetValue(val)
			}
		}
	case target == mson.EnumTypeName:
		finalizeEnum(el, c)
	default:
		var children []*refract.Element
		for _, entry := range c.values {
			children = append(children, entry.children...)
		}
		el.SetChildren(children)
	}

	if len(c.samples) > 0 {
		var children []*refract.Element
		for _, entry := range c.samples {
			children = append(children, entry.children...)
		}
		samples := refract.New(refract.Array)
		samples.SetChildren(children)
		el.Attributes().Set("samples", samples)
	}

	if len(c.defaults) > 0 {
		last := c.defaults[len(c.defaults)-1]
		if len(last.children) > 0 {
			el.Attributes().Set("default", last.children[0])
		}
	}

	if len(c.descriptions) > 0 {
		desc := refract.New(refract.String)
		desc.SetValue(strings.Join(c.descriptions, "\n"))
		el.Meta().Set("description", desc)
	}

	return el
}

// finalizeEnum applies the enum-specific finalize rule:
// a single one-child values entry becomes the chosen value; everything
// else (extra values entries, and the enumerations bucket) becomes the
// enumerations attribute.
func finalizeEnum(el *refract.Element, c *collector) {
	consumedValue := len(c.values) == 1 && len(c.values[0].children) == 1
	if consumedValue {
		el.SetEnumValue(c.values[0].children[0])
	}

	var enumChildren []*refract.Element
	if !consumedValue {
		for _, entry := range c.values {
			enumChildren = append(enumChildren, entry.children...)
		}
	}
	for _, entry := range c.enumerations {
		enumChildren = append(enumChildren, entry.children...)
	}
	if len(enumChildren) == 0 {
		return
	}
	enumerations := refract.New(refract.Array)
	enumerations.SetChildren(enumChildren)
	el.Attributes().Set("enumerations", enumerations)
}

func firstValue(e *refract.Element) (any, bool) {
	switch e.Variant {
	case refract.Bool:
		return e.BoolValue()
	case refract.Number:
		return e.NumberValue()
	case refract.String:
		return e.StringValue()
	default:
		return nil, false
	}
}
