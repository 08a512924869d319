package jsonschema

import (
	"github.com/apib/refract/refract"
)

// Generate produces the draft-04 JSON Schema document for e.
// The expansion pass (package expand) is expected to have run first, but
// Generate tolerates an unexpanded tree by merging any Extend nodes it
// still finds itself.
func Generate(e *refract.Element) (*Map, error) {
	g := &generator{definitions: newMap()}
	body, err := g.visit(e, false)
	if err != nil {
		return nil, err
	}

	out := newMap()
	out.Set("$schema", "http://json-schema.org/draft-04/schema#")
	for pair := body.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	if g.definitions.Len() > 0 {
		out.Set("definitions", g.definitions)
	}
	return out, nil
}

// generator carries the shared definitions map that variable-property
// handling (in object) accumulates into across the whole walk; only the
// top-level Generate call appends it to the final document.
type generator struct {
	definitions *Map
}

func (g *generator) visit(e *refract.Element, ctxFixed bool) (*Map, error) {
	if e == nil {
		m := newMap()
		m.Set("type", "null")
		return m, nil
	}

	switch e.Variant {
	case refract.Extend:
		merged, err := refract.Merge(e)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			return newMap(), nil
		}
		return g.visit(merged, ctxFixed)
	case refract.Null:
		m := newMap()
		m.Set("type", "null")
		return m, nil
	case refract.Bool:
		return g.primitive("boolean", e, ctxFixed)
	case refract.Number:
		return g.primitive("number", e, ctxFixed)
	case refract.String:
		return g.primitive("string", e, ctxFixed)
	case refract.Enum:
		return g.enum(e)
	case refract.Array:
		return g.array(e, ctxFixed)
	case refract.Object:
		return g.object(e, ctxFixed)
	case refract.Select:
		return g.selectOneOf(e, ctxFixed)
	case refract.Ref:
		return g.ref(e, ctxFixed)
	default:
		return newMap(), nil
	}
}

// primitive implements the "Primitives" and "Nullable" rules: a fixed
// primitive with a value narrows to a one-element enum, a non-empty
// default attribute carries over as data, and a nullable primitive widens
// type to a two-element array and extends any enum with a null entry.
func (g *generator) primitive(typeName string, e *refract.Element, ctxFixed bool) (*Map, error) {
	m := newMap()
	m.Set("type", typeName)

	fixed := effectiveFixed(e, ctxFixed)
	if fixed && !e.Empty() {
		m.Set("enum", []any{elementToJSONValue(e)})
	}

	if def, ok := e.Attributes().Get("default"); ok && !def.Empty() {
		m.Set("default", elementToJSONValue(def))
	}

	applyNullable(m, typeAttrSet(e)["nullable"])
	return m, nil
}

// array implements the "Array" rule: fixed/fixedType content pins down
// items, either as a single schema or, for more than one child, as a tuple.
func (g *generator) array(e *refract.Element, ctxFixed bool) (*Map, error) {
	m := newMap()
	m.Set("type", "array")

	own := typeAttrSet(e)
	childCtx := effectiveFixed(e, ctxFixed)
	children, _ := e.Children()

	if (own["fixed"] || own["fixedType"]) && len(children) > 0 {
		if len(children) == 1 {
			item, err := g.visit(children[0], childCtx)
			if err != nil {
				return nil, err
			}
			m.Set("items", item)
		} else {
			items := make([]any, len(children))
			for i, c := range children {
				item, err := g.visit(c, childCtx)
				if err != nil {
					return nil, err
				}
				items[i] = item
			}
			m.Set("items", items)
		}
	}

	if def, ok := e.Attributes().Get("default"); ok && !def.Empty() {
		m.Set("default", elementToJSONValue(def))
	}

	applyNullable(m, own["nullable"])
	return m, nil
}

// enum implements the "Enum" rule: candidates are the chosen value plus the
// enumerations attribute, grouped by element-name in first-seen order.
func (g *generator) enum(e *refract.Element) (*Map, error) {
	type group struct {
		name   string
		values []any
	}
	var groups []*group
	index := map[string]*group{}

	add := func(el *refract.Element) {
		if el == nil {
			return
		}
		grp, ok := index[el.ElementName]
		if !ok {
			grp = &group{name: el.ElementName}
			index[el.ElementName] = grp
			groups = append(groups, grp)
		}
		grp.values = append(grp.values, elementToJSONValue(el))
	}

	if v, ok := e.EnumValue(); ok {
		add(v)
	}
	if enums, ok := e.Attributes().Get("enumerations"); ok {
		children, _ := enums.Children()
		for _, c := range children {
			add(c)
		}
	}

	m := newMap()
	switch len(groups) {
	case 0:
	case 1:
		m.Set("type", groups[0].name)
		m.Set("enum", groups[0].values)
	default:
		anyOf := make([]any, len(groups))
		for i, grp := range groups {
			gm := newMap()
			gm.Set("type", grp.name)
			gm.Set("enum", grp.values)
			anyOf[i] = gm
		}
		m.Set("anyOf", anyOf)
	}

	if def, ok := e.Attributes().Get("default"); ok && !def.Empty() {
		m.Set("default", elementToJSONValue(def))
	}
	return m, nil
}

// object implements the "Object" rule in full: required-key collection,
// per-member property schemas with carried-over descriptions, variable
// properties folded into shared definitions and referenced via allOf,
// fixed-driven additionalProperties, and oneOf alternatives contributed by
// any select child.
func (g *generator) object(e *refract.Element, ctxFixed bool) (*Map, error) {
	own := typeAttrSet(e)
	childCtx := effectiveFixed(e, ctxFixed)

	props := newMap()
	var required []any
	var variableRefs []any
	var oneOf []any

	children, _ := e.Children()
	for _, c := range children {
		switch c.Variant {
		case refract.Member:
			mv, ok := c.MemberKV()
			if !ok {
				continue
			}
			key, val := mv.Key, mv.Value
			valAttrs := typeAttrSet(val)

			valSchema, err := g.visit(val, childCtx)
			if err != nil {
				return nil, err
			}
			if desc, ok := val.Meta().Get("description"); ok {
				if s, ok := desc.StringValue(); ok {
					valSchema.Set("description", s)
				}
			}

			keyName, _ := key.StringValue()
			if variable, _ := key.Attributes().Get("variable"); variable != nil {
				defName := key.ElementName
				if _, exists := g.definitions.Get(defName); !exists {
					def := newMap()
					def.Set("type", "object")
					pattern := newMap()
					pattern.Set("", valSchema)
					def.Set("patternProperties", pattern)
					g.definitions.Set(defName, def)
				}
				ref := newMap()
				ref.Set("$ref", "#/definitions/"+defName)
				variableRefs = append(variableRefs, ref)
				continue
			}

			props.Set(keyName, valSchema)
			if valAttrs["required"] || valAttrs["fixed"] || (childCtx && !valAttrs["optional"]) {
				required = append(required, keyName)
			}
		case refract.Ref:
			if resolved, ok := c.Attributes().Get("resolved"); ok {
				asObject, err := resolveToObject(resolved)
				if err != nil {
					return nil, err
				}
				inlined, err := g.object(asObject, childCtx)
				if err != nil {
					return nil, err
				}
				if p, ok := inlined.Get("properties"); ok {
					if pm, ok := p.(*Map); ok {
						for pair := pm.Oldest(); pair != nil; pair = pair.Next() {
							props.Set(pair.Key, pair.Value)
						}
					}
				}
				if r, ok := inlined.Get("required"); ok {
					if rs, ok := r.([]any); ok {
						required = append(required, rs...)
					}
				}
			}
		case refract.Select:
			alts, err := g.oneOfAlternatives(c, childCtx)
			if err != nil {
				return nil, err
			}
			oneOf = append(oneOf, alts...)
		}
	}

	m := newMap()
	m.Set("type", "object")
	if len(variableRefs) > 0 {
		allOf := append([]any{}, variableRefs...)
		if props.Len() > 0 {
			propsSchema := newMap()
			propsSchema.Set("type", "object")
			propsSchema.Set("properties", props)
			allOf = append(allOf, propsSchema)
		}
		m.Set("allOf", allOf)
	} else if props.Len() > 0 {
		m.Set("properties", props)
	}
	if len(required) > 0 {
		m.Set("required", required)
	}
	if len(oneOf) > 0 {
		m.Set("oneOf", oneOf)
	}
	if own["fixed"] || own["fixedType"] {
		m.Set("additionalProperties", false)
	}

	applyNullable(m, own["nullable"])
	return m, nil
}

// resolveToObject reduces a mixin's resolved element to the Object whose
// members object() can inline: an Extend (the common shape for a resolved
// named type) is merged first; anything else that isn't already an Object
// contributes no members.
func resolveToObject(e *refract.Element) (*refract.Element, error) {
	switch e.Variant {
	case refract.Extend:
		merged, err := refract.Merge(e)
		if err != nil {
			return nil, err
		}
		if merged == nil {
			return refract.New(refract.Object), nil
		}
		return resolveToObject(merged)
	case refract.Object:
		return e, nil
	default:
		return refract.New(refract.Object), nil
	}
}

func (g *generator) oneOfAlternatives(sel *refract.Element, ctxFixed bool) ([]any, error) {
	options, _ := sel.Children()
	out := make([]any, 0, len(options))
	for _, opt := range options {
		members, _ := opt.Children()
		synthetic := refract.New(refract.Object)
		synthetic.SetChildren(members)
		schema, err := g.object(synthetic, ctxFixed)
		if err != nil {
			return nil, err
		}
		out = append(out, schema)
	}
	return out, nil
}

func (g *generator) selectOneOf(e *refract.Element, ctxFixed bool) (*Map, error) {
	alts, err := g.oneOfAlternatives(e, ctxFixed)
	if err != nil {
		return nil, err
	}
	m := newMap()
	m.Set("oneOf", alts)
	return m, nil
}

func (g *generator) ref(e *refract.Element, ctxFixed bool) (*Map, error) {
	if resolved, ok := e.Attributes().Get("resolved"); ok {
		return g.visit(resolved, ctxFixed)
	}
	return newMap(), nil
}
