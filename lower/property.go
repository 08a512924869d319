package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// LowerPropertyMember builds the key element (warning and using the first
// if multiple variable annotations are given), lowers the value body, and
// assembles a Member element from the two.
func LowerPropertyMember(pm mson.PropertyMember, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	key, err := lowerPropertyKey(pm.Name, reg, sink)
	if err != nil {
		return nil, err
	}

	resolved := ResolveType(pm.ValueDefinition.TypeDefinition.TypeSpecification, reg)
	hasSymbolOrMembers := pm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol != "" || hasMemberSection(pm.TypeSections)
	target := Disambiguate(resolved, len(pm.ValueDefinition.Values), hasSymbolOrMembers, mson.StringTypeName)

	value, err := lowerBody(target, pm.ValueDefinition, pm.TypeSections, reg, sink)
	if err != nil {
		return nil, err
	}
	if pm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol != "" {
		value.ElementName = pm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol
	}
	lowerTypeAttributesInto(value, pm.ValueDefinition.TypeDefinition.Attributes, sink)
	attachSourceMap(value, pm.SourceMap)

	member := refract.New(refract.Member)
	member.SetMember(key, value)
	attachSourceMap(member, pm.SourceMap)
	return member, nil
}

// lowerPropertyKey builds a property member's key element, handling the
// variable-placeholder form.
func lowerPropertyKey(name mson.PropertyName, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	if !name.Variable {
		key := refract.New(refract.String)
		key.SetValue(name.Literal)
		attachSourceMap(key, name.SourceMap)
		return key, nil
	}

	if len(name.Variables) > 1 {
		sink.Warn(warning.ApplicationError, rangeOf(name.SourceMap), "multiple variable definitions for property key; using the first")
	}
	keyType := name.Variables[0]
	resolved := ResolveType(keyType.TypeDefinition.TypeSpecification, reg)
	if resolved != mson.UndefinedTypeName && resolved != mson.StringTypeName {
		// Only string, or a named type whose root ancestor is string, is an
		// acceptable variable key type.
		root := keyType.TypeDefinition.TypeSpecification.Name.Symbol
		if root == "" || reg == nil {
			return nil, &warning.BadVariableKeyError{KeyType: resolved.String(), Range: rangeOf(name.SourceMap)}
		}
		ancestor := reg.RootAncestor(root)
		if ancestor == nil || ancestor.ElementName != refract.String.String() {
			return nil, &warning.BadVariableKeyError{KeyType: resolved.String(), Range: rangeOf(name.SourceMap)}
		}
	}

	key := refract.New(refract.String)
	key.SetValue(name.Literal)
	key.Attributes().Set("variable", boolElement(true))
	if sym := keyType.TypeDefinition.TypeSpecification.Name.Symbol; sym != "" {
		key.ElementName = sym
	}
	attachSourceMap(key, name.SourceMap)
	return key, nil
}

func boolElement(v bool) *refract.Element {
	e := refract.New(refract.Bool)
	e.SetValue(v)
	return e
}

// lowerTypeAttributesInto lowers the
// required/optional/fixed/fixedType/nullable bits to an attribute array
// (default/sample are handled by the body collector, not here), and warns
// on each documented clash.
func lowerTypeAttributesInto(el *refract.Element, ta mson.TypeAttributes, sink *warning.Sink) {
	warnClash := func(a, b string) {
		sink.Warn(warning.ApplicationError, warning.Range{}, "type attributes clash: %s and %s both specified", a, b)
	}
	if ta.Has(mson.FixedTypeAttribute) && ta.Has(mson.OptionalTypeAttribute) {
		warnClash("fixed", "optional")
	}
	if ta.Has(mson.RequiredTypeAttribute) && ta.Has(mson.OptionalTypeAttribute) {
		warnClash("required", "optional")
	}
	if ta.Has(mson.DefaultTypeAttribute) && ta.Has(mson.SampleTypeAttribute) {
		warnClash("default", "sample")
	}
	if ta.Has(mson.FixedTypeAttribute) && ta.Has(mson.FixedTypeTypeAttribute) {
		warnClash("fixed", "fixedType")
	}

	names := []struct {
		bit  mson.TypeAttribute
		name string
	}{
		{mson.RequiredTypeAttribute, "required"},
		{mson.OptionalTypeAttribute, "optional"},
		{mson.FixedTypeAttribute, "fixed"},
		{mson.FixedTypeTypeAttribute, "fixedType"},
		{mson.NullableTypeAttribute, "nullable"},
	}
	var present []*refract.Element
	for _, n := range names {
		if ta.Has(n.bit) {
			s := refract.New(refract.String)
			s.SetValue(n.name)
			present = append(present, s)
		}
	}
	if len(present) == 0 {
		return
	}
	arr := refract.New(refract.Array)
	arr.SetChildren(present)
	el.Attributes().Set("typeAttributes", arr)
}
