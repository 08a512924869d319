package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// LowerDataStructure resolves the data structure's target variant the way a
// ValueMember does, except that a data structure carries no values of its
// own and an otherwise undetermined type falls back to object rather than
// string. It then lowers its body and populates meta.id from the
// structure's own name when one is given.
//
// It returns (nil, nil) for an empty data structure.
func LowerDataStructure(ds mson.DataStructure, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	if ds.Name.Literal == "" && len(ds.TypeSections) == 0 && ds.TypeDefinition.TypeSpecification.Name.Base == mson.UndefinedTypeName && ds.TypeDefinition.TypeSpecification.Name.Symbol == "" {
		return nil, nil
	}

	valueDef := mson.ValueDefinition{TypeDefinition: ds.TypeDefinition}
	resolved := ResolveType(ds.TypeDefinition.TypeSpecification, reg)
	hasSymbolOrMembers := ds.TypeDefinition.TypeSpecification.Name.Symbol != "" || hasMemberSection(ds.TypeSections)
	target := Disambiguate(resolved, 0, hasSymbolOrMembers, mson.ObjectTypeName)

	el, err := lowerBody(target, valueDef, ds.TypeSections, reg, sink)
	if err != nil {
		return nil, err
	}

	if ds.TypeDefinition.TypeSpecification.Name.Symbol != "" {
		el.ElementName = ds.TypeDefinition.TypeSpecification.Name.Symbol
	}
	lowerTypeAttributesInto(el, ds.TypeDefinition.Attributes, sink)

	if ds.Name.Literal != "" {
		el.SetMetaID(ds.Name.Literal)
	}
	attachSourceMap(el, ds.SourceMap)
	return el, nil
}
