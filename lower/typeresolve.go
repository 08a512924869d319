// Package lower implements the MSON → Refract lowering pass, the heart of
// the conversion pipeline: type resolution, the four-bucket per-element
// collector, property-member key handling, type-attribute bitset lowering,
// one-of/mixin lowering, and top-level data-structure lowering.
package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
)

// ResolveType is the type-definition-level resolution that precedes the
// member-level disambiguation in Disambiguate: an explicit base type wins,
// then a symbol's root ancestor, then Undefined.
func ResolveType(typeSpec mson.TypeSpecification, reg *refract.Registry) mson.BaseTypeName {
	if typeSpec.Name.Base != mson.UndefinedTypeName {
		return typeSpec.Name.Base
	}
	if typeSpec.Name.Symbol != "" {
		root := reg.RootAncestor(typeSpec.Name.Symbol)
		if root != nil {
			if v, ok := refract.VariantByName(root.ElementName); ok {
				return baseTypeForVariant(v)
			}
		}
	}
	return mson.UndefinedTypeName
}

// Disambiguate is the member-level fallback: when ResolveType still
// returns Undefined, pick a base type from the presence of multiple
// values, a symbol or nested members, the parent's default nested type, or
// finally string.
func Disambiguate(resolved mson.BaseTypeName, valueCount int, hasSymbolOrMembers bool, defaultNested mson.BaseTypeName) mson.BaseTypeName {
	if resolved != mson.UndefinedTypeName {
		return resolved
	}
	switch {
	case valueCount > 1:
		return mson.ArrayTypeName
	case hasSymbolOrMembers:
		return mson.ObjectTypeName
	case defaultNested != mson.UndefinedTypeName:
		return defaultNested
	default:
		return mson.StringTypeName
	}
}

func baseTypeForVariant(v refract.Variant) mson.BaseTypeName {
	switch v {
	case refract.Bool:
		return mson.BooleanTypeName
	case refract.Number:
		return mson.NumberTypeName
	case refract.String:
		return mson.StringTypeName
	case refract.Array:
		return mson.ArrayTypeName
	case refract.Object:
		return mson.ObjectTypeName
	case refract.Enum:
		return mson.EnumTypeName
	default:
		return mson.UndefinedTypeName
	}
}

// selectNestedType is the "default nested type" lookup used when
// converting an array/object/enum's individual values: the first nested
// type named on the TypeSpecification, resolved the same way as a
// top-level type, defaulting to string.
func selectNestedType(nested []mson.TypeSpecificationName, reg *refract.Registry) mson.BaseTypeName {
	if len(nested) == 0 {
		return mson.StringTypeName
	}
	spec := mson.TypeSpecification{Name: nested[0]}
	resolved := ResolveType(spec, reg)
	if resolved == mson.UndefinedTypeName {
		return mson.StringTypeName
	}
	return resolved
}
