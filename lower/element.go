package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// LowerElement dispatches a single MSON element to the lowering rule for
// its class. It returns nil, nil for a Group encountered outside a OneOf
// alternative,
// which cannot occur from a well-formed MSON AST but is tolerated rather
// than treated as a hard failure, matching the MemberTypeClass tolerance
// already built into fillFromSections for primitive targets.
func LowerElement(e mson.Element, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	switch e.ElementClass {
	case mson.PropertyMemberElementClass:
		return LowerPropertyMember(*e.PropertyMember, reg, sink)
	case mson.ValueMemberElementClass:
		return LowerValueMember(*e.ValueMember, reg, sink)
	case mson.MixinElementClass:
		return LowerMixin(*e.Mixin), nil
	case mson.OneOfElementClass:
		return LowerOneOf(*e.OneOf, reg, sink)
	case mson.GroupElementClass:
		return nil, nil
	default:
		return nil, &warning.UnknownElementError{Range: rangeOf(e.SourceMap)}
	}
}

// LowerValueMember lowers a ValueMember node (an array item, an enum
// alternative, or the body of an anonymous structure): it resolves the
// node's type and lowers its body.
func LowerValueMember(vm mson.ValueMember, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	resolved := ResolveType(vm.ValueDefinition.TypeDefinition.TypeSpecification, reg)
	hasSymbolOrMembers := vm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol != "" || hasMemberSection(vm.TypeSections)
	target := Disambiguate(resolved, len(vm.ValueDefinition.Values), hasSymbolOrMembers, mson.StringTypeName)

	el, err := lowerBody(target, vm.ValueDefinition, vm.TypeSections, reg, sink)
	if err != nil {
		return nil, err
	}
	if vm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol != "" {
		el.ElementName = vm.ValueDefinition.TypeDefinition.TypeSpecification.Name.Symbol
	}
	lowerTypeAttributesInto(el, vm.ValueDefinition.TypeDefinition.Attributes, sink)
	attachSourceMap(el, vm.SourceMap)
	return el, nil
}

func hasMemberSection(sections []mson.TypeSection) bool {
	for _, s := range sections {
		if s.Class == mson.MemberTypeSectionClass && len(s.Members) > 0 {
			return true
		}
	}
	return false
}
