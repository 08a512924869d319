package refract

import "github.com/apib/refract/warning"

// Merge folds the children of an Extend element left-to-right into a
// single newly owned element. Meta and attributes combine by
// last-write-wins; values combine by variant-specific rule. Merge returns
// (nil, nil) if the sequence is empty or every child is empty and carries
// no meta or attributes; an empty child that does carry meta or attributes
// still contributes them to the result. It returns
// an error wrapping *warning.MergeKindError if a later child's variant is
// incompatible with the variant established by the first non-empty child.
func Merge(extend *Element) (*Element, error) {
	if extend.Variant != Extend {
		panic("refract: Merge called on a non-extend element")
	}
	children, _ := extend.Children()

	var result *Element
	for _, child := range children {
		if child.Empty() && !child.HasMeta() && !child.HasAttributes() {
			continue
		}
		if result == nil {
			result = child.Clone(CloneAll)
			continue
		}
		if err := mergeInto(result, child); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeInto(dst, src *Element) error {
	if src.HasMeta() {
		for pair := src.Meta().Oldest(); pair != nil; pair = pair.Next() {
			dst.Meta().Set(pair.Key, pair.Value.Clone(CloneAll))
		}
	}
	if src.HasAttributes() {
		for pair := src.Attributes().Oldest(); pair != nil; pair = pair.Next() {
			dst.Attributes().Set(pair.Key, pair.Value.Clone(CloneAll))
		}
	}
	if src.Empty() {
		return nil
	}
	if dst.Empty() {
		dst.Variant = src.Variant
		dst.value = cloneValue(src.Variant, src.value)
		dst.hasValue = true
		return nil
	}
	if dst.Variant != src.Variant {
		return &warning.MergeKindError{Have: src.Variant.String(), Want: dst.Variant.String()}
	}
	switch dst.Variant {
	case Array, Option, Select, Extend:
		a, _ := dst.Children()
		b, _ := src.Children()
		merged := make([]*Element, 0, len(a)+len(b))
		for _, c := range a {
			merged = append(merged, c.Clone(CloneAll))
		}
		for _, c := range b {
			merged = append(merged, c.Clone(CloneAll))
		}
		dst.SetChildren(merged)
	case Enum:
		// An enum's value is a single chosen element, not a child slice.
		// Concatenating means collecting the superseded choice into the
		// enumerations attribute (the same shape lowering builds) and
		// letting the later choice become the chosen value.
		next, ok := src.EnumValue()
		if !ok {
			break
		}
		if prev, ok := dst.EnumValue(); ok {
			enums, found := dst.Attributes().Get("enumerations")
			if !found || enums.Variant != Array {
				enums = New(Array)
				dst.Attributes().Set("enumerations", enums)
			}
			children, _ := enums.Children()
			enums.SetChildren(append(children, prev))
		}
		dst.SetEnumValue(next.Clone(CloneAll))
	case Object:
		a, _ := dst.Children()
		b, _ := src.Children()
		merged := make([]*Element, 0, len(a)+len(b))
		for _, c := range a {
			merged = append(merged, c.Clone(CloneAll))
		}
		for _, c := range b {
			merged = append(merged, c.Clone(CloneAll))
		}
		dst.SetChildren(merged)
	default:
		// Primitives, Member, Ref, Holder: last non-empty wins.
		dst.value = cloneValue(src.Variant, src.value)
		dst.hasValue = true
	}
	return nil
}
