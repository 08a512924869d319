package expand

import "github.com/apib/refract/refract"

// IsExpandable reports whether e's subtree carries anything the expansion
// pass would rewrite: a named-type element, anywhere underneath e along an
// owning edge, or a reference. It is the gate Expand checks before doing
// any work, so that a subtree with nothing to expand is simply cloned.
//
// A holder or null element is never expandable; per the original visitor,
// a direct value stops the walk even if it happens to contain a named-type
// element inside it.
func IsExpandable(e *refract.Element) bool {
	return isExpandable(e, make(map[*refract.Element]bool))
}

func isExpandable(e *refract.Element, seen map[*refract.Element]bool) bool {
	if e == nil || seen[e] {
		return false
	}
	seen[e] = true

	switch e.Variant {
	case refract.Null, refract.Holder:
		return false
	case refract.Ref:
		return true
	}

	if !refract.IsReserved(e.ElementName) {
		return true
	}

	switch e.Variant {
	case refract.Array, refract.Object, refract.Extend, refract.Option, refract.Select:
		children, _ := e.Children()
		for _, c := range children {
			if isExpandable(c, seen) {
				return true
			}
		}
	case refract.Enum:
		v, _ := e.EnumValue()
		return isExpandable(v, seen)
	case refract.Member:
		mv, _ := e.MemberKV()
		if mv == nil {
			return false
		}
		return isExpandable(mv.Key, seen) || isExpandable(mv.Value, seen)
	}
	return false
}
