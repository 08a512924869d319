// Package expand implements the expansion pass: it rewrites named types
// into their inheritance chain plus own body, resolves mixins and
// references, and recurses into select options and member pairs. A node
// with nothing expandable underneath it is cloned as-is.
package expand

import (
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// Expand returns the fully expanded form of e against reg. The returned
// tree is always an independent copy; e itself is never mutated.
func Expand(reg *refract.Registry, e *refract.Element) (*refract.Element, error) {
	x := &expander{reg: reg}
	return x.expandOrClone(e)
}

// expander carries the registry and the stack of named-type names and
// mixin symbols currently being expanded, used to detect and break
// self-reference without memoizing results (a named element may expand
// differently depending on the path that reached it).
type expander struct {
	reg   *refract.Registry
	stack []string
}

func (x *expander) onStack(name string) bool {
	for _, n := range x.stack {
		if n == name {
			return true
		}
	}
	return false
}

func (x *expander) push(name string) {
	x.stack = append(x.stack, name)
}

func (x *expander) pop() {
	x.stack = x.stack[:len(x.stack)-1]
}

// expandOrClone is the entry point used at every owning edge: expand e,
// falling back to a deep clone when e carries nothing expandable.
func (x *expander) expandOrClone(e *refract.Element) (*refract.Element, error) {
	if e == nil {
		return nil, nil
	}
	result, err := x.visit(e)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = e.Clone(refract.CloneAll)
	}
	return result, nil
}

func (x *expander) visit(e *refract.Element) (*refract.Element, error) {
	switch e.Variant {
	case refract.Null, refract.Holder:
		return nil, nil
	case refract.Ref:
		return x.expandRef(e)
	case refract.Select:
		return x.expandSelect(e)
	case refract.Member:
		return x.expandMember(e)
	default:
		return x.expandGeneric(e)
	}
}

// expandGeneric handles every variant whose named-type status decides the
// expansion path: the scalar variants (bool, number, string, enum) and the
// plain collection variants (array, object, extend, option).
func (x *expander) expandGeneric(e *refract.Element) (*refract.Element, error) {
	switch e.Variant {
	case refract.Bool, refract.Number, refract.String, refract.Enum:
		if refract.IsReserved(e.ElementName) {
			return nil, nil
		}
		return x.expandNamedType(e)
	case refract.Array, refract.Object, refract.Extend, refract.Option:
		if !IsExpandable(e) {
			return nil, nil
		}
		if !refract.IsReserved(e.ElementName) {
			return x.expandNamedType(e)
		}
		return x.expandMembers(e)
	default:
		return nil, nil
	}
}

// expandNamedType rewrites a named-type element: a stack hit clones the
// root ancestor with meta.ref set to break the cycle; otherwise it builds
// the inheritance-chain extend, appends e's own expanded body as the final
// child, and carries e's meta.id onto the extend.
func (x *expander) expandNamedType(e *refract.Element) (*refract.Element, error) {
	name := e.ElementName

	if x.onStack(name) {
		root := x.reg.RootAncestor(name)
		var result *refract.Element
		if root == nil {
			result = e.Clone(refract.CloneMeta | refract.CloneAttributes)
		} else {
			result = root.Clone(refract.CloneMeta | refract.CloneAttributes)
		}
		result.Meta().Delete("id")
		result.Meta().Set("ref", stringElement(name))
		return result, nil
	}

	x.push(name)
	extend, err := x.expandMembers(x.inheritanceTree(name))
	if err != nil {
		x.pop()
		return nil, err
	}
	if id, ok := e.MetaID(); ok {
		extend.SetMetaID(id)
	}
	x.pop()

	origin, err := x.expandMembers(e)
	if err != nil {
		return nil, err
	}
	origin.Meta().Delete("id")
	children, _ := extend.Children()
	extend.SetChildren(append(children, origin))
	return extend, nil
}

// inheritanceTree walks the registry's element-name chain starting at
// name and returns an Extend element whose children are
// clones of each ancestor, root-first, each tagged meta.ref with the name
// it was found under. It stops at the first reserved, unregistered, or
// already-visited element-name, so a circular chain (A: B; B: A)
// terminates after one lap.
func (x *expander) inheritanceTree(name string) *refract.Element {
	var chain []*refract.Element
	seen := map[string]bool{}
	en := name
	for {
		parent, ok := x.reg.Find(en)
		if !ok || refract.IsReserved(en) || seen[en] {
			break
		}
		seen[en] = true
		clone := parent.Clone(refract.CloneMeta | refract.CloneAttributes | refract.CloneValue)
		clone.Meta().Set("ref", stringElement(en))
		chain = append(chain, clone)
		en = parent.ElementName
	}

	extend := refract.New(refract.Extend)
	if len(chain) == 0 {
		return extend
	}
	rootFirst := make([]*refract.Element, len(chain))
	for i, c := range chain {
		rootFirst[len(chain)-1-i] = c
	}
	extend.SetChildren(rootFirst)
	return extend
}

// expandMembers clones e's meta and attributes onto a fresh, reserved-named
// element of e's variant, then expands e's value in place.
func (x *expander) expandMembers(e *refract.Element) (*refract.Element, error) {
	out := e.Clone(refract.CloneMeta | refract.CloneAttributes)
	if e.Empty() {
		return out, nil
	}
	val, err := x.expandValue(e)
	if err != nil {
		return nil, err
	}
	out.SetValue(val)
	return out, nil
}

func (x *expander) expandValue(e *refract.Element) (any, error) {
	switch e.Variant {
	case refract.Array, refract.Object, refract.Extend, refract.Option, refract.Select:
		children, _ := e.Children()
		out := make([]*refract.Element, len(children))
		for i, c := range children {
			ec, err := x.expandOrClone(c)
			if err != nil {
				return nil, err
			}
			out[i] = ec
		}
		return out, nil
	case refract.Enum:
		v, _ := e.EnumValue()
		return x.expandOrClone(v)
	case refract.Bool:
		v, _ := e.BoolValue()
		return v, nil
	case refract.Number:
		v, _ := e.NumberValue()
		return v, nil
	case refract.String:
		v, _ := e.StringValue()
		return v, nil
	default:
		return nil, nil
	}
}

// expandSelect expands every option regardless of the select's own
// element-name — a select is never itself a named type. Only meta, not
// attributes, survives onto the rewritten node.
func (x *expander) expandSelect(e *refract.Element) (*refract.Element, error) {
	if !IsExpandable(e) {
		return nil, nil
	}
	out := e.Clone(refract.CloneMeta)
	children, _ := e.Children()
	expanded := make([]*refract.Element, len(children))
	for i, c := range children {
		ec, err := x.expandOrClone(c)
		if err != nil {
			return nil, err
		}
		expanded[i] = ec
	}
	out.SetChildren(expanded)
	return out, nil
}

// expandMember expands a member's key and value independently, keeping
// everything else about the member (its own meta, attributes, element-name
// and meta.id) intact.
func (x *expander) expandMember(e *refract.Element) (*refract.Element, error) {
	if !IsExpandable(e) {
		return nil, nil
	}
	out := e.Clone(refract.CloneMeta | refract.CloneAttributes | refract.CloneElementName | refract.CloneMetaID)
	mv, _ := e.MemberKV()
	key, err := x.expandOrClone(mv.Key)
	if err != nil {
		return nil, err
	}
	val, err := x.expandOrClone(mv.Value)
	if err != nil {
		return nil, err
	}
	out.SetMember(key, val)
	return out, nil
}

// expandRef resolves a reference: the ref itself is carried
// through unchanged save for an added "resolved" attribute holding the
// recursively expanded referenced element, its own meta.id rewritten to
// meta.ref. A symbol already on the expansion stack is a hard failure: a
// mixin chain that reaches back into itself can never finish expanding.
func (x *expander) expandRef(e *refract.Element) (*refract.Element, error) {
	ref := e.Clone(refract.CloneAll)
	symbol, _ := ref.RefSymbol()
	if symbol == "" {
		return ref, nil
	}

	if x.onStack(symbol) {
		return nil, &warning.CircularMixinError{Name: symbol}
	}

	x.push(symbol)
	defer x.pop()

	if referenced, ok := x.reg.Find(symbol); ok {
		expanded, err := x.expandOrClone(referenced)
		if err != nil {
			return nil, err
		}
		if id, ok := expanded.MetaID(); ok {
			expanded.Meta().Set("ref", stringElement(id))
			expanded.Meta().Delete("id")
		}
		ref.Attributes().Set("resolved", expanded)
	}

	return ref, nil
}

func stringElement(v string) *refract.Element {
	e := refract.New(refract.String)
	e.SetValue(v)
	return e
}
