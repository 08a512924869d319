package expand

import (
	"testing"

	"github.com/apib/refract/refract"
)

func TestExpand_ReservedScalarClonesUnchanged(t *testing.T) {
	reg := refract.NewRegistry()
	in := refract.New(refract.String)
	in.SetValue("hello")

	out, err := Expand(reg, in)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	v, ok := out.StringValue()
	if !ok || v != "hello" {
		t.Fatalf("expected cloned string %q, got %q (ok=%v)", "hello", v, ok)
	}
	if out == in {
		t.Fatalf("Expand must return an independent copy")
	}
}

func TestExpand_NamedTypeWrapsInExtend(t *testing.T) {
	reg := refract.NewRegistry()

	base := refract.New(refract.Object)
	base.SetMetaID("Base")
	member := refract.New(refract.Member)
	key := refract.New(refract.String)
	key.SetValue("id")
	val := refract.New(refract.Number)
	member.SetMember(key, val)
	base.SetChildren([]*refract.Element{member})
	if _, err := reg.Add(base); err != nil {
		t.Fatalf("Add: %v", err)
	}

	derived := refract.NewNamed(refract.Object, "Base")
	derived.SetMetaID("Derived")

	out, err := Expand(reg, derived)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out.Variant != refract.Extend {
		t.Fatalf("expected Extend, got %v", out.Variant)
	}
	id, ok := out.MetaID()
	if !ok || id != "Derived" {
		t.Fatalf("expected extend meta.id %q, got %q (ok=%v)", "Derived", id, ok)
	}
	children, ok := out.Children()
	if !ok || len(children) != 2 {
		t.Fatalf("expected 2 extend children (ancestor + own body), got %d (ok=%v)", len(children), ok)
	}
	ancestorRef, ok := children[0].Meta().Get("ref")
	if !ok {
		t.Fatalf("expected first extend child to carry meta.ref")
	}
	if v, _ := ancestorRef.StringValue(); v != "Base" {
		t.Fatalf("expected meta.ref %q, got %q", "Base", v)
	}
	if _, ok := children[1].MetaID(); ok {
		t.Fatalf("own-body child must not carry meta.id")
	}
}

func TestExpand_SelfReferenceBreaksCycle(t *testing.T) {
	reg := refract.NewRegistry()

	// "Node" is an object with a "next" member whose value is itself a
	// "Node" — a classic recursive type. Expansion must terminate rather
	// than inline the reference forever.
	self := refract.New(refract.Object)
	self.SetMetaID("Node")
	member := refract.New(refract.Member)
	key := refract.New(refract.String)
	key.SetValue("next")
	child := refract.NewNamed(refract.Object, "Node")
	member.SetMember(key, child)
	self.SetChildren([]*refract.Element{member})
	if _, err := reg.Add(self); err != nil {
		t.Fatalf("Add: %v", err)
	}

	out, err := Expand(reg, self)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out.Variant != refract.Object {
		t.Fatalf("expected Object, got %v", out.Variant)
	}
	children, ok := out.Children()
	if !ok || len(children) != 1 {
		t.Fatalf("expected 1 member, got %d (ok=%v)", len(children), ok)
	}
	nextMember, ok := children[0].MemberKV()
	if !ok {
		t.Fatalf("expected a member")
	}
	// The recursive "next" value must terminate as a cycle-break clone
	// carrying meta.ref, not recurse forever.
	ref, ok := nextMember.Value.Meta().Get("ref")
	if !ok {
		t.Fatalf("expected the recursive member value to carry meta.ref")
	}
	if v, _ := ref.StringValue(); v != "Node" {
		t.Fatalf("expected meta.ref %q, got %q", "Node", v)
	}
}

func TestExpand_CircularInheritanceTerminates(t *testing.T) {
	reg := refract.NewRegistry()

	a := refract.NewNamed(refract.Object, "B")
	a.SetMetaID("A")
	if _, err := reg.Add(a); err != nil {
		t.Fatalf("Add(A): %v", err)
	}
	b := refract.NewNamed(refract.Object, "A")
	b.SetMetaID("B")
	if _, err := reg.Add(b); err != nil {
		t.Fatalf("Add(B): %v", err)
	}

	out, err := Expand(reg, a)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out.Variant != refract.Extend {
		t.Fatalf("expected Extend, got %v", out.Variant)
	}
	children, _ := out.Children()
	if len(children) == 0 {
		t.Fatalf("expected a finite, non-empty inheritance chain")
	}
	// Every ancestor in the chain carries meta.ref back to the name it was
	// found under; the chain visits each name at most once.
	for _, c := range children[:len(children)-1] {
		if _, ok := c.Meta().Get("ref"); !ok {
			t.Errorf("ancestor clone missing meta.ref")
		}
	}
}

func TestExpand_ExpandedTreeIsStable(t *testing.T) {
	reg := refract.NewRegistry()
	base := refract.New(refract.Object)
	base.SetMetaID("Base")
	member := refract.New(refract.Member)
	key := refract.New(refract.String)
	key.SetValue("a")
	member.SetMember(key, refract.New(refract.String))
	base.SetChildren([]*refract.Element{member})
	if _, err := reg.Add(base); err != nil {
		t.Fatalf("Add: %v", err)
	}

	derived := refract.NewNamed(refract.Object, "Base")
	derived.SetMetaID("Derived")

	once, err := Expand(reg, derived)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	twice, err := Expand(reg, once)
	if err != nil {
		t.Fatalf("Expand(Expand): %v", err)
	}
	if twice.Variant != once.Variant {
		t.Fatalf("re-expansion changed the variant: %v vs %v", twice.Variant, once.Variant)
	}
	a, _ := once.Children()
	b, _ := twice.Children()
	if len(a) != len(b) {
		t.Fatalf("re-expansion changed the child count: %d vs %d", len(a), len(b))
	}
}

func TestExpand_RefResolvesToAttribute(t *testing.T) {
	reg := refract.NewRegistry()
	target := refract.New(refract.String)
	target.SetMetaID("Greeting")
	target.SetValue("hi")
	if _, err := reg.Add(target); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ref := refract.New(refract.Ref)
	ref.SetRefSymbol("Greeting")

	out, err := Expand(reg, ref)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out.Variant != refract.Ref {
		t.Fatalf("expected Ref to survive, got %v", out.Variant)
	}
	resolved, ok := out.Attributes().Get("resolved")
	if !ok {
		t.Fatalf("expected resolved attribute")
	}
	v, ok := resolved.StringValue()
	if !ok || v != "hi" {
		t.Fatalf("expected resolved value %q, got %q (ok=%v)", "hi", v, ok)
	}
	if _, hasID := resolved.MetaID(); hasID {
		t.Fatalf("resolved element must not keep meta.id")
	}
	ref2, ok := resolved.Meta().Get("ref")
	if !ok {
		t.Fatalf("resolved element should carry meta.ref")
	}
	if v, _ := ref2.StringValue(); v != "Greeting" {
		t.Fatalf("expected meta.ref %q, got %q", "Greeting", v)
	}
}

func TestExpand_UnexpandableObjectClonesDeep(t *testing.T) {
	reg := refract.NewRegistry()
	obj := refract.New(refract.Object)
	member := refract.New(refract.Member)
	key := refract.New(refract.String)
	key.SetValue("n")
	val := refract.New(refract.Number)
	val.SetValue(1.0)
	member.SetMember(key, val)
	obj.SetChildren([]*refract.Element{member})

	out, err := Expand(reg, obj)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if out.Variant != refract.Object {
		t.Fatalf("expected unchanged Object, got %v", out.Variant)
	}
	children, _ := out.Children()
	if len(children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(children))
	}
	if children[0] == member {
		t.Fatalf("clone must not alias the original member")
	}
}

func TestIsExpandable(t *testing.T) {
	plain := refract.New(refract.String)
	plain.SetValue("x")
	if IsExpandable(plain) {
		t.Errorf("plain reserved string should not be expandable")
	}

	named := refract.NewNamed(refract.String, "Greeting")
	if !IsExpandable(named) {
		t.Errorf("named-type element should be expandable")
	}

	ref := refract.New(refract.Ref)
	ref.SetRefSymbol("Greeting")
	if !IsExpandable(ref) {
		t.Errorf("ref element should be expandable")
	}

	obj := refract.New(refract.Object)
	member := refract.New(refract.Member)
	key := refract.New(refract.String)
	key.SetValue("k")
	member.SetMember(key, named)
	obj.SetChildren([]*refract.Element{member})
	if !IsExpandable(obj) {
		t.Errorf("object containing a named-type member value should be expandable")
	}

	holder := refract.New(refract.Holder)
	holder.SetHolderValue(named)
	if IsExpandable(holder) {
		t.Errorf("holder should never be expandable, even around a named type")
	}
}
