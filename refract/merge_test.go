package refract

import (
	"errors"
	"testing"

	"github.com/apib/refract/warning"
)

func namedMember(key string, value *Element) *Element {
	k := New(String)
	k.SetValue(key)
	m := New(Member)
	m.SetMember(k, value)
	return m
}

func TestMerge_EmptyExtendIsNil(t *testing.T) {
	out, err := Merge(New(Extend))
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil for an empty extend, got %v", out)
	}

	allEmpty := New(Extend)
	allEmpty.SetChildren([]*Element{New(String), New(String)})
	out, err = Merge(allEmpty)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out != nil {
		t.Fatalf("expected nil for an all-empty extend, got %v", out)
	}
}

func TestMerge_SingleElementExtendEqualsClone(t *testing.T) {
	obj := New(Object)
	val := New(String)
	val.SetValue("v")
	obj.SetChildren([]*Element{namedMember("k", val)})
	title := New(String)
	title.SetValue("t")
	obj.Meta().Set("title", title)

	extend := New(Extend)
	extend.SetChildren([]*Element{obj.Clone(CloneAll)})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if out.Variant != Object {
		t.Fatalf("expected Object, got %v", out.Variant)
	}
	children, _ := out.Children()
	if len(children) != 1 {
		t.Fatalf("expected 1 member, got %d", len(children))
	}
	if got, _ := out.Meta().Get("title"); got == nil {
		t.Fatalf("expected meta to survive the merge")
	}
	if out == obj {
		t.Fatalf("Merge must return a newly owned element")
	}
}

func TestMerge_ObjectsConcatenateWithoutDedup(t *testing.T) {
	a := New(Object)
	a.SetChildren([]*Element{namedMember("k", New(String))})
	b := New(Object)
	b.SetChildren([]*Element{namedMember("k", New(Number))})

	extend := New(Extend)
	extend.SetChildren([]*Element{a, b})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	children, _ := out.Children()
	if len(children) != 2 {
		t.Fatalf("member sequences concatenate with no key dedup, expected 2, got %d", len(children))
	}
}

func TestMerge_PrimitiveLastNonEmptyWins(t *testing.T) {
	first := New(String)
	first.SetValue("a")
	second := New(String)
	second.SetValue("b")
	third := New(String)

	extend := New(Extend)
	extend.SetChildren([]*Element{first, second, third})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if v, _ := out.StringValue(); v != "b" {
		t.Fatalf("expected last non-empty value %q, got %q", "b", v)
	}
}

func TestMerge_MetaLastWriteWins(t *testing.T) {
	a := New(String)
	a.SetValue("x")
	t1 := New(String)
	t1.SetValue("first")
	a.Meta().Set("title", t1)

	b := New(String)
	b.SetValue("y")
	t2 := New(String)
	t2.SetValue("second")
	b.Meta().Set("title", t2)

	extend := New(Extend)
	extend.SetChildren([]*Element{a, b})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	title, _ := out.Meta().Get("title")
	if v, _ := title.StringValue(); v != "second" {
		t.Fatalf("expected last-write-wins title %q, got %q", "second", v)
	}
}

func TestMerge_IncompatibleVariantsFail(t *testing.T) {
	s := New(String)
	s.SetValue("x")
	n := New(Number)
	n.SetValue(1.0)

	extend := New(Extend)
	extend.SetChildren([]*Element{s, n})

	_, err := Merge(extend)
	var kindErr *warning.MergeKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected MergeKindError, got %v", err)
	}
}

func TestMerge_EnumDemotesSupersededChoiceToEnumerations(t *testing.T) {
	red := New(String)
	red.SetValue("red")
	a := New(Enum)
	a.SetEnumValue(red)

	blue := New(String)
	blue.SetValue("blue")
	b := New(Enum)
	b.SetEnumValue(blue)

	extend := New(Extend)
	extend.SetChildren([]*Element{a, b})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	chosen, ok := out.EnumValue()
	if !ok {
		t.Fatalf("the merged enum's value must stay readable as a chosen element")
	}
	if v, _ := chosen.StringValue(); v != "blue" {
		t.Errorf("expected the later choice %q, got %q", "blue", v)
	}
	enums, ok := out.Attributes().Get("enumerations")
	if !ok {
		t.Fatalf("expected the superseded choice in enumerations")
	}
	children, _ := enums.Children()
	if len(children) != 1 {
		t.Fatalf("expected 1 enumeration, got %d", len(children))
	}
	if v, _ := children[0].StringValue(); v != "red" {
		t.Errorf("expected superseded choice %q, got %q", "red", v)
	}
}

func TestMerge_EnumKeepsExistingEnumerations(t *testing.T) {
	red := New(String)
	red.SetValue("red")
	green := New(String)
	green.SetValue("green")
	a := New(Enum)
	a.SetEnumValue(red)

	blue := New(String)
	blue.SetValue("blue")
	b := New(Enum)
	b.SetEnumValue(blue)
	bEnums := New(Array)
	bEnums.SetChildren([]*Element{green})
	b.Attributes().Set("enumerations", bEnums)

	extend := New(Extend)
	extend.SetChildren([]*Element{a, b})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	enums, ok := out.Attributes().Get("enumerations")
	if !ok {
		t.Fatalf("expected enumerations")
	}
	children, _ := enums.Children()
	if len(children) != 2 {
		t.Fatalf("expected the surviving attribute plus the superseded choice, got %d", len(children))
	}
}

func TestMerge_ArraysConcatenate(t *testing.T) {
	one := New(Number)
	one.SetValue(1.0)
	two := New(Number)
	two.SetValue(2.0)

	a := New(Array)
	a.SetChildren([]*Element{one})
	b := New(Array)
	b.SetChildren([]*Element{two})

	extend := New(Extend)
	extend.SetChildren([]*Element{a, b})

	out, err := Merge(extend)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	children, _ := out.Children()
	if len(children) != 2 {
		t.Fatalf("expected concatenated array of 2, got %d", len(children))
	}
}
