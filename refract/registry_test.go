package refract

import (
	"errors"
	"testing"

	"github.com/apib/refract/warning"
)

func registered(t *testing.T, reg *Registry, v Variant, id, elementName string) *Element {
	t.Helper()
	e := New(v)
	if elementName != "" {
		e.ElementName = elementName
	}
	e.SetMetaID(id)
	ok, err := reg.Add(e)
	if err != nil {
		t.Fatalf("Add(%q): %v", id, err)
	}
	if !ok {
		t.Fatalf("Add(%q): unexpectedly already present", id)
	}
	return e
}

func TestRegistryAdd_RequiresMetaID(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Add(New(Object))
	var noID *warning.RegistryNoIDError
	if !errors.As(err, &noID) {
		t.Fatalf("expected RegistryNoIDError, got %v", err)
	}
}

func TestRegistryAdd_RejectsReservedID(t *testing.T) {
	reg := NewRegistry()
	e := New(Object)
	e.SetMetaID("string")
	_, err := reg.Add(e)
	var reserved *warning.RegistryReservedIDError
	if !errors.As(err, &reserved) {
		t.Fatalf("expected RegistryReservedIDError, got %v", err)
	}
}

func TestRegistryAdd_FirstDefinitionWins(t *testing.T) {
	reg := NewRegistry()
	first := registered(t, reg, Object, "Addr", "")

	second := New(String)
	second.SetMetaID("Addr")
	ok, err := reg.Add(second)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ok {
		t.Fatalf("expected false for a duplicate id")
	}
	found, _ := reg.Find("Addr")
	if found != first {
		t.Fatalf("the first definition must win")
	}
}

func TestRootAncestor_FollowsChainToReservedName(t *testing.T) {
	reg := NewRegistry()
	base := registered(t, reg, String, "Base", "")
	registered(t, reg, String, "Mid", "Base")
	registered(t, reg, String, "Leaf", "Mid")

	if got := reg.RootAncestor("Leaf"); got != base {
		t.Fatalf("expected the chain to terminate at Base, got %v", got)
	}
}

func TestRootAncestor_UnknownNameIsNil(t *testing.T) {
	reg := NewRegistry()
	if got := reg.RootAncestor("Nope"); got != nil {
		t.Fatalf("expected nil for an unregistered name, got %v", got)
	}
}

func TestRootAncestor_ChainEndingAtUnknownNameReturnsLastSeen(t *testing.T) {
	reg := NewRegistry()
	leaf := registered(t, reg, Object, "Leaf", "Missing")
	if got := reg.RootAncestor("Leaf"); got != leaf {
		t.Fatalf("expected the last registered element before the unknown name, got %v", got)
	}
}

func TestRootAncestor_CycleTerminates(t *testing.T) {
	reg := NewRegistry()
	registered(t, reg, Object, "A", "B")
	registered(t, reg, Object, "B", "A")

	got := reg.RootAncestor("A")
	if got == nil {
		t.Fatalf("a cyclic chain must still return the last seen element")
	}
	id, _ := got.MetaID()
	if id != "A" && id != "B" {
		t.Fatalf("expected an element from the cycle, got %q", id)
	}
}
