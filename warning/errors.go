package warning

import "fmt"

// TooManyValuesError is returned when a primitive-target member is given
// more than one value; lowering a data structure aborts on this error.
type TooManyValuesError struct {
	ElementName string
	Count       int
	Range       Range
}

func (e *TooManyValuesError) Error() string {
	return fmt.Sprintf("%s: primitive member given %d values, expected at most 1", e.ElementName, e.Count)
}

// BadVariableKeyError is returned when a variable property's key is not a
// string or a sub-type of string.
type BadVariableKeyError struct {
	KeyType string
	Range   Range
}

func (e *BadVariableKeyError) Error() string {
	return fmt.Sprintf("variable property key must be a string type, got %q", e.KeyType)
}

// UnknownSectionError is returned for an MSON TypeSection class the
// lowering does not recognize.
type UnknownSectionError struct {
	Class string
	Range Range
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown type section class %q", e.Class)
}

// UnknownElementError is returned for an MSON element class the lowering
// does not recognize.
type UnknownElementError struct {
	Class string
	Range Range
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("unknown MSON element class %q", e.Class)
}

// CircularMixinError is returned when a chain of Mixin references reaches
// back into itself.
type CircularMixinError struct {
	Name string
}

func (e *CircularMixinError) Error() string {
	return fmt.Sprintf("circular mixin reference on %q", e.Name)
}

// MergeKindError is returned when an extend sequence mixes incompatible
// element variants mid-sequence.
type MergeKindError struct {
	Have string
	Want string
}

func (e *MergeKindError) Error() string {
	return fmt.Sprintf("cannot merge variant %q into variant %q", e.Have, e.Want)
}

// RegistryNoIDError is returned when Registry.Add is given an element with
// no meta.id.
type RegistryNoIDError struct{}

func (e *RegistryNoIDError) Error() string {
	return "registry: element has no meta.id"
}

// RegistryReservedIDError is returned when Registry.Add is given an
// element whose meta.id names a reserved variant.
type RegistryReservedIDError struct {
	Name string
}

func (e *RegistryReservedIDError) Error() string {
	return fmt.Sprintf("registry: %q is a reserved name and cannot be registered", e.Name)
}
