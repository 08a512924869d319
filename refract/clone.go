package refract

// CloneFlags selects which parts of an element a Clone call carries over:
// meta, attributes, value, element-name, and the meta.id entry.
type CloneFlags uint8

const (
	CloneMeta CloneFlags = 1 << iota
	CloneAttributes
	CloneValue
	CloneElementName
	CloneMetaID
)

// CloneAll carries every part of the element.
const CloneAll = CloneMeta | CloneAttributes | CloneValue | CloneElementName | CloneMetaID

// Clone deep-copies the selected parts of e into a fresh, independently
// owned element. CloneElementName controls whether ElementName is copied;
// when it is not set, the clone keeps its variant's reserved name.
// CloneMetaID controls whether a meta.id entry (if present) survives into
// the clone's meta map; it is consulted only when CloneMeta is also set.
func (e *Element) Clone(flags CloneFlags) *Element {
	c := New(e.Variant)
	if flags&CloneElementName != 0 {
		c.ElementName = e.ElementName
	}
	if flags&CloneMeta != 0 && e.meta != nil {
		c.meta = cloneMap(e.meta)
		if flags&CloneMetaID == 0 {
			c.meta.Delete("id")
			if c.meta.Len() == 0 {
				c.meta = nil
			}
		}
	}
	if flags&CloneAttributes != 0 && e.attributes != nil {
		c.attributes = cloneMap(e.attributes)
	}
	if flags&CloneValue != 0 && e.hasValue {
		c.value = cloneValue(e.Variant, e.value)
		c.hasValue = true
	}
	return c
}

func cloneMap(m *OrderedMap) *OrderedMap {
	out := NewOrderedMap()
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value.Clone(CloneAll))
	}
	return out
}

func cloneValue(v Variant, value any) any {
	switch v {
	case Array, Object, Extend, Option, Select:
		children := value.([]*Element)
		out := make([]*Element, len(children))
		for i, c := range children {
			out[i] = c.Clone(CloneAll)
		}
		return out
	case Enum, Holder:
		return value.(*Element).Clone(CloneAll)
	case Member:
		mv := value.(*MemberValue)
		return &MemberValue{Key: mv.Key.Clone(CloneAll), Value: mv.Value.Clone(CloneAll)}
	default:
		// bool, number, string, ref symbol: plain Go values, copy by assignment.
		return value
	}
}
