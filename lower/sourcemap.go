package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
)

// attachSourceMap stores sm's character ranges as el's "sourceMap"
// attribute: an array of two-number [start, length] pairs. It is a no-op
// when sm carries no ranges.
func attachSourceMap(el *refract.Element, sm mson.SourceMap) {
	if sm.Empty() {
		return
	}
	pairs := make([]*refract.Element, 0, len(sm.Ranges))
	for _, r := range sm.Ranges {
		pair := refract.New(refract.Array)
		start := refract.New(refract.Number)
		start.SetValue(float64(r[0]))
		length := refract.New(refract.Number)
		length.SetValue(float64(r[1]))
		pair.SetChildren([]*refract.Element{start, length})
		pairs = append(pairs, pair)
	}
	arr := refract.New(refract.Array)
	arr.SetChildren(pairs)
	el.Attributes().Set("sourceMap", arr)
}
