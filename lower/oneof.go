package lower

import (
	"github.com/apib/refract/mson"
	"github.com/apib/refract/refract"
	"github.com/apib/refract/warning"
)

// LowerMixin lowers a mixin to a ref element whose symbol names the
// included type, with attribute path="content".
func LowerMixin(m mson.Mixin) *refract.Element {
	ref := refract.New(refract.Ref)
	ref.SetRefSymbol(m.TypeSpecification.Name.Symbol)
	path := refract.New(refract.String)
	path.SetValue("content")
	ref.Attributes().Set("path", path)
	return ref
}

// LowerOneOf lowers a one-of to a select containing one option per
// alternative. A group alternative's children flow directly
// into the option's value; a non-group alternative contributes one
// lowered element.
func LowerOneOf(oneOf mson.OneOf, reg *refract.Registry, sink *warning.Sink) (*refract.Element, error) {
	options := make([]*refract.Element, 0, len(oneOf.Alternatives))
	for _, alt := range oneOf.Alternatives {
		opt := refract.New(refract.Option)
		switch {
		case alt.Group != nil:
			children := make([]*refract.Element, 0, len(alt.Group.Elements))
			for _, ge := range alt.Group.Elements {
				lowered, err := LowerElement(ge, reg, sink)
				if err != nil {
					return nil, err
				}
				if lowered != nil {
					children = append(children, lowered)
				}
			}
			opt.SetChildren(children)
		case alt.Element != nil:
			lowered, err := LowerElement(*alt.Element, reg, sink)
			if err != nil {
				return nil, err
			}
			if lowered != nil {
				opt.SetChildren([]*refract.Element{lowered})
			} else {
				opt.SetChildren([]*refract.Element{})
			}
		default:
			opt.SetChildren([]*refract.Element{})
		}
		options = append(options, opt)
	}

	sel := refract.New(refract.Select)
	sel.SetChildren(options)
	return sel, nil
}
