// Package responsive attaches breakpoint resolution to a component and
// reflects the matching ranges into its width-range and height-range
// attributes whenever the component is resized.
package responsive

import (
	"sync"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/resolver"
	"bennypowers.dev/rrls/internal/stylesheet"
	"bennypowers.dev/rrls/internal/units"
)

// Element is the DOM surface the extension writes to
type Element interface {
	SetAttribute(name, value string)
	RemoveAttribute(name string)
}

// Target is a component that can be made responsive
type Target interface {
	Identity() resolver.Identity
	Element() Element
}

type target struct {
	id resolver.Identity
	el Element
}

func (t target) Identity() resolver.Identity { return t.id }
func (t target) Element() Element            { return t.el }

// NewTarget pairs an identity with the element carrying the range attributes
func NewTarget(id resolver.Identity, el Element) Target {
	if isNil(el) {
		el = nil
	}
	return target{id: id, el: el}
}

// Ranges are the attribute values set by the last resize. An empty string
// means the attribute is absent.
type Ranges struct {
	Width  string `json:"widthRange,omitempty"`
	Height string `json:"heightRange,omitempty"`
}

// For returns the value of one dimension
func (r Ranges) For(dim breakpoints.Dimension) string {
	if dim == breakpoints.Height {
		return r.Height
	}
	return r.Width
}

// Extension keeps a component's width-range and height-range attributes in
// sync with its measured size
type Extension struct {
	target      Target
	cache       *breakpoints.Cache
	source      stylesheet.Source
	measurer    units.Measurer
	breakpoints *resolver.Breakpoints

	mu      sync.Mutex
	current Ranges
}

// Attach makes target responsive. The catalog is built on the first attach
// in the process (or for the configured cache) and the target's breakpoints
// are selected from it once; neither is refreshed afterwards.
func Attach(t Target, opts ...Option) *Extension {
	e := &Extension{
		target:   t,
		cache:    breakpoints.Shared(),
		measurer: ProbeMeasurer{},
	}
	for _, opt := range opts {
		opt(e)
	}

	source := e.source
	if source == nil {
		source = func() []stylesheet.Sheet { return nil }
	}
	catalog := e.cache.Get(source)
	e.breakpoints = resolver.Attach(t.Identity(), catalog)
	log.Debug("Responsive extension attached to %v with %d breakpoints", t.Identity().Fragments(), e.breakpoints.Len())
	return e
}

// Breakpoints returns the declarations selected for the target
func (e *Extension) Breakpoints() *resolver.Breakpoints {
	return e.breakpoints
}

// Current returns the ranges applied by the last resize
func (e *Extension) Current() Ranges {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// OnResize resolves both dimensions for the new outer size of measured and
// writes the results to the target's element. A non-empty result replaces
// the attribute value; an empty one removes the attribute. measured is also
// where relative units are probed.
func (e *Extension) OnResize(measured Element, width, height int) Ranges {
	e.mu.Lock()
	defer e.mu.Unlock()

	el := e.target.Element()
	var next Ranges
	for _, dim := range breakpoints.Dimensions {
		value := e.breakpoints.Resolve(dim, sizeFor(dim, width, height), measured, e.measurer)
		if dim == breakpoints.Height {
			next.Height = value
		} else {
			next.Width = value
		}
		if el == nil {
			continue
		}
		if value != "" {
			el.SetAttribute(dim.Attribute(), value)
		} else {
			el.RemoveAttribute(dim.Attribute())
		}
	}
	e.current = next
	return next
}

func sizeFor(dim breakpoints.Dimension, width, height int) int {
	if dim == breakpoints.Height {
		return height
	}
	return width
}
