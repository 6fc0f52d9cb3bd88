package responsive

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNoContainer means a relative unit was measured against a context that
// cannot host a probe
var ErrNoContainer = errors.New("measurement context cannot host a probe")

// Probe is a temporary element whose width is set to the length under test
type Probe interface {
	// OffsetWidth returns the rendered width in whole pixels
	OffsetWidth() int
	// Remove detaches the probe from its container
	Remove()
}

// Container is an element a Probe can be appended to
type Container interface {
	AppendProbe(width string) Probe
}

// ProbeMeasurer measures relative lengths the way a browser does: a probe
// styled with the length as its width is appended to the context element,
// its offset width read back, and the probe removed.
type ProbeMeasurer struct{}

// Measure implements units.Measurer. context must be a Container.
func (ProbeMeasurer) Measure(token string, context any) (int, error) {
	c, ok := context.(Container)
	if !ok || isNil(c) {
		return 0, fmt.Errorf("measuring %q against %T: %w", token, context, ErrNoContainer)
	}
	probe := c.AppendProbe(token)
	defer probe.Remove()
	return probe.OffsetWidth(), nil
}

// isNil catches nil pointers wrapped in an interface
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
