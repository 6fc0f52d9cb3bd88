package responsive

import (
	"maps"
	"sync"

	"bennypowers.dev/rrls/internal/units"
)

// Node is an in-memory element. It records attributes and lays out probes
// with fixed font metrics, which is enough to resolve breakpoints outside a
// browser.
type Node struct {
	mu      sync.RWMutex
	attrs   map[string]string
	metrics units.FontMetrics
	probes  int
}

// NewNode creates an element whose relative units resolve against metrics
func NewNode(metrics units.FontMetrics) *Node {
	return &Node{attrs: make(map[string]string), metrics: metrics}
}

// SetAttribute implements Element
func (n *Node) SetAttribute(name, value string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// RemoveAttribute implements Element
func (n *Node) RemoveAttribute(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.attrs, name)
}

// Attribute returns the value of an attribute and whether it is present
func (n *Node) Attribute(name string) (string, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.attrs[name]
	return v, ok
}

// HasAttribute reports whether the attribute is present
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.Attribute(name)
	return ok
}

// Attributes returns a copy of all attributes
func (n *Node) Attributes() map[string]string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return maps.Clone(n.attrs)
}

// Children returns the number of probes currently attached
func (n *Node) Children() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.probes
}

// AppendProbe implements Container
func (n *Node) AppendProbe(width string) Probe {
	n.mu.Lock()
	n.probes++
	n.mu.Unlock()
	return &nodeProbe{parent: n, width: width}
}

type nodeProbe struct {
	parent  *Node
	width   string
	removed bool
}

// OffsetWidth lays the probe out with the parent's font metrics. A width
// that is not a font-relative length renders as 0, like an invalid CSS
// width on an empty block.
func (p *nodeProbe) OffsetWidth() int {
	px, err := p.parent.metrics.Measure(p.width, nil)
	if err != nil {
		return 0
	}
	return px
}

func (p *nodeProbe) Remove() {
	if p.removed {
		return
	}
	p.removed = true
	p.parent.mu.Lock()
	p.parent.probes--
	p.parent.mu.Unlock()
}
