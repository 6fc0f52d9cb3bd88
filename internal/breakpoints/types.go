package breakpoints

import (
	"fmt"
	"strings"
)

// Dimension is the measured axis a breakpoint applies to
type Dimension int

const (
	// Width selects [width-range] breakpoints
	Width Dimension = iota
	// Height selects [height-range] breakpoints
	Height
)

// Dimensions lists both axes in the order they are resolved
var Dimensions = [...]Dimension{Width, Height}

// String returns "width" or "height"
func (d Dimension) String() string {
	switch d {
	case Width:
		return "width"
	case Height:
		return "height"
	default:
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
}

// Attribute returns the element attribute carrying the resolved ranges
// for this dimension
func (d Dimension) Attribute() string {
	return d.String() + "-range"
}

// DimensionForAttribute maps "width-range"/"height-range" (any case) back
// to its Dimension
func DimensionForAttribute(name string) (Dimension, bool) {
	switch strings.ToLower(name) {
	case "width-range":
		return Width, true
	case "height-range":
		return Height, true
	}
	return Width, false
}

// Declaration is one [width-range~="min-max"] style breakpoint found in a
// stylesheet. Tokens keep the stylesheet's (lower-cased) text verbatim,
// since consumers write attribute selectors against that exact text.
// A Declaration is a comparable value; == is the dedup equality.
type Declaration struct {
	// Fragment is the class/id selector the range is attached to, e.g. ".grid"
	Fragment string `json:"fragment"`
	// Min is the lower bound token, e.g. "0px", "2em", or "0"
	Min string `json:"min"`
	// Max is the upper bound token; "" means the range has no upper bound
	Max string `json:"max"`
}

// Open reports whether the range has no upper bound ("501px-")
func (d Declaration) Open() bool {
	return d.Max == ""
}

// Token returns the range as written in the attribute value: "min-max",
// or "min-" for open ranges
func (d Declaration) Token() string {
	return d.Min + "-" + d.Max
}

func (d Declaration) String() string {
	return fmt.Sprintf("%s[%s]", d.Fragment, d.Token())
}

// Catalog holds every breakpoint declaration discovered on a page,
// deduplicated and in discovery order
type Catalog struct {
	Width  []Declaration `json:"width"`
	Height []Declaration `json:"height"`
}

// For returns the declarations of one dimension
func (c *Catalog) For(dim Dimension) []Declaration {
	if c == nil {
		return nil
	}
	if dim == Height {
		return c.Height
	}
	return c.Width
}

// Len returns the total number of declarations
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Width) + len(c.Height)
}

// add appends decl unless a structurally equal declaration is already
// present. The scan is linear; catalogs hold tens of entries.
func (c *Catalog) add(dim Dimension, decl Declaration) bool {
	list := &c.Width
	if dim == Height {
		list = &c.Height
	}
	for _, existing := range *list {
		if existing == decl {
			return false
		}
	}
	*list = append(*list, decl)
	return true
}
