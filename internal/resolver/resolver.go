package resolver

import (
	"strings"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/collections"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/units"
)

// Breakpoints is the part of the catalog that applies to one component.
// It is fixed at attach time; later catalog or identity changes are not
// reflected.
type Breakpoints struct {
	Width  []breakpoints.Declaration `json:"width"`
	Height []breakpoints.Declaration `json:"height"`
}

// Attach selects the catalog declarations whose fragment refers to id,
// keeping catalog order. A declaration is kept once even when several
// fragments name it.
func Attach(id Identity, catalog *breakpoints.Catalog) *Breakpoints {
	fragments := collections.NewSet(id.Fragments()...)
	bp := &Breakpoints{}
	if catalog == nil || fragments.Len() == 0 {
		return bp
	}
	bp.Width = filter(catalog.Width, fragments)
	bp.Height = filter(catalog.Height, fragments)
	log.Debug("Attached %d width and %d height breakpoints to %v", len(bp.Width), len(bp.Height), id.Fragments())
	return bp
}

func filter(decls []breakpoints.Declaration, fragments *collections.Set[string]) []breakpoints.Declaration {
	var out []breakpoints.Declaration
	for _, d := range decls {
		if fragments.Has(strings.ToLower(d.Fragment)) {
			out = append(out, d)
		}
	}
	return out
}

// For returns the component's declarations of one dimension
func (b *Breakpoints) For(dim breakpoints.Dimension) []breakpoints.Declaration {
	if b == nil {
		return nil
	}
	if dim == breakpoints.Height {
		return b.Height
	}
	return b.Width
}

// Len returns the number of declarations across both dimensions
func (b *Breakpoints) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Width) + len(b.Height)
}

// Matches returns the declarations of dim whose range contains size, in
// catalog order. Closed ranges match min <= size <= max, open ranges match
// min <= size. A declaration whose min or max cannot be converted to pixels
// is skipped. probe is the element relative units are measured against.
func (b *Breakpoints) Matches(dim breakpoints.Dimension, size int, probe any, m units.Measurer) []breakpoints.Declaration {
	var matched []breakpoints.Declaration
	for _, d := range b.For(dim) {
		lower, err := units.ToPixels(d.Min, probe, m)
		if err != nil {
			log.Debug("Skipping %s breakpoint %s: %v", dim, d, err)
			continue
		}
		if d.Open() {
			if lower <= size {
				matched = append(matched, d)
			}
			continue
		}
		upper, err := units.ToPixels(d.Max, probe, m)
		if err != nil {
			log.Debug("Skipping %s breakpoint %s: %v", dim, d, err)
			continue
		}
		if lower <= size && size <= upper {
			matched = append(matched, d)
		}
	}
	return matched
}

// Resolve returns the space separated range tokens ("0px-300px 301px-") of
// the declarations matching size, or "" when none match. Tokens keep the
// stylesheet's text so attribute selectors written against it match.
func (b *Breakpoints) Resolve(dim breakpoints.Dimension, size int, probe any, m units.Measurer) string {
	matched := b.Matches(dim, size, probe, m)
	tokens := make([]string, len(matched))
	for i, d := range matched {
		tokens[i] = d.Token()
	}
	return strings.Join(tokens, " ")
}
