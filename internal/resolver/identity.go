// Package resolver filters the breakpoint catalog down to one component and
// resolves which of its ranges contain a measured size.
package resolver

import (
	"strings"

	"bennypowers.dev/rrls/internal/collections"
)

// Identity is how a component can be addressed by breakpoint selectors
type Identity struct {
	// PrimaryStyle is the component's main style name, e.g. "v-csslayout"
	PrimaryStyle string `json:"primaryStyle"`
	// Styles are the additional style names applied to the component
	Styles []string `json:"styles,omitempty"`
	// ID is the element id, if any
	ID string `json:"id,omitempty"`
}

// Fragments returns every selector fragment that refers to this component,
// lower-cased, in this order: ".primary", then for each style s ".s",
// ".primary.s", ".s.primary" and ".primary-s", then "#id". Empty names are
// skipped and repeated fragments are kept at their first position.
func (id Identity) Fragments() []string {
	primary := strings.ToLower(strings.TrimSpace(id.PrimaryStyle))

	fragments := collections.NewSet[string]()
	if primary != "" {
		fragments.Add("." + primary)
	}
	for _, style := range id.Styles {
		s := strings.ToLower(strings.TrimSpace(style))
		if s == "" {
			continue
		}
		fragments.Add("." + s)
		if primary != "" {
			fragments.Add(
				"."+primary+"."+s,
				"."+s+"."+primary,
				"."+primary+"-"+s,
			)
		}
	}
	if elementID := strings.ToLower(strings.TrimSpace(id.ID)); elementID != "" {
		fragments.Add("#" + elementID)
	}
	return fragments.Members()
}
