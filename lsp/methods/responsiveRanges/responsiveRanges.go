// Package responsiveranges implements the server's custom requests, which
// expose the workspace breakpoint catalog and resolve a component's range
// attributes for a given size.
package responsiveranges

import (
	"fmt"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/resolver"
	"bennypowers.dev/rrls/internal/responsive"
	"bennypowers.dev/rrls/lsp/types"
)

// Custom request methods
const (
	MethodCatalog = "responsiveRanges/catalog"
	MethodResolve = "responsiveRanges/resolve"
)

// CatalogParams are the (empty) parameters of responsiveRanges/catalog
type CatalogParams struct{}

// ResolveParams describe a component and its measured outer size
type ResolveParams struct {
	resolver.Identity
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ResolveResult is what the component's range attributes would be after a
// resize to the requested size
type ResolveResult struct {
	responsive.Ranges
	// Fragments are the selector fragments the component answers to
	Fragments []string `json:"fragments"`
	// Breakpoints are the catalog entries selected for the component
	Breakpoints breakpoints.Catalog `json:"breakpoints"`
	// Attributes are the component's attributes after the resize
	Attributes map[string]string `json:"attributes"`
}

// Catalog handles responsiveRanges/catalog
func Catalog(req *types.RequestContext, _ *CatalogParams) (*breakpoints.Catalog, error) {
	catalog := req.Server.Catalog()
	log.Debug("Catalog requested: %d breakpoints", catalog.Len())
	return &breakpoints.Catalog{
		Width:  nonNil(catalog.Width),
		Height: nonNil(catalog.Height),
	}, nil
}

// Resolve handles responsiveRanges/resolve. The component is attached to the
// workspace catalog and resized once; relative units are probed with the
// configured font metrics.
func Resolve(req *types.RequestContext, params *ResolveParams) (*ResolveResult, error) {
	if params.Width < 0 || params.Height < 0 {
		return nil, fmt.Errorf("invalid size %dx%d", params.Width, params.Height)
	}

	cache := req.Server.CatalogCache()
	if cache == nil || !cache.Built() {
		// Not loaded yet; resolve against nothing rather than pin an empty catalog
		cache = new(breakpoints.Cache)
	}

	node := responsive.NewNode(req.Server.GetConfig().FontMetrics())
	ext := responsive.Attach(responsive.NewTarget(params.Identity, node), responsive.WithCache(cache))
	ranges := ext.OnResize(node, params.Width, params.Height)

	selected := ext.Breakpoints()
	return &ResolveResult{
		Ranges:    ranges,
		Fragments: params.Fragments(),
		Breakpoints: breakpoints.Catalog{
			Width:  nonNil(selected.For(breakpoints.Width)),
			Height: nonNil(selected.For(breakpoints.Height)),
		},
		Attributes: node.Attributes(),
	}, nil
}

func nonNil(decls []breakpoints.Declaration) []breakpoints.Declaration {
	if decls == nil {
		return []breakpoints.Declaration{}
	}
	return decls
}
