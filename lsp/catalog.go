package lsp

import (
	"context"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/loader"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/stylesheet"
	"bennypowers.dev/rrls/lsp/methods/workspace"
)

var emptyCatalog = &breakpoints.Catalog{}

// CatalogCache returns the cache holding the workspace catalog. It is
// replaced, not refreshed, when the catalog is reloaded.
func (s *Server) CatalogCache() *breakpoints.Cache {
	return s.cache.Load()
}

// Catalog returns the workspace catalog, or an empty catalog before the
// workspace has been loaded
func (s *Server) Catalog() *breakpoints.Catalog {
	if catalog := s.CatalogCache().Peek(); catalog != nil {
		return catalog
	}
	return emptyCatalog
}

// LoadCatalog merges workspace configuration and scans the configured page
// and stylesheets into a new catalog. Entries that fail to load are
// reported; whatever did load is kept.
func (s *Server) LoadCatalog() error {
	if err := s.LoadPackageJsonConfig(); err != nil {
		log.Warn("Failed to read workspace configuration: %v", err)
	}

	cfg := s.GetConfig()
	rootPath := s.RootPath()

	var loadErr error
	source := func() []stylesheet.Sheet {
		if rootPath == "" {
			return nil
		}
		sheets, err := loader.New(rootPath).Load(context.Background(), cfg.Page, cfg.Stylesheets)
		loadErr = err
		return sheets
	}

	cache := new(breakpoints.Cache)
	catalog := cache.Get(source)

	s.cache.Store(cache)

	workspace.LogInfo(s.GLSPContext(), "Loaded %d width and %d height breakpoints", len(catalog.Width), len(catalog.Height))
	return loadErr
}
