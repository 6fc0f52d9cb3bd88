package types

import (
	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/documents"
	"github.com/tliron/glsp"
)

// ServerContext is what method handlers see of the server. Tests substitute
// testutil.MockServerContext.
type ServerContext interface {
	// Open documents
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager
	AllDocuments() []*documents.Document

	// Catalog returns the loaded breakpoint catalog, or an empty one before
	// LoadCatalog. CatalogCache exposes the cache it comes from.
	Catalog() *breakpoints.Catalog
	CatalogCache() *breakpoints.Cache

	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)

	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	// IsWatchedFile reports whether a change to path affects the catalog
	IsWatchedFile(path string) bool

	// LoadCatalog discards the catalog and rebuilds it from the workspace
	LoadCatalog() error
	RegisterFileWatchers(ctx *glsp.Context) error

	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)

	UsePullDiagnostics() bool
	SetUsePullDiagnostics(use bool)
	PublishDiagnostics(context *glsp.Context, uri string) error
}
