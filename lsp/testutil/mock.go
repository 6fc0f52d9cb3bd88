// Package testutil provides a ServerContext for handler unit tests
package testutil

import (
	"sync"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/documents"
	"bennypowers.dev/rrls/internal/stylesheet"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/tliron/glsp"
)

var _ types.ServerContext = (*MockServerContext)(nil)

// MockServerContext keeps its state in memory. The Func fields override
// the workspace operations; the Called fields and PublishedURIs record
// what handlers did.
type MockServerContext struct {
	docs  *documents.Manager
	cache *breakpoints.Cache

	rootURI, rootPath string
	config            types.ServerConfig
	conn              *glsp.Context
	usePull           bool

	LoadCatalogFunc        func() error
	RegisterWatchersFunc   func(*glsp.Context) error
	IsWatchedFileFunc      func(string) bool
	PublishDiagnosticsFunc func(*glsp.Context, string) error

	LoadCatalogCalled      bool
	RegisterWatchersCalled bool

	mu            sync.Mutex
	PublishedURIs []string
}

// NewMockServerContext returns a mock with the default configuration and
// an unbuilt catalog
func NewMockServerContext() *MockServerContext {
	return &MockServerContext{
		docs:   documents.NewManager(),
		cache:  new(breakpoints.Cache),
		config: types.DefaultConfig(),
	}
}

// SetSheets builds the catalog from sheets. As with any cache, only the
// first call builds.
func (m *MockServerContext) SetSheets(sheets ...stylesheet.Sheet) *breakpoints.Catalog {
	return m.cache.Get(func() []stylesheet.Sheet { return sheets })
}

func (m *MockServerContext) Document(uri string) *documents.Document { return m.docs.Get(uri) }
func (m *MockServerContext) DocumentManager() *documents.Manager     { return m.docs }
func (m *MockServerContext) AllDocuments() []*documents.Document     { return m.docs.GetAll() }
func (m *MockServerContext) CatalogCache() *breakpoints.Cache        { return m.cache }

// Catalog returns what SetSheets built, or an empty catalog
func (m *MockServerContext) Catalog() *breakpoints.Catalog {
	if c := m.cache.Peek(); c != nil {
		return c
	}
	return &breakpoints.Catalog{}
}

func (m *MockServerContext) RootURI() string                  { return m.rootURI }
func (m *MockServerContext) RootPath() string                 { return m.rootPath }
func (m *MockServerContext) SetRootURI(uri string)            { m.rootURI = uri }
func (m *MockServerContext) SetRootPath(path string)          { m.rootPath = path }
func (m *MockServerContext) GetConfig() types.ServerConfig    { return m.config }
func (m *MockServerContext) SetConfig(c types.ServerConfig)   { m.config = c }
func (m *MockServerContext) GLSPContext() *glsp.Context       { return m.conn }
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) { m.conn = ctx }
func (m *MockServerContext) UsePullDiagnostics() bool         { return m.usePull }
func (m *MockServerContext) SetUsePullDiagnostics(use bool)   { m.usePull = use }

// IsWatchedFile defers to IsWatchedFileFunc; nothing is watched by default
func (m *MockServerContext) IsWatchedFile(path string) bool {
	return m.IsWatchedFileFunc != nil && m.IsWatchedFileFunc(path)
}

func (m *MockServerContext) LoadCatalog() error {
	m.LoadCatalogCalled = true
	if m.LoadCatalogFunc != nil {
		return m.LoadCatalogFunc()
	}
	return nil
}

func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

func (m *MockServerContext) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	m.mu.Lock()
	m.PublishedURIs = append(m.PublishedURIs, uri)
	m.mu.Unlock()
	if m.PublishDiagnosticsFunc != nil {
		return m.PublishDiagnosticsFunc(ctx, uri)
	}
	return nil
}
