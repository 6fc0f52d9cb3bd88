package lsp

import (
	"errors"
	"sync"
	"sync/atomic"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/documents"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/parser/html"
	"bennypowers.dev/rrls/internal/parser/js"
	"bennypowers.dev/rrls/lsp/methods/lifecycle"
	"bennypowers.dev/rrls/lsp/methods/textDocument"
	"bennypowers.dev/rrls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rrls/lsp/methods/textDocument/hover"
	"bennypowers.dev/rrls/lsp/methods/workspace"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

var _ types.ServerContext = (*Server)(nil)

var errNoClient = errors.New("cannot publish diagnostics: no client context available")

// Server is the responsive ranges language server
type Server struct {
	docs *documents.Manager
	rpc  *server.Server

	// mu guards the fields below it
	mu       sync.RWMutex
	rootURI  string
	rootPath string
	config   types.ServerConfig
	client   *glsp.Context
	// pullSupport is nil until initialize reports the client's capability
	pullSupport *bool
	usePull     bool

	cache atomic.Pointer[breakpoints.Cache]
}

// NewServer wires the LSP handlers
func NewServer() (*Server, error) {
	s := &Server{
		docs:   documents.NewManager(),
		config: types.DefaultConfig(),
	}
	s.cache.Store(new(breakpoints.Cache))

	handler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentHover:               method(s, "textDocument/hover", hover.Hover),
	}

	// glsp speaks LSP 3.16; the custom handler adds textDocument/diagnostic
	// and the responsiveRanges/* requests in front of it.
	s.rpc = server.NewServer(newCustomHandler(s, &handler), lifecycle.ServerName, true)
	return s, nil
}

// RunStdio serves LSP over stdin and stdout until the connection closes
func (s *Server) RunStdio() error {
	return s.rpc.RunStdio()
}

// Close releases the parser pools. It may be called more than once.
func (s *Server) Close() error {
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
	return nil
}

func (s *Server) Document(uri string) *documents.Document { return s.docs.Get(uri) }
func (s *Server) DocumentManager() *documents.Manager     { return s.docs }
func (s *Server) AllDocuments() []*documents.Document     { return s.docs.GetAll() }

func (s *Server) RootURI() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootURI
}

func (s *Server) RootPath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rootPath
}

func (s *Server) SetRootURI(uri string) {
	s.mu.Lock()
	s.rootURI = uri
	s.mu.Unlock()
}

func (s *Server) SetRootPath(path string) {
	s.mu.Lock()
	s.rootPath = path
	s.mu.Unlock()
}

// GLSPContext returns the connection captured at initialize, used to
// notify the client outside of a request
func (s *Server) GLSPContext() *glsp.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.mu.Lock()
	s.client = ctx
	s.mu.Unlock()
}

// ClientDiagnosticCapability reports whether the client declared
// textDocument/diagnostic support, or nil before initialize
func (s *Server) ClientDiagnosticCapability() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pullSupport
}

// SetClientDiagnosticCapability records the client's capability and
// chooses pull or push diagnostics to match
func (s *Server) SetClientDiagnosticCapability(supported bool) {
	s.mu.Lock()
	s.pullSupport = &supported
	s.usePull = supported
	s.mu.Unlock()
}

// UsePullDiagnostics reports whether diagnostics are served on request
// instead of pushed with textDocument/publishDiagnostics
func (s *Server) UsePullDiagnostics() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usePull
}

func (s *Server) SetUsePullDiagnostics(use bool) {
	s.mu.Lock()
	s.usePull = use
	s.mu.Unlock()
}

// PublishDiagnostics pushes the diagnostics of uri. Closed documents get
// an empty list, which clears them in the client. Nothing is sent to
// clients that pull.
func (s *Server) PublishDiagnostics(ctx *glsp.Context, uri string) error {
	if ctx == nil {
		ctx = s.GLSPContext()
	}
	if ctx == nil {
		return errNoClient
	}
	if s.UsePullDiagnostics() {
		return nil
	}

	items, err := diagnostic.GetDiagnostics(s, uri)
	if err != nil {
		return err
	}
	if items == nil {
		items = []protocol.Diagnostic{}
	}

	log.Debug("Publishing %d diagnostics for: %s", len(items), uri)
	if ctx.Notify != nil {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: items,
		})
	}
	return nil
}
