// Package testutil builds servers and workspaces for the integration tests
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/rrls/internal/uriutil"
	"bennypowers.dev/rrls/lsp"
	"bennypowers.dev/rrls/lsp/methods/textDocument"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// fixtures is relative to the integration test package
var fixtures = filepath.Join("..", "fixtures")

// LoadCSSFixture returns the content of fixtures/css/name
func LoadCSSFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(fixtures, "css", name)) //nolint:gosec // G304: fixture path
	require.NoError(t, err, "reading CSS fixture %s", name)
	return string(data)
}

// CopyWorkspace copies fixtures/name to a temporary directory the test
// may modify and returns its path
func CopyWorkspace(t *testing.T, name string) string {
	t.Helper()
	dst := t.TempDir()
	require.NoError(t, os.CopyFS(dst, os.DirFS(filepath.Join(fixtures, name))), "copying workspace %s", name)
	return dst
}

// WriteFile writes content to the slash-separated name under root and
// returns the file's path
func WriteFile(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// NewTestServer returns a server that is closed when the test ends
func NewTestServer(t *testing.T) *lsp.Server {
	t.Helper()
	server, err := lsp.NewServer()
	require.NoError(t, err)
	t.Cleanup(func() { _ = server.Close() })
	return server
}

// NewWorkspaceServer returns a server rooted at root with its catalog loaded
func NewWorkspaceServer(t *testing.T, root string) *lsp.Server {
	t.Helper()
	server := NewTestServer(t)
	server.SetRootPath(root)
	server.SetRootURI(uriutil.PathToURI(root))
	require.NoError(t, server.LoadCatalog())
	return server
}

// OpenDocument sends didOpen for content at version 1
func OpenDocument(t *testing.T, server *lsp.Server, uri, languageID, content string) {
	t.Helper()
	err := textDocument.DidOpen(types.NewRequestContext(server, nil), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{
			URI:        uri,
			LanguageID: languageID,
			Version:    1,
			Text:       content,
		},
	})
	require.NoError(t, err, "opening %s", uri)
}

// OpenCSSFixture opens fixtures/css/name as a css document
func OpenCSSFixture(t *testing.T, server *lsp.Server, uri, name string) {
	t.Helper()
	OpenDocument(t, server, uri, "css", LoadCSSFixture(t, name))
}
