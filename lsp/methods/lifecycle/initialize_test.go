package lifecycle

import (
	"testing"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rrls/lsp/testutil"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func initialize(t *testing.T, ctx types.ServerContext, params *protocol.InitializeParams) InitializeResult {
	t.Helper()
	result, err := Initialize(types.NewRequestContext(ctx, &glsp.Context{}), params)
	require.NoError(t, err)
	res, ok := result.(InitializeResult)
	require.True(t, ok, "result should be an InitializeResult")
	return res
}

func strPtr(s string) *string { return &s }

func TestInitialize_WorkspaceRoot(t *testing.T) {
	tests := []struct {
		name     string
		params   protocol.InitializeParams
		wantURI  string
		wantPath string
	}{
		{
			name:     "rootUri",
			params:   protocol.InitializeParams{RootURI: strPtr("file:///site")},
			wantURI:  "file:///site",
			wantPath: "/site",
		},
		{
			name:     "rootPath",
			params:   protocol.InitializeParams{RootPath: strPtr("/home/user/site")},
			wantURI:  "file:///home/user/site",
			wantPath: "/home/user/site",
		},
		{
			name: "rootUri wins over rootPath",
			params: protocol.InitializeParams{
				RootURI:  strPtr("file:///a"),
				RootPath: strPtr("/b"),
			},
			wantURI:  "file:///a",
			wantPath: "/a",
		},
		{
			name: "first workspace folder",
			params: protocol.InitializeParams{
				RootURI: strPtr(""),
				WorkspaceFolders: []protocol.WorkspaceFolder{
					{URI: "file:///mono/site", Name: "site"},
					{URI: "file:///mono/docs", Name: "docs"},
				},
			},
			wantURI:  "file:///mono/site",
			wantPath: "/mono/site",
		},
		{name: "no root"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.NewMockServerContext()
			initialize(t, ctx, &tt.params)

			assert.Equal(t, tt.wantURI, ctx.RootURI())
			assert.Equal(t, tt.wantPath, ctx.RootPath())
		})
	}
}

func TestInitialize_Capabilities(t *testing.T) {
	t.Run("push client", func(t *testing.T) {
		res := initialize(t, testutil.NewMockServerContext(), &protocol.InitializeParams{})

		require.NotNil(t, res.ServerInfo)
		assert.Equal(t, ServerName, res.ServerInfo.Name)
		require.NotNil(t, res.ServerInfo.Version)
		assert.NotEmpty(t, *res.ServerInfo.Version)

		caps := res.Capabilities
		assert.Equal(t, true, caps["hoverProvider"])
		sync, ok := caps["textDocumentSync"].(protocol.TextDocumentSyncOptions)
		require.True(t, ok)
		assert.True(t, *sync.OpenClose)
		assert.Equal(t, protocol.TextDocumentSyncKindIncremental, *sync.Change)
		assert.NotContains(t, caps, "diagnosticProvider")
	})

	t.Run("pull client", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.SetUsePullDiagnostics(true)

		caps := initialize(t, ctx, &protocol.InitializeParams{}).Capabilities

		assert.Equal(t, diagnostic.DiagnosticOptions{}, caps["diagnosticProvider"])
	})
}

func TestInitialize_VerboseTrace(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.LevelInfo) })
	trace := protocol.TraceValueVerbose

	initialize(t, testutil.NewMockServerContext(), &protocol.InitializeParams{Trace: &trace})

	assert.Equal(t, log.LevelDebug, log.GetLevel())
}
