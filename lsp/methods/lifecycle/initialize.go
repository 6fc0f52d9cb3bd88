package lifecycle

import (
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/uriutil"
	"bennypowers.dev/rrls/internal/version"
	"bennypowers.dev/rrls/lsp/methods/textDocument/diagnostic"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported to clients in serverInfo
const ServerName = "responsive-ranges-language-server"

// InitializeResult carries capabilities as a map so that the 3.17
// diagnosticProvider can be advertised
type InitializeResult struct {
	Capabilities map[string]any                       `json:"capabilities"`
	ServerInfo   *protocol.InitializeResultServerInfo `json:"serverInfo,omitempty"`
}

// Initialize records the workspace root and advertises hover,
// incremental sync and, to clients that pull, diagnostics.
// The custom handler has already detected pull support from the raw params.
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	client := "unknown"
	if params.ClientInfo != nil {
		client = params.ClientInfo.Name
	}
	log.Info("Initializing for client: %s", client)

	if params.Trace != nil && *params.Trace == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
	}

	if uri, path, ok := workspaceRoot(params); ok {
		req.Server.SetRootURI(uri)
		req.Server.SetRootPath(path)
		log.Info("Workspace root: %s", path)
	}

	pull := req.Server.UsePullDiagnostics()
	if pull {
		log.Info("Using pull diagnostics")
	} else {
		log.Info("Using push diagnostics")
	}

	serverVersion := version.GetVersion()
	return InitializeResult{
		Capabilities: capabilities(pull),
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &serverVersion,
		},
	}, nil
}

// workspaceRoot picks rootUri, then the deprecated rootPath, then the
// first workspace folder
func workspaceRoot(params *protocol.InitializeParams) (uri, path string, ok bool) {
	switch {
	case params.RootURI != nil && *params.RootURI != "":
		return *params.RootURI, uriutil.URIToPath(*params.RootURI), true
	case params.RootPath != nil && *params.RootPath != "":
		return uriutil.PathToURI(*params.RootPath), *params.RootPath, true
	case len(params.WorkspaceFolders) > 0:
		folder := params.WorkspaceFolders[0].URI
		return folder, uriutil.URIToPath(folder), true
	}
	return "", "", false
}

func capabilities(pull bool) map[string]any {
	openClose := true
	change := protocol.TextDocumentSyncKindIncremental
	caps := map[string]any{
		"textDocumentSync": protocol.TextDocumentSyncOptions{
			OpenClose: &openClose,
			Change:    &change,
		},
		"hoverProvider": true,
	}
	if pull {
		caps["diagnosticProvider"] = diagnostic.DiagnosticOptions{}
	}
	return caps
}
