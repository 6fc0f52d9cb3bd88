package workspace

import (
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/uriutil"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles notification.
// Any change to a configured stylesheet or page rebuilds the catalog.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Debug("Watched files changed: %d files", len(params.Changes))

	needsReload := false
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		if req.Server.IsWatchedFile(path) {
			log.Debug("Stylesheet change: %s (type: %d)", path, change.Type)
			needsReload = true
		}
	}

	if !needsReload {
		return nil
	}

	log.Info("Rebuilding breakpoint catalog due to stylesheet changes")
	if err := req.Server.LoadCatalog(); err != nil {
		req.Warnf("failed to reload stylesheets: %w", err)
	}
	return nil
}
