package lifecycle

import (
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/methods/workspace"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized keeps the connection for later notifications, builds the
// breakpoint catalog and asks the client to watch the workspace's
// stylesheets. Failures are reported as warnings; a partial catalog is
// still served.
func Initialized(req *types.RequestContext, _ *protocol.InitializedParams) error {
	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadCatalog(); err != nil {
		req.Warnf("failed to load stylesheets: %w", err)
		workspace.ShowMessage(req.GLSP, protocol.MessageTypeWarning,
			"Some stylesheets could not be loaded; responsive ranges from them are missing")
	}
	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.Warnf("failed to register file watchers: %w", err)
	}

	log.Info("Server initialized")
	return nil
}
