package textDocument

import (
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidOpen tracks the document and pushes its diagnostics
func DidOpen(req *types.RequestContext, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	log.Info("Document opened: %s (language: %s, version: %d)", item.URI, item.LanguageID, item.Version)

	if err := req.Server.DocumentManager().DidOpen(item.URI, item.LanguageID, int(item.Version), item.Text); err != nil {
		return err
	}
	pushDiagnostics(req, item.URI)
	return nil
}

// DidChange applies the edits and pushes fresh diagnostics
func DidChange(req *types.RequestContext, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Debug("Document changed: %s (version: %d, changes: %d)", uri, params.TextDocument.Version, len(params.ContentChanges))

	changes := contentChanges(params.ContentChanges)
	if err := req.Server.DocumentManager().DidChange(uri, int(params.TextDocument.Version), changes); err != nil {
		return err
	}
	pushDiagnostics(req, uri)
	return nil
}

// DidClose forgets the document and clears its published diagnostics
func DidClose(req *types.RequestContext, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI
	log.Info("Document closed: %s", uri)

	if err := req.Server.DocumentManager().DidClose(uri); err != nil {
		return err
	}
	pushDiagnostics(req, uri)
	return nil
}

// contentChanges normalizes the decoded change events. Whole-document
// events become events with no range; anything else is dropped.
func contentChanges(raw []any) []protocol.TextDocumentContentChangeEvent {
	changes := make([]protocol.TextDocumentContentChangeEvent, 0, len(raw))
	for _, change := range raw {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEvent:
			changes = append(changes, c)
		case protocol.TextDocumentContentChangeEventWhole:
			changes = append(changes, protocol.TextDocumentContentChangeEvent{Text: c.Text})
		}
	}
	return changes
}

// pushDiagnostics publishes uri's diagnostics to push clients once the
// connection is known
func pushDiagnostics(req *types.RequestContext, uri string) {
	if req.Server.UsePullDiagnostics() {
		return
	}
	conn := req.Server.GLSPContext()
	if conn == nil {
		return
	}
	if err := req.Server.PublishDiagnostics(conn, uri); err != nil {
		req.Warnf("failed to publish diagnostics for %s: %w", uri, err)
	}
}
