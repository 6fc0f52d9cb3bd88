package lifecycle

import (
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/parser/html"
	"bennypowers.dev/rrls/internal/parser/js"
	"bennypowers.dev/rrls/lsp/types"
)

// Shutdown frees the pooled parsers. Later requests get fresh ones, so a
// repeated shutdown is harmless.
func Shutdown(*types.RequestContext) error {
	log.Info("Server shutting down")
	css.ClosePool()
	html.ClosePool()
	js.ClosePool()
	return nil
}
