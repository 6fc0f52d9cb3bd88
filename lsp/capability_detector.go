package lsp

import (
	"encoding/json"
)

// initializeCapabilities is the slice of the initialize params the server
// inspects before glsp decodes them. glsp v0.2.2 models LSP 3.16, which has
// no textDocument.diagnostic client capability.
type initializeCapabilities struct {
	Capabilities struct {
		TextDocument *struct {
			Diagnostic json.RawMessage `json:"diagnostic"`
		} `json:"textDocument"`
	} `json:"capabilities"`
}

// DetectPullDiagnosticsSupport reports whether raw initialize params declare
// the LSP 3.17 textDocument.diagnostic capability. Any object there counts,
// even an empty one. Params that don't parse mean push diagnostics.
func DetectPullDiagnosticsSupport(rawParams json.RawMessage) bool {
	var params initializeCapabilities
	if err := json.Unmarshal(rawParams, &params); err != nil {
		return false
	}
	td := params.Capabilities.TextDocument
	if td == nil || len(td.Diagnostic) == 0 {
		return false
	}
	return string(td.Diagnostic) != "null"
}
