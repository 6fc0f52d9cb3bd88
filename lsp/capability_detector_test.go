package lsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPullDiagnosticsSupport(t *testing.T) {
	tests := []struct {
		name   string
		params string
		want   bool
	}{
		{
			name:   "diagnostic capability with options",
			params: `{"capabilities":{"textDocument":{"diagnostic":{"dynamicRegistration":true,"relatedDocumentSupport":false}}}}`,
			want:   true,
		},
		{
			name:   "empty diagnostic object",
			params: `{"capabilities":{"textDocument":{"diagnostic":{}}}}`,
			want:   true,
		},
		{
			name:   "null diagnostic",
			params: `{"capabilities":{"textDocument":{"diagnostic":null}}}`,
			want:   false,
		},
		{
			name:   "LSP 3.16 client",
			params: `{"capabilities":{"textDocument":{"hover":{"contentFormat":["markdown"]},"publishDiagnostics":{"relatedInformation":true}}}}`,
			want:   false,
		},
		{
			name:   "null textDocument",
			params: `{"capabilities":{"textDocument":null}}`,
			want:   false,
		},
		{
			name:   "workspace capabilities only",
			params: `{"rootUri":"file:///site","capabilities":{"workspace":{"didChangeWatchedFiles":{"dynamicRegistration":true}}}}`,
			want:   false,
		},
		{
			name:   "no capabilities",
			params: `{}`,
			want:   false,
		},
		{
			name:   "malformed",
			params: `{"capabilities":{"textDocument":`,
			want:   false,
		},
		{
			name:   "empty",
			params: ``,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPullDiagnosticsSupport(json.RawMessage(tt.params)))
		})
	}
}
