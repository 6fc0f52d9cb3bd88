package integration_test

import (
	"testing"

	"bennypowers.dev/rrls/lsp/methods/textDocument/hover"
	"bennypowers.dev/rrls/lsp/types"
	"bennypowers.dev/rrls/test/integration/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func hoverFixture(t *testing.T, line, character uint32) *protocol.Hover {
	t.Helper()
	server := testutil.NewTestServer(t)
	uri := "file:///breakpoints.css"
	testutil.OpenCSSFixture(t, server, uri, "breakpoints.css")

	result, err := hover.Hover(types.NewRequestContext(server, nil), &protocol.HoverParams{
		TextDocumentPositionParams: protocol.TextDocumentPositionParams{
			TextDocument: protocol.TextDocumentIdentifier{URI: uri},
			Position:     protocol.Position{Line: line, Character: character},
		},
	})
	require.NoError(t, err)
	return result
}

func hoverValue(t *testing.T, result *protocol.Hover) string {
	t.Helper()
	require.NotNil(t, result)
	content, ok := result.Contents.(protocol.MarkupContent)
	require.True(t, ok, "Expected MarkupContent")
	return content.Value
}

func TestHoverOnClosedRange(t *testing.T) {
	value := hoverValue(t, hoverFixture(t, 0, 2))
	assert.Contains(t, value, "`.grid` width breakpoint")
	assert.Contains(t, value, "from `0` (0px) to `300px` (300px)")
}

func TestHoverOnOpenRange(t *testing.T) {
	value := hoverValue(t, hoverFixture(t, 4, 2))
	assert.Contains(t, value, "from `301px` (301px) up")
}

func TestHoverOnInvertedHeightRange(t *testing.T) {
	value := hoverValue(t, hoverFixture(t, 16, 3))
	assert.Contains(t, value, "`.inverted` height breakpoint")
	assert.Contains(t, value, "`10in` (960px) to `1in` (96px)")
}

func TestHoverOnIgnoredSelector(t *testing.T) {
	value := hoverValue(t, hoverFixture(t, 20, 1))
	assert.Contains(t, value, "Ignored `width-range` attribute")
}

func TestHoverOutsideSelector(t *testing.T) {
	assert.Nil(t, hoverFixture(t, 1, 4), "Declarations are not hoverable")
	assert.Nil(t, hoverFixture(t, 3, 0), "Blank lines are not hoverable")
}
