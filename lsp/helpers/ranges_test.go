package helpers_test

import (
	"testing"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/lsp/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestToProtocolRange(t *testing.T) {
	r := css.Range{
		Start: css.Position{Line: 2, Character: 4},
		End:   css.Position{Line: 3, Character: 1},
	}
	assert.Equal(t, protocol.Range{
		Start: protocol.Position{Line: 2, Character: 4},
		End:   protocol.Position{Line: 3, Character: 1},
	}, helpers.ToProtocolRange(r))

	assert.Equal(t, css.Position{Line: 7, Character: 9},
		helpers.FromProtocolPosition(protocol.Position{Line: 7, Character: 9}))
}

func TestClauses(t *testing.T) {
	content := `.grid[width-range~="0-300px"], .plain, .grid[width-range~="301px-"] { }
div[height-range~="0-10em"] { }
@media print {
  .card[width-range~="0-1in"] { }
}
.x { color: red; }
`
	clauses, err := helpers.Clauses(content, "css")
	require.NoError(t, err)
	require.Len(t, clauses, 4)

	assert.Equal(t, `.grid[width-range~="0-300px"]`, clauses[0].Text)
	require.Len(t, clauses[0].Matches, 1)
	assert.Equal(t, breakpoints.Width, clauses[0].Matches[0].Dimension)
	assert.Equal(t, breakpoints.Declaration{Fragment: ".grid", Min: "0", Max: "300px"}, clauses[0].Matches[0].Declaration)
	assert.False(t, clauses[0].Nested)

	assert.Equal(t, `.grid[width-range~="301px-"]`, clauses[1].Text)
	assert.Equal(t, uint32(39), clauses[1].Range.Start.Character)

	assert.Empty(t, clauses[2].Matches)
	require.Len(t, clauses[2].Rejections, 1)
	assert.ErrorIs(t, clauses[2].Rejections[0].Reason, breakpoints.ErrNoFragment)
	assert.Equal(t, breakpoints.Height, clauses[2].Rejections[0].Dimension)

	assert.True(t, clauses[3].Nested)
	assert.Equal(t, uint32(3), clauses[3].Range.Start.Line)

	t.Run("ClauseAt", func(t *testing.T) {
		assert.Equal(t, &clauses[0], helpers.ClauseAt(clauses, css.Position{Line: 0, Character: 3}))
		assert.Equal(t, &clauses[1], helpers.ClauseAt(clauses, css.Position{Line: 0, Character: 45}))
		assert.Nil(t, helpers.ClauseAt(clauses, css.Position{Line: 0, Character: 33}), ".plain declares nothing")
		assert.Nil(t, helpers.ClauseAt(clauses, css.Position{Line: 5, Character: 1}))
	})
}

func TestClauses_Languages(t *testing.T) {
	html := "<style>\n  .a[width-range~=\"0-1px\"] { }\n</style>"
	clauses, err := helpers.Clauses(html, "html")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, uint32(1), clauses[0].Range.Start.Line)
	assert.Equal(t, uint32(2), clauses[0].Range.Start.Character)

	js := "const s = css`.b[height-range~=\"0-1px\"] { }`;"
	clauses, err = helpers.Clauses(js, "javascript")
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, uint32(14), clauses[0].Range.Start.Character)

	clauses, err = helpers.Clauses(`{"a": 1}`, "json")
	require.NoError(t, err)
	assert.Empty(t, clauses)
}
