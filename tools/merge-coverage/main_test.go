package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const unitProfile = `mode: set
bennypowers.dev/rrls/internal/units/units.go:10.2,12.3 2 1
bennypowers.dev/rrls/internal/units/units.go:14.2,16.3 1 0
`

const integrationProfile = `mode: set
bennypowers.dev/rrls/internal/units/units.go:14.2,16.3 1 1
bennypowers.dev/rrls/lsp/server.go:40.1,42.2 3 0
`

func TestMergeSetMode(t *testing.T) {
	p := newProfile()
	require.NoError(t, p.add(strings.NewReader(unitProfile)))
	require.NoError(t, p.add(strings.NewReader(integrationProfile)))

	var out strings.Builder
	require.NoError(t, p.write(&out))
	assert.Equal(t, `mode: set
bennypowers.dev/rrls/internal/units/units.go:10.2,12.3 2 1
bennypowers.dev/rrls/internal/units/units.go:14.2,16.3 1 1
bennypowers.dev/rrls/lsp/server.go:40.1,42.2 3 0
`, out.String())
}

func TestMergeCountModeSums(t *testing.T) {
	p := newProfile()
	require.NoError(t, p.add(strings.NewReader("mode: count\na.go:1.1,2.2 1 3\n")))
	require.NoError(t, p.add(strings.NewReader("mode: count\na.go:1.1,2.2 1 4\n")))
	assert.Equal(t, 7, p.blocks["a.go:1.1,2.2 1"])
}

func TestMergeBadCount(t *testing.T) {
	p := newProfile()
	err := p.add(strings.NewReader("mode: set\na.go:1.1,2.2 1 lots\n"))
	assert.ErrorContains(t, err, "bad count")
}

func TestWriteEmptyProfile(t *testing.T) {
	var out strings.Builder
	require.NoError(t, newProfile().write(&out))
	assert.Equal(t, "mode: set\n", out.String())
}
