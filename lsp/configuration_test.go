package lsp

import (
	"path/filepath"
	"testing"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/loader"
	"bennypowers.dev/rrls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
)

func TestLoadCatalog(t *testing.T) {
	t.Run("default glob finds workspace stylesheets", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeWorkspaceFile(t, tmpDir, "src/grid.css", `@import "parts/card.css";
.grid[width-range~="0-600px"] { }
.grid[width-range~="601px-"] { }`)
		writeWorkspaceFile(t, tmpDir, "src/parts/card.css", `.card[height-range~="0-10em"] { }`)
		writeWorkspaceFile(t, tmpDir, "node_modules/lib/lib.css", `.lib[width-range~="0-1px"] { }`)

		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		server.SetRootPath(tmpDir)
		require.NoError(t, server.LoadCatalog())

		catalog := server.Catalog()
		assert.Equal(t, []breakpoints.Declaration{
			{Fragment: ".grid", Min: "0", Max: "600px"},
			{Fragment: ".grid", Min: "601px", Max: ""},
		}, catalog.Width)
		assert.Equal(t, []breakpoints.Declaration{
			{Fragment: ".card", Min: "0", Max: "10em"},
		}, catalog.Height)
	})

	t.Run("package.json selects stylesheets and page", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeWorkspaceFile(t, tmpDir, "package.json", `{
  "responsiveRanges": {
    "stylesheets": ["elements/**/*.css"],
    "page": "index.html"
  }
}`)
		writeWorkspaceFile(t, tmpDir, "index.html", `<html><head>
<style>.nav[width-range~="0-40em"] { }</style>
</head></html>`)
		writeWorkspaceFile(t, tmpDir, "elements/tabs/tabs.css", `.tabs[width-range~="0-30em"] { }`)
		writeWorkspaceFile(t, tmpDir, "other.css", `.other[width-range~="0-1px"] { }`)

		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		server.SetRootPath(tmpDir)
		require.NoError(t, server.LoadCatalog())

		config := server.GetConfig()
		assert.Equal(t, []string{"elements/**/*.css"}, config.Stylesheets)
		assert.Equal(t, "index.html", config.Page)

		var fragments []string
		for _, decl := range server.Catalog().Width {
			fragments = append(fragments, decl.Fragment)
		}
		assert.Equal(t, []string{".nav", ".tabs"}, fragments, "page sheets come first")
	})

	t.Run("reload replaces the catalog", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeWorkspaceFile(t, tmpDir, "a.css", `.a[width-range~="0-1px"] { }`)

		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		server.SetRootPath(tmpDir)
		require.NoError(t, server.LoadCatalog())
		first := server.CatalogCache()
		assert.Len(t, server.Catalog().Width, 1)

		writeWorkspaceFile(t, tmpDir, "b.css", `.b[width-range~="0-1px"] { }`)
		require.NoError(t, server.LoadCatalog())

		assert.NotSame(t, first, server.CatalogCache())
		assert.Len(t, server.Catalog().Width, 2)
		assert.Len(t, first.Peek().Width, 1, "an existing cache never changes")
	})

	t.Run("no workspace root loads nothing", func(t *testing.T) {
		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		require.NoError(t, server.LoadCatalog())
		assert.Equal(t, 0, server.Catalog().Len())
		assert.True(t, server.CatalogCache().Built())
	})

	t.Run("missing page keeps the stylesheets", func(t *testing.T) {
		tmpDir := t.TempDir()
		writeWorkspaceFile(t, tmpDir, "src/grid.css", `.grid[width-range~="0-600px"] { }`)
		writeWorkspaceFile(t, tmpDir, "src/card.css", `.card[height-range~="10em-"] { }`)

		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		server.SetRootPath(tmpDir)
		config := types.DefaultConfig()
		config.Page = "missing.html"
		server.SetConfig(config)

		err = server.LoadCatalog()
		require.ErrorIs(t, err, loader.ErrEntryNotFound)

		catalog := server.Catalog()
		assert.Equal(t, []breakpoints.Declaration{{Fragment: ".grid", Min: "0", Max: "600px"}}, catalog.Width)
		assert.Equal(t, []breakpoints.Declaration{{Fragment: ".card", Min: "10em"}}, catalog.Height)
	})

	t.Run("invalid glob is reported", func(t *testing.T) {
		tmpDir := t.TempDir()

		server, err := NewServer()
		require.NoError(t, err)
		defer func() { _ = server.Close() }()

		server.SetRootPath(tmpDir)
		writeWorkspaceFile(t, tmpDir, "src/a.css", `.a[width-range~="0-1px"] { }`)
		server.SetConfig(types.ServerConfig{Stylesheets: []string{"src/[.css", "src/*.css"}})

		assert.Error(t, server.LoadCatalog())
		assert.Len(t, server.Catalog().Width, 1)
	})
}

func TestMergeConfig(t *testing.T) {
	workspace := types.ServerConfig{
		Stylesheets:  []string{"src/*.css"},
		Page:         "index.html",
		RootFontSize: 10,
		XHeight:      8,
	}

	t.Run("fills defaults", func(t *testing.T) {
		merged := mergeConfig(types.DefaultConfig(), workspace)
		assert.Equal(t, []string{"src/*.css"}, merged.Stylesheets)
		assert.Equal(t, "index.html", merged.Page)
		assert.Equal(t, 10.0, merged.RootFontSize)
		assert.Equal(t, types.DefaultConfig().FontSize, merged.FontSize)
		assert.Equal(t, 8.0, merged.XHeight)
	})

	t.Run("client settings win", func(t *testing.T) {
		current := types.ServerConfig{
			Stylesheets:  []string{"lib/*.css"},
			Page:         "demo.html",
			RootFontSize: 20,
		}
		merged := mergeConfig(current, workspace)
		assert.Equal(t, []string{"lib/*.css"}, merged.Stylesheets)
		assert.Equal(t, "demo.html", merged.Page)
		assert.Equal(t, 20.0, merged.RootFontSize)
		assert.Equal(t, 8.0, merged.XHeight)
	})
}

func TestIsWatchedFile(t *testing.T) {
	root := filepath.FromSlash("/workspace")

	server := newTestServer()
	server.SetRootPath(root)
	server.SetConfig(types.ServerConfig{
		Stylesheets: []string{"src/**/*.css", "elements/*/styles.js"},
		Page:        "index.html",
	})

	tests := []struct {
		path string
		want bool
	}{
		{"/workspace/src/grid.css", true},
		{"/workspace/src/parts/card.css", true},
		{"/workspace/elements/tabs/styles.js", true},
		{"/workspace/index.html", true},
		{"/workspace/other.css", false},
		{"/workspace/package.json", false},
		{"/elsewhere/src/grid.css", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, server.IsWatchedFile(filepath.FromSlash(tt.path)))
		})
	}
}

func TestWatchPatterns(t *testing.T) {
	server := newTestServer()
	server.SetConfig(types.ServerConfig{Stylesheets: []string{"**/*.css"}, Page: "index.html"})

	assert.Equal(t, []string{"index.html", "**/*.css"}, server.watchPatterns(), "relative without a root")

	server.SetRootPath("/workspace")
	assert.Equal(t, []string{"/workspace/index.html", "/workspace/**/*.css"}, server.watchPatterns())
}

func TestRegisterFileWatchers(t *testing.T) {
	t.Run("skips without a client connection", func(t *testing.T) {
		server := newTestServer()
		assert.NoError(t, server.RegisterFileWatchers(nil))
		assert.NoError(t, server.RegisterFileWatchers(&glsp.Context{}))
	})

	t.Run("registers configured patterns", func(t *testing.T) {
		server := newTestServer()
		server.SetRootPath("/workspace")

		called := make(chan string, 1)
		ctx := &glsp.Context{Call: func(method string, params any, result any) {
			called <- method
		}}

		require.NoError(t, server.RegisterFileWatchers(ctx))
		assert.Equal(t, "client/registerCapability", <-called)
	})
}

func TestSetRootPath(t *testing.T) {
	server, err := NewServer()
	require.NoError(t, err)
	defer func() { _ = server.Close() }()

	assert.Empty(t, server.RootPath())

	server.SetRootPath("/test/path")
	assert.Equal(t, "/test/path", server.RootPath())
}
