package uriutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

type platformCase struct {
	name    string
	input   string
	want    string
	windows bool
}

func (c platformCase) skip(t *testing.T) {
	t.Helper()
	if c.windows != (runtime.GOOS == "windows") {
		t.Skipf("not applicable on %s", runtime.GOOS)
	}
}

func TestPathToURI(t *testing.T) {
	tests := []platformCase{
		{name: "workspace root", input: "/home/user/site", want: "file:///home/user/site"},
		{name: "filesystem root", input: "/", want: "file:///"},
		{name: "spaces", input: "/home/user/my site/layout.css", want: "file:///home/user/my%20site/layout.css"},
		{name: "unicode", input: "/home/user/文件", want: "file:///home/user/%E6%96%87%E4%BB%B6"},
		{name: "drive letter", input: `C:\site\index.html`, want: "file:///C:/site/index.html", windows: true},
		{name: "drive letter with spaces", input: `C:\Foo Bar\a.css`, want: "file:///C:/Foo%20Bar/a.css", windows: true},
		{name: "UNC share", input: `\\server\share\a.css`, want: "file://server/share/a.css", windows: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)
			assert.Equal(t, tt.want, PathToURI(tt.input))
		})
	}
}

func TestURIToPath(t *testing.T) {
	sep := string(filepath.Separator)
	tests := []platformCase{
		{name: "workspace root", input: "file:///home/user/site", want: "/home/user/site"},
		{name: "filesystem root", input: "file:///", want: "/"},
		{name: "percent-encoded spaces", input: "file:///home/user/my%20site", want: "/home/user/my site"},
		{name: "percent-encoded unicode", input: "file:///home/user/%E6%96%87%E4%BB%B6", want: "/home/user/文件"},
		{name: "drive letter", input: "file:///C:/site/a.css", want: "C:" + sep + "site" + sep + "a.css", windows: true},
		{name: "UNC share", input: "file://server/share/a.css", want: `\\server\share\a.css`, windows: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)
			assert.Equal(t, tt.want, URIToPath(tt.input))
		})
	}

	t.Run("drive letter on any platform", func(t *testing.T) {
		assert.Equal(t, "C:"+sep+"site", URIToPath("file:///C:/site"))
	})

	t.Run("not a file URI", func(t *testing.T) {
		assert.Equal(t, filepath.FromSlash("https://example.com/a.css"), URIToPath("https://example.com/a.css"))
	})
}

func TestRoundTrip(t *testing.T) {
	tests := []platformCase{
		{name: "nested", input: "/home/user/projects/responsive-ranges/src"},
		{name: "spaces", input: "/home/user/my site"},
		{name: "unicode", input: "/home/user/文件"},
		{name: "drive letter", input: `D:\workspace\styles`, windows: true},
		{name: "UNC share", input: `\\server\share\a.css`, windows: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.skip(t)
			assert.Equal(t, filepath.Clean(tt.input), filepath.Clean(URIToPath(PathToURI(tt.input))))
		})
	}
}
