// Package uriutil converts between file:// URIs sent by editors and the
// file system paths stylesheets are loaded from.
package uriutil

import (
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
)

const fileScheme = "file://"

// PathToURI converts a file system path to a file:// URI. The path is made
// absolute and each segment is percent-encoded, so a workspace at
// "C:\Foo Bar" becomes "file:///C:/Foo%20Bar". Windows UNC paths
// (\\server\share) keep the server as the URI host.
func PathToURI(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if runtime.GOOS == "windows" && strings.HasPrefix(abs, `\\`) {
		return fileScheme + encodeSegments(filepath.ToSlash(abs[2:]))
	}

	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return fileScheme + encodeSegments(abs)
}

// URIToPath converts a file:// URI to a file system path, decoding percent
// escapes and dropping the slash before a drive letter. URIs that don't
// parse as file URIs have their scheme stripped and are used as is.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return filepath.FromSlash(trimDriveSlash(trimScheme(uri)))
	}

	if parsed.Host != "" {
		if runtime.GOOS != "windows" {
			return parsed.Host + parsed.Path
		}
		host, _ := url.PathUnescape(parsed.Host)
		path, _ := url.PathUnescape(parsed.Path)
		return `\\` + host + strings.ReplaceAll(path, "/", `\`)
	}

	path, err := url.PathUnescape(parsed.Path)
	if err != nil {
		path = parsed.Path
	}
	return filepath.FromSlash(trimDriveSlash(path))
}

func encodeSegments(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg != "" {
			segments[i] = url.PathEscape(seg)
		}
	}
	return strings.Join(segments, "/")
}

// trimDriveSlash turns "/C:/proj" into "C:/proj"
func trimDriveSlash(path string) string {
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		return path[1:]
	}
	return path
}

func trimScheme(uri string) string {
	return strings.TrimPrefix(uri, fileScheme)
}
