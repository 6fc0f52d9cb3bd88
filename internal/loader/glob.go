package loader

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never searched for stylesheets
var skipDirs = []string{"node_modules", "dist", "build"}

// shouldSkipDirectory checks if a directory should be skipped during file discovery.
// Returns true for hidden directories (starting with .) and common build/dependency directories.
func shouldSkipDirectory(info os.FileInfo) bool {
	if !info.IsDir() {
		return false
	}
	if strings.HasPrefix(info.Name(), ".") && info.Name() != "." {
		return true
	}
	return slices.Contains(skipDirs, info.Name())
}

// matchesAnyPattern checks if a file path matches any of the given glob patterns.
func matchesAnyPattern(relPath string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := matchGlobPattern(pattern, relPath)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// matchGlobPattern matches a glob pattern against a path using doublestar
// Supports full glob syntax including ** for recursive directory matching
func matchGlobPattern(pattern, path string) (bool, error) {
	// doublestar.Match expects forward slashes, but Windows paths use backslashes
	return doublestar.Match(filepath.ToSlash(pattern), filepath.ToSlash(path))
}

// Glob returns the files under Root matching any pattern, as absolute
// paths in lexical order. Hidden and dependency directories are skipped.
// Invalid patterns are reported in the error; the valid ones still match.
func (l *Loader) Glob(patterns []string) ([]string, error) {
	var errs []error
	valid := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			errs = append(errs, &LoadError{Path: pattern, Err: doublestar.ErrBadPattern})
			continue
		}
		valid = append(valid, pattern)
	}
	if len(valid) == 0 {
		return nil, errors.Join(errs...)
	}
	patterns = valid

	var files []string
	err := filepath.Walk(l.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}
		if path != l.Root && shouldSkipDirectory(info) {
			return filepath.SkipDir
		}
		if info.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(l.Root, path)
		if err != nil {
			return nil
		}
		if matchesAnyPattern(relPath, patterns) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, errors.Join(errs...)
}
