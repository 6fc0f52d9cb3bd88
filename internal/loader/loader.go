// Package loader reads a page's stylesheets from disk so breakpoints can be
// discovered outside a browser.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser"
	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/parser/html"
	"bennypowers.dev/rrls/internal/stylesheet"
	"golang.org/x/sync/errgroup"
)

// Loader turns files under Root into stylesheets. Every path is loaded at
// most once; later requests for the same path return the same sheet, which
// is what lets the catalog stop at @import cycles.
type Loader struct {
	// Root is the directory globs and root-relative imports resolve against
	Root string
	// ReadFile reads a file; it defaults to os.ReadFile
	ReadFile func(name string) ([]byte, error)

	mu      sync.Mutex
	visited map[string]stylesheet.Sheet
}

// New creates a loader rooted at root
func New(root string) *Loader {
	return &Loader{Root: root, ReadFile: os.ReadFile}
}

func (l *Loader) read(path string) ([]byte, error) {
	if l.ReadFile != nil {
		return l.ReadFile(path)
	}
	return os.ReadFile(path)
}

// abs resolves path against Root
func (l *Loader) abs(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(l.Root, path)
}

// IsRemote reports whether a stylesheet location is outside the file system
func IsRemote(href string) bool {
	lower := strings.ToLower(href)
	for _, prefix := range []string{"http:", "https:", "//", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// resolve maps an import or link location to a file path. Locations
// starting with "/" are relative to Root, others to the referring file.
func (l *Loader) resolve(from, href string) string {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if strings.HasPrefix(href, "/") {
		return filepath.Join(l.Root, filepath.FromSlash(href))
	}
	return filepath.Join(filepath.Dir(from), filepath.FromSlash(href))
}

// importsFrom returns the resolver for @import rules of a sheet at path
func (l *Loader) importsFrom(path string) css.ImportResolver {
	return func(url string) stylesheet.Sheet {
		return l.linked(path, url)
	}
}

// linked returns the sheet an import or link refers to. Remote and
// unreadable sheets are inaccessible rather than missing, like a
// cross-origin sheet in a browser.
func (l *Loader) linked(from, href string) stylesheet.Sheet {
	if IsRemote(href) {
		log.Debug("Remote stylesheet %s is not loaded", href)
		return &stylesheet.Static{URL: href, Inaccessible: true}
	}
	path := l.resolve(from, href)
	sheet, err := l.sheetAt(path)
	if err != nil {
		log.Debug("Stylesheet %s (from %s) is inaccessible: %v", href, from, err)
		return l.remember(path, &stylesheet.Static{URL: path, Inaccessible: true})
	}
	return sheet
}

// remember records sheet for path unless another goroutine got there first
func (l *Loader) remember(path string, sheet stylesheet.Sheet) stylesheet.Sheet {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.visited == nil {
		l.visited = make(map[string]stylesheet.Sheet)
	}
	if existing, ok := l.visited[path]; ok {
		return existing
	}
	l.visited[path] = sheet
	return sheet
}

func (l *Loader) lookup(path string) (stylesheet.Sheet, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	sheet, ok := l.visited[path]
	return sheet, ok
}

// sheetAt loads the CSS file at path
func (l *Loader) sheetAt(path string) (stylesheet.Sheet, error) {
	if sheet, ok := l.lookup(path); ok {
		return sheet, nil
	}
	content, err := l.read(path)
	if err != nil {
		return nil, err
	}
	sheet, err := css.ParseSheet(path, string(content), l.importsFrom(path))
	if err != nil {
		return nil, err
	}
	return l.remember(path, sheet), nil
}

// entry loads one entry file: a CSS file is one sheet, a JS/TS module has
// one sheet per css template
func (l *Loader) entry(path string) ([]stylesheet.Sheet, error) {
	lang := parser.LanguageForPath(path)
	if lang == "css" || lang == "" {
		sheet, err := l.sheetAt(path)
		if err != nil {
			return nil, entryError(path, err)
		}
		return []stylesheet.Sheet{sheet}, nil
	}

	content, err := l.read(path)
	if err != nil {
		return nil, entryError(path, err)
	}
	sheets, err := parser.SheetsFromDocument(string(content), lang, path, l.importsFrom(path))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return sheets, nil
}

func entryError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		err = errors.Join(ErrEntryNotFound, err)
	}
	return &LoadError{Path: path, Err: err}
}

// LoadFiles loads entry files concurrently and returns their sheets in the
// order of paths. Imports are resolved lazily when the sheets' rules are
// read. Entries that fail are reported in the joined error; the others
// still load.
func (l *Loader) LoadFiles(ctx context.Context, paths []string) ([]stylesheet.Sheet, error) {
	results := make([][]stylesheet.Sheet, len(paths))
	errs := make([]error, len(paths))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = l.entry(l.abs(p))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var sheets []stylesheet.Sheet
	for _, r := range results {
		sheets = append(sheets, r...)
	}
	log.Debug("Loaded %d stylesheets from %d files", len(sheets), len(paths))
	return sheets, errors.Join(errs...)
}

// LoadPage loads an HTML page's stylesheets in document order: inline
// <style> blocks and linked sheets. Linked sheets that are remote or
// missing are inaccessible.
func (l *Loader) LoadPage(ctx context.Context, path string) ([]stylesheet.Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = l.abs(path)
	content, err := l.read(path)
	if err != nil {
		return nil, entryError(path, err)
	}

	p := html.AcquireParser()
	page := p.ParsePage(string(content))
	html.ReleaseParser(p)

	var sheets []stylesheet.Sheet
	for _, style := range page.Styles {
		switch style.Kind {
		case html.InlineStyle:
			sheet, err := css.ParseSheet(path, style.Content, l.importsFrom(path))
			if err != nil {
				log.Debug("Skipping <style> at %s:%d: %v", path, style.StartLine, err)
				continue
			}
			sheets = append(sheets, sheet)
		case html.LinkedStyle:
			sheets = append(sheets, l.linked(path, style.Href))
		}
	}
	log.Debug("Loaded %d stylesheets from page %s", len(sheets), path)
	return sheets, nil
}

// Load loads the page (if any) followed by every file matching patterns
// that the page did not already bring in. A page or entry that fails to
// load is reported in the joined error without dropping the rest.
func (l *Loader) Load(ctx context.Context, page string, patterns []string) ([]stylesheet.Sheet, error) {
	var sheets []stylesheet.Sheet
	var pageErr error
	if page != "" {
		sheets, pageErr = l.LoadPage(ctx, page)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	files, globErr := l.Glob(patterns)
	var fresh []string
	for _, f := range files {
		if _, seen := l.lookup(f); !seen {
			fresh = append(fresh, f)
		}
	}
	fileSheets, err := l.LoadFiles(ctx, fresh)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return append(sheets, fileSheets...), errors.Join(pageErr, globErr, err)
}
