// Package parser dispatches documents to the CSS, HTML or JS parser by
// language ID
package parser

import (
	"path/filepath"
	"strings"

	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/parser/html"
	"bennypowers.dev/rrls/internal/parser/js"
	"bennypowers.dev/rrls/internal/stylesheet"
)

type parseFunc func(content string) ([]*css.ParseResult, error)

func parseCSS(content string) ([]*css.ParseResult, error) {
	p := css.AcquireParser()
	defer css.ReleaseParser(p)
	result, err := p.Parse(content)
	if err != nil {
		return nil, err
	}
	return []*css.ParseResult{result}, nil
}

func parseHTML(content string) ([]*css.ParseResult, error) {
	p := html.AcquireParser()
	defer html.ReleaseParser(p)
	return p.ParseStyles(content)
}

func parseScript(content string) ([]*css.ParseResult, error) {
	p := js.AcquireParser()
	defer js.ReleaseParser(p)
	return p.ParseCSS(content)
}

// languages maps LSP language IDs to the parser for their stylesheets
var languages = map[string]parseFunc{
	"css":             parseCSS,
	"html":            parseHTML,
	"javascript":      parseScript,
	"javascriptreact": parseScript,
	"typescript":      parseScript,
	"typescriptreact": parseScript,
}

var extensions = map[string]string{
	".css":  "css",
	".html": "html",
	".htm":  "html",
	".js":   "javascript",
	".mjs":  "javascript",
	".cjs":  "javascript",
	".jsx":  "javascriptreact",
	".ts":   "typescript",
	".mts":  "typescript",
	".tsx":  "typescriptreact",
}

// IsCSSSupportedLanguage reports whether documents of languageID can
// contain stylesheets
func IsCSSSupportedLanguage(languageID string) bool {
	_, ok := languages[languageID]
	return ok
}

// LanguageForPath returns the language ID for path's extension, or ""
func LanguageForPath(path string) string {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// ParseDocument returns one parse result per stylesheet in content: the
// whole of a CSS document, each <style> of an HTML page, each css tagged
// template of a script. Positions are in document coordinates.
// Unsupported languages have no stylesheets.
func ParseDocument(content, languageID string) ([]*css.ParseResult, error) {
	parse, ok := languages[languageID]
	if !ok {
		return nil, nil
	}
	return parse(content)
}

// SheetsFromDocument wraps each stylesheet in content for breakpoint
// discovery. href names the document; imports resolves @import rules and
// may be nil.
func SheetsFromDocument(content, languageID, href string, imports css.ImportResolver) ([]stylesheet.Sheet, error) {
	results, err := ParseDocument(content, languageID)
	if err != nil {
		return nil, err
	}
	sheets := make([]stylesheet.Sheet, 0, len(results))
	for _, r := range results {
		sheets = append(sheets, css.NewSheet(href, r, imports))
	}
	return sheets, nil
}
