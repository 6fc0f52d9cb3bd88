package js

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser/css"
	htmlparser "bennypowers.dev/rrls/internal/parser/html"
	"bennypowers.dev/rrls/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

// templatePatterns matches tag`...` and the generic form tag<T>`...`,
// which the grammar reads as two comparisons.
// See https://github.com/tree-sitter/tree-sitter-typescript/issues/341
const templatePatterns = `
(call_expression
	function: (identifier) @tag
	arguments: (template_string) @template)

(binary_expression
	left: (binary_expression
		left: (identifier) @tag)
	right: (template_string) @template)
`

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// Parser finds css and html tagged templates in scripts
type Parser struct {
	parser *sitter.Parser
	query  *sitter.Query
}

func newParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(jsLang); err != nil {
		panic(fmt.Sprintf("failed to set JS language: %v", err))
	}
	query, err := sitter.NewQuery(jsLang, templatePatterns)
	if err != nil {
		panic(fmt.Sprintf("failed to compile template query: %v", err))
	}
	return &Parser{parser: parser, query: query}
}

var pool = sync.Pool{New: func() any { return newParser() }}

// AcquireParser takes a parser from the pool
func AcquireParser() *Parser {
	p := pool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns p to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		pool.Put(p)
	}
}

// Close frees the parser's tree-sitter resources
func (p *Parser) Close() {
	p.parser.Close()
	p.query.Close()
}

// ClosePool frees pooled parsers at shutdown
func ClosePool() {
	for range 100 {
		if p, ok := pool.Get().(*Parser); ok {
			p.Close()
		}
	}
}

// ParseTemplates returns the css and html tagged templates in source, in
// source order. Other tags and templates with no literal text are skipped.
func (p *Parser) ParseTemplates(source string) []TemplateRegion {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil
	}
	defer tree.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	lines := position.NewLines(source)
	names := p.query.CaptureNames()

	var regions []TemplateRegion
	matches := cursor.Matches(p.query, tree.RootNode(), src)
	for match := matches.Next(); match != nil; match = matches.Next() {
		var tag string
		var template *sitter.Node
		for i := range match.Captures {
			c := &match.Captures[i]
			switch names[c.Index] {
			case "tag":
				tag = c.Node.Utf8Text(src)
			case "template":
				template = &c.Node
			}
		}
		if template == nil || (tag != "css" && tag != "html") {
			continue
		}
		if segments := literalSegments(template, src, lines); len(segments) > 0 {
			regions = append(regions, TemplateRegion{
				Tag:       tag,
				Segments:  segments,
				StartByte: template.StartByte(),
			})
		}
	}

	slices.SortStableFunc(regions, func(a, b TemplateRegion) int {
		return cmp.Compare(a.StartByte, b.StartByte)
	})
	return regions
}

// literalSegments returns a template's string fragments, leaving out
// ${...} substitutions
func literalSegments(template *sitter.Node, src []byte, lines position.Lines) []Segment {
	var segments []Segment
	for i := uint(0); i < template.ChildCount(); i++ {
		child := template.Child(i)
		if child.Kind() != "string_fragment" {
			continue
		}
		start := child.StartPosition()
		segments = append(segments, Segment{
			Content:   child.Utf8Text(src),
			StartLine: start.Row,
			StartCol:  uint(lines.Column(start.Row, start.Column)),
		})
	}
	return segments
}

// ParseCSS parses the stylesheets a script embeds. A css template is one
// sheet built from all of its segments; each <style> in an html template
// is a sheet of its own. Positions are in script coordinates.
func (p *Parser) ParseCSS(source string) ([]*css.ParseResult, error) {
	templates := p.ParseTemplates(source)
	if len(templates) == 0 {
		return nil, nil
	}

	cssParser := css.AcquireParser()
	defer css.ReleaseParser(cssParser)

	var results []*css.ParseResult
	for _, tmpl := range templates {
		if tmpl.Tag == "css" {
			results = append(results, cssTemplate(cssParser, tmpl.Segments))
		} else {
			results = append(results, htmlTemplate(cssParser, tmpl.Segments)...)
		}
	}
	return results, nil
}

func cssTemplate(cssParser *css.Parser, segments []Segment) *css.ParseResult {
	sheet := &css.ParseResult{Rules: []css.Rule{}}
	for _, seg := range segments {
		parsed, err := cssParser.Parse(seg.Content)
		if err != nil {
			log.Debug("Skipping css template segment at %d:%d: %v", seg.StartLine, seg.StartCol, err)
			continue
		}
		htmlparser.OffsetResult(parsed, seg.style())
		sheet.Rules = append(sheet.Rules, parsed.Rules...)
	}
	return sheet
}

func htmlTemplate(cssParser *css.Parser, segments []Segment) []*css.ParseResult {
	htmlParser := htmlparser.AcquireParser()
	defer htmlparser.ReleaseParser(htmlParser)

	var sheets []*css.ParseResult
	for _, seg := range segments {
		for _, style := range htmlParser.ParsePage(seg.Content).Inline() {
			parsed, err := cssParser.Parse(style.Content)
			if err != nil {
				log.Debug("Skipping <style> in html template at %d:%d: %v", seg.StartLine, seg.StartCol, err)
				continue
			}
			htmlparser.OffsetResult(parsed, style)
			htmlparser.OffsetResult(parsed, seg.style())
			sheets = append(sheets, parsed)
		}
	}
	return sheets
}
