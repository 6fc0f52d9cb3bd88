package html

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/position"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// Parser handles parsing HTML to find the page's stylesheets
type Parser struct {
	parser *sitter.Parser
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// parserPool is a pool of reusable HTML parsers
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return &Parser{parser: parser}
	},
}

// AcquireParser gets a parser from the pool
func AcquireParser() *Parser {
	p := parserPool.Get().(*Parser)
	p.parser.Reset()
	return p
}

// ReleaseParser returns a parser to the pool
func ReleaseParser(p *Parser) {
	if p != nil {
		parserPool.Put(p)
	}
}

// Close closes the parser and releases its resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ClosePool closes all parsers in the pool
func ClosePool() {
	for range 100 {
		if p, ok := parserPool.Get().(*Parser); ok && p != nil {
			p.Close()
		}
	}
}

// ParsePage finds the <style> blocks and <link rel="stylesheet"> elements
// of an HTML document in document order. Alternate stylesheets and links
// without an href are skipped.
func (p *Parser) ParsePage(source string) *Page {
	page := &Page{}
	sourceBytes := []byte(source)
	tree := p.parser.Parse(sourceBytes, nil)
	if tree == nil {
		return page
	}
	defer tree.Close()

	w := &pageWalker{source: sourceBytes, lines: position.NewLines(source), page: page}
	w.walk(tree.RootNode())
	return page
}

type pageWalker struct {
	source []byte
	lines  position.Lines
	page   *Page
}

func (w *pageWalker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}

func (w *pageWalker) start(node *sitter.Node) (uint, uint) {
	p := node.StartPosition()
	return p.Row, uint(w.lines.Column(p.Row, p.Column))
}

func (w *pageWalker) walk(node *sitter.Node) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "style_element":
		w.style(node)
		return
	case "start_tag", "self_closing_tag":
		w.link(node)
		return
	case "script_element":
		return
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		w.walk(node.NamedChild(i))
	}
}

func (w *pageWalker) style(node *sitter.Node) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "raw_text" {
			continue
		}
		line, col := w.start(child)
		w.page.Styles = append(w.page.Styles, PageStyle{
			Kind:      InlineStyle,
			Content:   w.text(child),
			StartLine: line,
			StartCol:  col,
		})
	}
}

func (w *pageWalker) link(tag *sitter.Node) {
	var name string
	attrs := map[string]string{}
	for i := uint(0); i < tag.NamedChildCount(); i++ {
		child := tag.NamedChild(i)
		switch child.Kind() {
		case "tag_name":
			name = strings.ToLower(w.text(child))
		case "attribute":
			k, v := w.attribute(child)
			if _, seen := attrs[k]; !seen {
				attrs[k] = v
			}
		}
	}
	if name != "link" {
		return
	}

	rel := strings.Fields(strings.ToLower(attrs["rel"]))
	href := strings.TrimSpace(attrs["href"])
	if !slices.Contains(rel, "stylesheet") || slices.Contains(rel, "alternate") || href == "" {
		return
	}
	line, col := w.start(tag)
	w.page.Styles = append(w.page.Styles, PageStyle{
		Kind:      LinkedStyle,
		Href:      href,
		StartLine: line,
		StartCol:  col,
	})
}

func (w *pageWalker) attribute(node *sitter.Node) (string, string) {
	var name, value string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "attribute_name":
			name = strings.ToLower(w.text(child))
		case "attribute_value":
			value = w.text(child)
		case "quoted_attribute_value":
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if v := child.NamedChild(j); v.Kind() == "attribute_value" {
					value = w.text(v)
				}
			}
		}
	}
	return name, value
}

// OffsetRange adjusts a range parsed from an inline style's content to
// account for the style's position in the HTML document
func OffsetRange(r css.Range, style PageStyle) css.Range {
	r.Start = offsetPosition(r.Start, style)
	r.End = offsetPosition(r.End, style)
	return r
}

// offsetPosition adjusts a CSS position to account for the style's position in the HTML document.
// For the first line of CSS content, both line and column are offset.
// For subsequent lines, only the line is offset (columns are absolute within the CSS content).
func offsetPosition(pos css.Position, style PageStyle) css.Position {
	if pos.Line == 0 {
		pos.Character += uint32(style.StartCol) //nolint:gosec // G115: positions from tree-sitter are bounded by file size
	}
	pos.Line += uint32(style.StartLine) //nolint:gosec // G115: positions from tree-sitter are bounded by file size
	return pos
}

// ParseStyles parses each inline style as CSS and maps its positions back
// into the HTML document
func (p *Parser) ParseStyles(source string) ([]*css.ParseResult, error) {
	page := p.ParsePage(source)
	cssParser := css.AcquireParser()
	defer css.ReleaseParser(cssParser)

	var results []*css.ParseResult
	for _, style := range page.Inline() {
		parsed, err := cssParser.Parse(style.Content)
		if err != nil {
			return nil, fmt.Errorf("parsing <style> at %d:%d: %w", style.StartLine, style.StartCol, err)
		}
		OffsetResult(parsed, style)
		results = append(results, parsed)
	}
	return results, nil
}

// OffsetResult moves every range of a parse result by the style's position
func OffsetResult(parsed *css.ParseResult, style PageStyle) {
	shift := func(r css.Range) css.Range { return OffsetRange(r, style) }
	for i := range parsed.Rules {
		rule := &parsed.Rules[i]
		rule.Range = shift(rule.Range)
		if rule.Style != nil {
			shiftStyle(rule.Style, shift)
		}
		if rule.Import != nil {
			rule.Import.Range = shift(rule.Import.Range)
		}
		for _, nested := range rule.Nested {
			shiftStyle(nested, shift)
		}
	}
}

func shiftStyle(s *css.StyleRule, shift func(css.Range) css.Range) {
	s.Range = shift(s.Range)
	for i := range s.Selectors {
		s.Selectors[i].Range = shift(s.Selectors[i].Range)
	}
}
