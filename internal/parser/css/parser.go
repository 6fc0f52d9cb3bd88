package css

import (
	"fmt"
	"strings"
	"sync"

	"bennypowers.dev/rrls/internal/position"
	"bennypowers.dev/rrls/internal/stylesheet"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

// Parser handles parsing CSS with tree-sitter
type Parser struct {
	parser *sitter.Parser
}

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers
var parserPool = sync.Pool{
	New: func() any {
		return NewParser()
	},
}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	parser := sitter.NewParser()
	if err := parser.SetLanguage(cssLang); err != nil {
		panic(fmt.Sprintf("failed to set CSS language: %v", err))
	}
	return &Parser{parser: parser}
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

// Parse parses CSS and returns its top-level rules in source order.
// Positions are zero-based lines and UTF-16 characters.
func (p *Parser) Parse(source string) (*ParseResult, error) {
	src := []byte(source)
	tree := p.parser.Parse(src, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse CSS")
	}
	defer tree.Close()

	w := &walker{source: src, lines: position.NewLines(source)}
	root := tree.RootNode()
	result := &ParseResult{Rules: []Rule{}}

	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		if rule, ok := w.rule(child); ok {
			result.Rules = append(result.Rules, rule)
		}
	}

	return result, nil
}

type walker struct {
	source []byte
	lines  position.Lines
}

func (w *walker) text(node *sitter.Node) string {
	return string(w.source[node.StartByte():node.EndByte()])
}

// pos converts a tree-sitter byte column to a UTF-16 character offset
func (w *walker) pos(p sitter.Point) Position {
	return Position{
		Line:      uint32(p.Row), //nolint:gosec // G115: rows are bounded by file size
		Character: w.lines.Column(p.Row, p.Column),
	}
}

func (w *walker) rangeOf(node *sitter.Node) Range {
	return Range{
		Start: w.pos(node.StartPosition()),
		End:   w.pos(node.EndPosition()),
	}
}

func (w *walker) rule(node *sitter.Node) (Rule, bool) {
	switch node.Kind() {
	case "comment", "ERROR":
		return Rule{}, false
	case "rule_set":
		style := w.styleRule(node)
		if style == nil {
			return Rule{}, false
		}
		return Rule{Kind: stylesheet.RuleStyle, Style: style, Range: style.Range}, true
	case "import_statement":
		imp := w.importStatement(node)
		return Rule{Kind: stylesheet.RuleImport, Import: imp, Range: imp.Range}, true
	default:
		rule := Rule{Kind: stylesheet.RuleOther, Range: w.rangeOf(node)}
		w.collectNested(node, &rule.Nested)
		return rule, true
	}
}

func (w *walker) styleRule(node *sitter.Node) *StyleRule {
	var selectors *sitter.Node
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if child := node.NamedChild(i); child.Kind() == "selectors" {
			selectors = child
			break
		}
	}
	if selectors == nil {
		return nil
	}

	rule := &StyleRule{
		SelectorText: w.text(selectors),
		Range:        w.rangeOf(node),
	}
	for i := uint(0); i < selectors.NamedChildCount(); i++ {
		child := selectors.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		rule.Selectors = append(rule.Selectors, Selector{
			Text:  w.text(child),
			Range: w.rangeOf(child),
		})
	}
	return rule
}

func (w *walker) importStatement(node *sitter.Node) *Import {
	imp := &Import{Range: w.rangeOf(node)}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "string_value", "call_expression", "plain_value":
			imp.URL = ImportURL(w.text(child))
			return imp
		}
	}
	return imp
}

// collectNested gathers the rule sets inside an at-rule block
func (w *walker) collectNested(node *sitter.Node, out *[]*StyleRule) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == "rule_set" {
			if style := w.styleRule(child); style != nil {
				*out = append(*out, style)
			}
			continue
		}
		w.collectNested(child, out)
	}
}

// ImportURL extracts the location from an @import value: "x", 'x', url(x)
// or url("x")
func ImportURL(value string) string {
	v := strings.TrimSpace(value)
	if len(v) > 4 && strings.EqualFold(v[:4], "url(") && strings.HasSuffix(v, ")") {
		v = strings.TrimSpace(v[4 : len(v)-1])
	}
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		v = v[1 : len(v)-1]
	}
	return v
}
