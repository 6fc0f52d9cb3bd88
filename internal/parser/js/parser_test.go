package js_test

import (
	"os"
	"testing"

	"bennypowers.dev/rrls/internal/parser/css"
	"bennypowers.dev/rrls/internal/parser/js"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) []js.TemplateRegion {
	t.Helper()
	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)
	return parser.ParseTemplates(source)
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(data)
}

func tags(regions []js.TemplateRegion) []string {
	out := []string{}
	for _, r := range regions {
		out = append(out, r.Tag)
	}
	return out
}

func TestParseTemplates(t *testing.T) {
	tests := []struct {
		fixture string
		want    []string
	}{
		{"css-template.js", []string{"css"}},
		{"html-template.js", []string{"html"}},
		{"template-with-expressions.js", []string{"css"}},
		{"no-templates.js", []string{}},
		{"typescript-class.js", []string{"css", "html"}},
		{"generic-template.ts", []string{"css"}},
	}
	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			assert.Equal(t, tt.want, tags(parse(t, readFixture(t, tt.fixture))))
		})
	}
}

func TestParseTemplates_Skipped(t *testing.T) {
	source := "const a = sql`select 1`;\n" +
		"const b = styled.div`.x{}`;\n" +
		"const c = css`${shared}`;\n"
	assert.Empty(t, parse(t, source), "other tags and templates without literal text")
}

func TestParseTemplates_SourceOrder(t *testing.T) {
	templates := parse(t, "const a = css<T>`.a{}`;\nconst b = css`.b{}`;\n")
	require.Len(t, templates, 2)
	assert.Equal(t, ".a{}", templates[0].Segments[0].Content, "generic form first, as written")
	assert.Equal(t, ".b{}", templates[1].Segments[0].Content)
}

func TestParseTemplates_Segments(t *testing.T) {
	templates := parse(t, readFixture(t, "template-with-expressions.js"))
	require.Len(t, templates, 1)
	assert.Len(t, templates[0].Segments, 2, "split at the ${breakpoint} substitution")

	// columns count UTF-16 units: 断 and 点 are one each
	templates = parse(t, "/* 断点 */ css`.a{}`")
	require.Len(t, templates, 1)
	seg := templates[0].Segments[0]
	assert.Equal(t, uint(0), seg.StartLine)
	assert.Equal(t, uint(13), seg.StartCol)
}

func selectorTexts(results []*css.ParseResult) []string {
	var out []string
	for _, r := range results {
		for _, rule := range r.StyleRules() {
			out = append(out, rule.SelectorText)
		}
	}
	return out
}

func TestParseCSS(t *testing.T) {
	tests := []struct {
		name      string
		fixture   string
		wantSheet int
		want      []string
	}{
		{
			name:      "css template",
			fixture:   "testdata/css-template.js",
			wantSheet: 1,
			want:      []string{":host", `.grid[width-range~="0px-300px"]`, `.grid[width-range~="301px-"]`},
		},
		{
			name:      "html template",
			fixture:   "testdata/html-template.js",
			wantSheet: 1,
			want:      []string{`.card[height-range~="0-10em"]`},
		},
		{
			name:      "template with expressions is one sheet",
			fixture:   "testdata/template-with-expressions.js",
			wantSheet: 1,
			want:      []string{`.panel[width-range~="0px-300px"]`, `.panel[width-range~="301px-"]`},
		},
		{
			name:      "class with styles and render",
			fixture:   "testdata/typescript-class.js",
			wantSheet: 2,
			want:      []string{`#main[width-range~="0-40em"]`, `.inner[width-range~="0-1in"]`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source, err := os.ReadFile(tt.fixture)
			require.NoError(t, err)

			parser := js.AcquireParser()
			defer js.ReleaseParser(parser)

			results, err := parser.ParseCSS(string(source))
			require.NoError(t, err)
			assert.Len(t, results, tt.wantSheet)
			assert.Equal(t, tt.want, selectorTexts(results))
		})
	}
}

func TestParseCSSNoTemplates(t *testing.T) {
	source, err := os.ReadFile("testdata/no-templates.js")
	require.NoError(t, err)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	results, err := parser.ParseCSS(string(source))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestCSSTemplatePositionMapping(t *testing.T) {
	source, err := os.ReadFile("testdata/css-template.js")
	require.NoError(t, err)

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	results, err := parser.ParseCSS(string(source))
	require.NoError(t, err)
	require.Len(t, results, 1)

	rules := results[0].StyleRules()
	require.Len(t, rules, 3)

	// `  .grid[width-range~="0px-300px"] {` is line 6 (0-indexed)
	sel := rules[1].Selectors[0]
	assert.Equal(t, uint32(6), sel.Range.Start.Line, "selector line")
	assert.Equal(t, uint32(2), sel.Range.Start.Character, "selector character")
}

func TestHTMLTemplatePositionMapping(t *testing.T) {
	source := "x = html`<style>.a[width-range~=\"0-1px\"]{}</style>`;"

	parser := js.AcquireParser()
	defer js.ReleaseParser(parser)

	results, err := parser.ParseCSS(source)
	require.NoError(t, err)
	require.Len(t, results, 1)

	rules := results[0].StyleRules()
	require.Len(t, rules, 1)
	// html` is 9 characters, <style> another 7
	assert.Equal(t, css.Position{Line: 0, Character: 16}, rules[0].Selectors[0].Range.Start)
}
