package hover

import (
	"bytes"
	"errors"
	"text/template"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser"
	"bennypowers.dev/rrls/internal/units"
	"bennypowers.dev/rrls/lsp/helpers"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// bound is one end of a range as shown in a hover
type bound struct {
	Token  string
	Pixels int
	Err    error
}

// breakpointInfo is the data rendered for one breakpoint
type breakpointInfo struct {
	Fragment  string
	Dimension string
	Attribute string
	Token     string
	Min       bound
	Max       *bound
}

// hoverData is the data rendered for a hovered clause
type hoverData struct {
	Selector    string
	Breakpoints []breakpointInfo
	Rejections  []breakpoints.Rejection
	Nested      bool
}

var breakpointHoverTemplate = template.Must(template.New("breakpointHover").Parse(
	`{{define "bound"}}` + "`{{.Token}}`" + `{{if .Err}} ({{.Err}}){{else}} ({{.Pixels}}px){{end}}{{end}}` +
		`{{range .Breakpoints}}### ` + "`{{.Fragment}}`" + ` {{.Dimension}} breakpoint

**Attribute**: ` + "`{{.Attribute}}~=\"{{.Token}}\"`" + `

{{if .Max}}**Applies** from {{template "bound" .Min}} to {{template "bound" .Max}}{{else}}**Applies** from {{template "bound" .Min}} up{{end}}

{{end}}{{range .Rejections}}⚠️ Ignored ` + "`{{.Dimension}}-range`" + ` attribute: {{.Reason}}

{{end}}{{if .Nested}}*Rules inside an at-rule block are not discovered as breakpoints.*
{{end}}`))

// renderBreakpointHover renders the hover content for a clause
func renderBreakpointHover(data hoverData) (string, error) {
	var buf bytes.Buffer
	if err := breakpointHoverTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// resolveBound converts a range bound with the configured font metrics
func resolveBound(token string, metrics units.FontMetrics) bound {
	px, err := units.ToPixels(token, nil, metrics)
	var unitErr *units.UnitError
	if errors.As(err, &unitErr) {
		err = unitErr.Err
	}
	return bound{Token: token, Pixels: px, Err: err}
}

// newHoverData collects what a clause declares
func newHoverData(clause *helpers.Clause, metrics units.FontMetrics) hoverData {
	data := hoverData{
		Selector:   clause.Text,
		Rejections: clause.Rejections,
		Nested:     clause.Nested,
	}
	for _, m := range clause.Matches {
		decl := m.Declaration
		info := breakpointInfo{
			Fragment:  decl.Fragment,
			Dimension: m.Dimension.String(),
			Attribute: m.Dimension.Attribute(),
			Token:     decl.Token(),
			Min:       resolveBound(decl.Min, metrics),
		}
		if !decl.Open() {
			upper := resolveBound(decl.Max, metrics)
			info.Max = &upper
		}
		data.Breakpoints = append(data.Breakpoints, info)
	}
	return data
}

// Hover handles the textDocument/hover request
func Hover(req *types.RequestContext, params *protocol.HoverParams) (*protocol.Hover, error) {
	uri := params.TextDocument.URI
	position := params.Position

	log.Debug("Hover requested: %s at line %d, char %d", uri, position.Line, position.Character)

	doc := req.Server.Document(uri)
	if doc == nil {
		return nil, nil
	}
	if !parser.IsCSSSupportedLanguage(doc.LanguageID()) {
		return nil, nil
	}

	clauses, err := helpers.Clauses(doc.Content(), doc.LanguageID())
	if err != nil {
		return nil, err
	}
	clause := helpers.ClauseAt(clauses, helpers.FromProtocolPosition(position))
	if clause == nil {
		return nil, nil
	}

	content, err := renderBreakpointHover(newHoverData(clause, req.Server.GetConfig().FontMetrics()))
	if err != nil {
		return nil, err
	}

	hoverRange := helpers.ToProtocolRange(clause.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: content,
		},
		Range: &hoverRange,
	}, nil
}
