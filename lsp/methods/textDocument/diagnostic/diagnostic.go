package diagnostic

import (
	"errors"
	"fmt"

	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/parser"
	"bennypowers.dev/rrls/internal/units"
	"bennypowers.dev/rrls/lsp/helpers"
	"bennypowers.dev/rrls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Source is reported on every diagnostic
const Source = "responsive-ranges"

// Diagnostic codes
const (
	CodeUnsupportedUnit = "unsupported-unit"
	CodeInvalidLength   = "invalid-length"
	CodeInvertedRange   = "inverted-range"
	CodeDuplicate       = "duplicate-breakpoint"
	CodeRejected        = "ignored-range-selector"
	CodeNested          = "nested-breakpoint"
)

// DocumentDiagnostic handles the textDocument/diagnostic request (pull diagnostics)
func DocumentDiagnostic(req *types.RequestContext, params *DocumentDiagnosticParams) (any, error) {
	uri := params.TextDocument.URI
	log.Debug("Pull diagnostics requested for: %s", uri)

	doc := req.Server.Document(uri)
	if doc == nil {
		return RelatedFullDocumentDiagnosticReport{
			Kind:  string(DiagnosticFull),
			Items: []protocol.Diagnostic{},
		}, nil
	}

	content, version := doc.Snapshot()
	metrics := req.Server.GetConfig().FontMetrics()
	resultID := resultIDFor(version, metrics)
	if params.PreviousResultID != "" && params.PreviousResultID == resultID {
		return RelatedUnchangedDocumentDiagnosticReport{
			Kind:     string(DiagnosticUnchanged),
			ResultID: resultID,
		}, nil
	}

	diagnostics := []protocol.Diagnostic{}
	if parser.IsCSSSupportedLanguage(doc.LanguageID()) {
		var err error
		diagnostics, err = diagnose(content, doc.LanguageID(), metrics)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", uri, err)
		}
	}

	return RelatedFullDocumentDiagnosticReport{
		Kind:     string(DiagnosticFull),
		ResultID: resultID,
		Items:    diagnostics,
	}, nil
}

// resultIDFor identifies a report by what it was computed from: the
// document version and the metrics relative units were converted with
func resultIDFor(version int, m units.FontMetrics) string {
	return fmt.Sprintf("%d/%g/%g/%g/%g", version, m.RootFontSize, m.FontSize, m.XHeight, m.ChWidth)
}

// GetDiagnostics returns diagnostics for a document
func GetDiagnostics(ctx types.ServerContext, uri string) ([]protocol.Diagnostic, error) {
	doc := ctx.Document(uri)
	if doc == nil || !parser.IsCSSSupportedLanguage(doc.LanguageID()) {
		return nil, nil
	}

	diagnostics, err := diagnose(doc.Content(), doc.LanguageID(), ctx.GetConfig().FontMetrics())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", uri, err)
	}
	return diagnostics, nil
}

// diagnose checks every range selector clause in content
func diagnose(content, languageID string, metrics units.FontMetrics) ([]protocol.Diagnostic, error) {
	clauses, err := helpers.Clauses(content, languageID)
	if err != nil {
		return nil, err
	}

	seen := make(map[breakpoints.Match]bool)

	diagnostics := []protocol.Diagnostic{}
	for _, clause := range clauses {
		r := helpers.ToProtocolRange(clause.Range)

		for _, rejection := range clause.Rejections {
			diagnostics = append(diagnostics, newDiagnostic(r, protocol.DiagnosticSeverityInformation, CodeRejected,
				fmt.Sprintf("%s attribute is ignored: %v", rejection.Dimension.Attribute(), rejection.Reason)))
		}

		for _, m := range clause.Matches {
			decl := m.Declaration

			if clause.Nested {
				diagnostics = append(diagnostics, newDiagnostic(r, protocol.DiagnosticSeverityInformation, CodeNested,
					fmt.Sprintf("%s is inside an at-rule block and is not discovered as a breakpoint", decl)))
				continue
			}

			if seen[m] {
				d := newDiagnostic(r, protocol.DiagnosticSeverityInformation, CodeDuplicate,
					fmt.Sprintf("%s %s is already declared", decl, m.Dimension))
				d.Tags = []protocol.DiagnosticTag{protocol.DiagnosticTagUnnecessary}
				diagnostics = append(diagnostics, d)
				continue
			}
			seen[m] = true

			diagnostics = append(diagnostics, checkRange(r, m, metrics)...)
		}
	}

	return diagnostics, nil
}

// checkRange reports bounds that can't be converted and closed ranges
// that can never match
func checkRange(r protocol.Range, m breakpoints.Match, metrics units.FontMetrics) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic

	convert := func(name, token string) (int, bool) {
		px, err := units.ToPixels(token, nil, metrics)
		if err == nil {
			return px, true
		}
		code := CodeInvalidLength
		if errors.Is(err, units.ErrUnsupportedUnit) {
			code = CodeUnsupportedUnit
		}
		diagnostics = append(diagnostics, newDiagnostic(r, protocol.DiagnosticSeverityWarning, code,
			fmt.Sprintf("%s bound %q of %s: %v; the breakpoint is never applied",
				name, token, m.Declaration, unwrapUnitError(err))))
		return 0, false
	}

	minPx, minOK := convert("min", m.Declaration.Min)
	if m.Declaration.Open() {
		return diagnostics
	}
	maxPx, maxOK := convert("max", m.Declaration.Max)

	if minOK && maxOK && minPx > maxPx {
		diagnostics = append(diagnostics, newDiagnostic(r, protocol.DiagnosticSeverityWarning, CodeInvertedRange,
			fmt.Sprintf("%s never matches: min (%dpx) is greater than max (%dpx)", m.Declaration, minPx, maxPx)))
	}
	return diagnostics
}

func unwrapUnitError(err error) error {
	var unitErr *units.UnitError
	if errors.As(err, &unitErr) {
		return unitErr.Err
	}
	return err
}

func newDiagnostic(r protocol.Range, severity protocol.DiagnosticSeverity, code, message string) protocol.Diagnostic {
	source := Source
	return protocol.Diagnostic{
		Range:    r,
		Severity: &severity,
		Code:     &protocol.IntegerOrString{Value: code},
		Source:   &source,
		Message:  message,
	}
}
