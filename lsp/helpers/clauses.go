package helpers

import (
	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/parser"
	"bennypowers.dev/rrls/internal/parser/css"
)

// Clause is a selector of a document that mentions width-range or
// height-range, with what the breakpoint grammar made of it
type Clause struct {
	Text  string
	Range css.Range
	// Matches are the breakpoints the clause declares
	Matches []breakpoints.Match
	// Rejections are range attributes that don't follow the grammar
	Rejections []breakpoints.Rejection
	// Nested is set for rules inside an at-rule block, which breakpoint
	// discovery does not scan
	Nested bool
}

// Clauses parses a document of any supported language and returns its
// range selector clauses in source order
func Clauses(content, languageID string) ([]Clause, error) {
	results, err := parser.ParseDocument(content, languageID)
	if err != nil {
		return nil, err
	}

	var clauses []Clause
	for _, result := range results {
		for _, rule := range result.Rules {
			if rule.Style != nil {
				clauses = appendClauses(clauses, rule.Style, false)
			}
			for _, nested := range rule.Nested {
				clauses = appendClauses(clauses, nested, true)
			}
		}
	}
	return clauses, nil
}

func appendClauses(clauses []Clause, rule *css.StyleRule, nested bool) []Clause {
	for _, sel := range rule.Selectors {
		matches, rejections := breakpoints.Inspect(sel.Text)
		if len(matches) == 0 && len(rejections) == 0 {
			continue
		}
		clauses = append(clauses, Clause{
			Text:       sel.Text,
			Range:      sel.Range,
			Matches:    matches,
			Rejections: rejections,
			Nested:     nested,
		})
	}
	return clauses
}

// ClauseAt returns the clause containing pos, or nil
func ClauseAt(clauses []Clause, pos css.Position) *Clause {
	for i := range clauses {
		if clauses[i].Range.Contains(pos) {
			return &clauses[i]
		}
	}
	return nil
}
