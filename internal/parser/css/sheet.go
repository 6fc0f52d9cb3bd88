package css

import "bennypowers.dev/rrls/internal/stylesheet"

// ImportResolver returns the sheet an @import refers to, or nil when it
// cannot be resolved
type ImportResolver func(url string) stylesheet.Sheet

// Sheet is a parsed stylesheet exposed through the stylesheet.Sheet
// interface
type Sheet struct {
	href    string
	result  *ParseResult
	imports ImportResolver
}

// NewSheet wraps a parse result. imports may be nil, in which case
// @import rules lead nowhere.
func NewSheet(href string, result *ParseResult, imports ImportResolver) *Sheet {
	return &Sheet{href: href, result: result, imports: imports}
}

// ParseSheet parses source with a pooled parser and wraps the result
func ParseSheet(href, source string, imports ImportResolver) (*Sheet, error) {
	p := AcquireParser()
	defer ReleaseParser(p)
	result, err := p.Parse(source)
	if err != nil {
		return nil, err
	}
	return NewSheet(href, result, imports), nil
}

// Href implements stylesheet.Sheet
func (s *Sheet) Href() string {
	return s.href
}

// Result returns the positioned parse result
func (s *Sheet) Result() *ParseResult {
	return s.result
}

// Rules implements stylesheet.Sheet. Imports are resolved on each call.
func (s *Sheet) Rules() ([]stylesheet.Rule, error) {
	if s.result == nil {
		return nil, nil
	}
	rules := make([]stylesheet.Rule, 0, len(s.result.Rules))
	for _, r := range s.result.Rules {
		switch r.Kind {
		case stylesheet.RuleStyle:
			rules = append(rules, stylesheet.StyleRule{Selector: r.Style.SelectorText})
		case stylesheet.RuleImport:
			var imported stylesheet.Sheet
			if s.imports != nil && r.Import.URL != "" {
				imported = s.imports(r.Import.URL)
			}
			rules = append(rules, stylesheet.ImportRule{Sheet: imported})
		default:
			rules = append(rules, stylesheet.OtherRule{})
		}
	}
	return rules, nil
}
