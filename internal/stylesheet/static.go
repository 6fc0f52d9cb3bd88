package stylesheet

// StyleRule is a style rule holding its raw selector text
type StyleRule struct {
	Selector string
}

// Kind implements Rule
func (r StyleRule) Kind() RuleKind { return RuleStyle }

// SelectorText implements Rule
func (r StyleRule) SelectorText() string { return r.Selector }

// Import implements Rule
func (r StyleRule) Import() Sheet { return nil }

// ImportRule is an @import rule pointing at an already loaded sheet.
// Sheet may be nil when the import could not be fetched.
type ImportRule struct {
	Sheet Sheet
}

// Kind implements Rule
func (r ImportRule) Kind() RuleKind { return RuleImport }

// SelectorText implements Rule
func (r ImportRule) SelectorText() string { return "" }

// Import implements Rule
func (r ImportRule) Import() Sheet { return r.Sheet }

// OtherRule stands in for rules the scanner skips
type OtherRule struct{}

// Kind implements Rule
func (OtherRule) Kind() RuleKind { return RuleOther }

// SelectorText implements Rule
func (OtherRule) SelectorText() string { return "" }

// Import implements Rule
func (OtherRule) Import() Sheet { return nil }

// Static is an in-memory sheet. A Static with Inaccessible set reports
// ErrInaccessible from Rules, like a cross-origin sheet in a browser.
type Static struct {
	URL          string
	List         []Rule
	Inaccessible bool
}

// NewStatic builds an accessible in-memory sheet from rules
func NewStatic(href string, rules ...Rule) *Static {
	return &Static{URL: href, List: rules}
}

// Href implements Sheet
func (s *Static) Href() string { return s.URL }

// Rules implements Sheet
func (s *Static) Rules() ([]Rule, error) {
	if s.Inaccessible {
		return nil, ErrInaccessible
	}
	return s.List, nil
}

// Append adds rules to the sheet
func (s *Static) Append(rules ...Rule) {
	s.List = append(s.List, rules...)
}
