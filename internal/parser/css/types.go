package css

import "bennypowers.dev/rrls/internal/stylesheet"

// Position represents a position in a text document
type Position struct {
	Line      uint32
	Character uint32
}

// Range represents a range in a text document
type Range struct {
	Start Position
	End   Position
}

// Contains reports whether pos falls within the range (end exclusive)
func (r Range) Contains(pos Position) bool {
	if pos.Line < r.Start.Line || pos.Line > r.End.Line {
		return false
	}
	if pos.Line == r.Start.Line && pos.Character < r.Start.Character {
		return false
	}
	if pos.Line == r.End.Line && pos.Character >= r.End.Character {
		return false
	}
	return true
}

// Selector is one comma separated clause of a selector list
type Selector struct {
	Text  string
	Range Range
}

// StyleRule is a rule set: a selector list followed by a declaration block
type StyleRule struct {
	SelectorText string
	Selectors    []Selector
	Range        Range
}

// Import is an @import statement
type Import struct {
	// URL is the imported location with url() and quotes removed
	URL   string
	Range Range
}

// Rule is one top-level rule of a stylesheet
type Rule struct {
	Kind   stylesheet.RuleKind
	Style  *StyleRule
	Import *Import
	// Nested holds rule sets inside an at-rule block (@media, @supports).
	// They are not top-level rules and do not take part in breakpoint
	// discovery.
	Nested []*StyleRule
	Range  Range
}

// ParseResult contains the top-level rules of a stylesheet in source order
type ParseResult struct {
	Rules []Rule
}

// StyleRules returns the top-level rule sets
func (r *ParseResult) StyleRules() []*StyleRule {
	var out []*StyleRule
	for _, rule := range r.Rules {
		if rule.Style != nil {
			out = append(out, rule.Style)
		}
	}
	return out
}

// Imports returns the @import statements
func (r *ParseResult) Imports() []*Import {
	var out []*Import
	for _, rule := range r.Rules {
		if rule.Import != nil {
			out = append(out, rule.Import)
		}
	}
	return out
}
