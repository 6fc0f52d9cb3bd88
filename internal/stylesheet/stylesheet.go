// Package stylesheet models the read-only view of a page's loaded
// stylesheets: an ordered list of sheets, each an ordered list of rules.
//
// Browser hosts adapt their CSSOM to these interfaces; the loader and the
// CSS parser provide implementations backed by files on disk.
package stylesheet

import "errors"

// ErrInaccessible is returned by Sheet.Rules when the sheet's rule list
// cannot be read (cross-origin, missing file, remote URL).
var ErrInaccessible = errors.New("stylesheet rules are not accessible")

// RuleKind discriminates the rules the breakpoint scanner cares about
type RuleKind int

const (
	// RuleOther is any rule the scanner ignores (@media, @font-face, ...)
	RuleOther RuleKind = iota
	// RuleStyle is a plain style rule with a selector list
	RuleStyle
	// RuleImport is an @import rule referencing another sheet
	RuleImport
)

func (k RuleKind) String() string {
	switch k {
	case RuleStyle:
		return "style"
	case RuleImport:
		return "import"
	default:
		return "other"
	}
}

// Rule is a single top-level rule of a sheet
type Rule interface {
	Kind() RuleKind
	// SelectorText is the raw selector list of a style rule, "" otherwise
	SelectorText() string
	// Import is the referenced sheet of an import rule, nil otherwise
	Import() Sheet
}

// Sheet is a loaded stylesheet
type Sheet interface {
	// Href identifies the sheet (file path, URL, or "" for inline sheets)
	Href() string
	// Rules returns the sheet's top-level rules in document order
	Rules() ([]Rule, error)
}

// Source supplies the page's stylesheets in document order
type Source func() []Sheet
