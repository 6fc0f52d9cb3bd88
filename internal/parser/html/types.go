package html

// StyleKind identifies how a page brings in a stylesheet
type StyleKind int

const (
	// UnknownStyle is the zero value, indicating an uninitialized kind
	UnknownStyle StyleKind = iota
	// InlineStyle represents CSS inside a <style> element
	InlineStyle
	// LinkedStyle represents a <link rel="stylesheet" href="..."> element
	LinkedStyle
)

// PageStyle is one stylesheet of a page, in document order
type PageStyle struct {
	Kind StyleKind
	// Content is the CSS text of an inline style
	Content string
	// Href is the location of a linked stylesheet
	Href string
	// StartLine is the 0-indexed line where Content (or the link element) begins
	StartLine uint
	// StartCol is the 0-indexed UTF-16 column where Content (or the link element) begins
	StartCol uint
}

// Page lists the stylesheets of an HTML document in the order a browser
// would expose them
type Page struct {
	Styles []PageStyle
}

// Inline returns the inline <style> blocks
func (p *Page) Inline() []PageStyle {
	return p.filter(InlineStyle)
}

// Links returns the linked stylesheets
func (p *Page) Links() []PageStyle {
	return p.filter(LinkedStyle)
}

func (p *Page) filter(kind StyleKind) []PageStyle {
	var out []PageStyle
	for _, s := range p.Styles {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}
