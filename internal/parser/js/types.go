package js

import htmlparser "bennypowers.dev/rrls/internal/parser/html"

// Segment is the literal text of a template between ${...} substitutions.
// StartLine and StartCol locate it in the script; the column counts
// UTF-16 units.
type Segment struct {
	Content   string
	StartLine uint
	StartCol  uint
}

// style treats the segment as inline style text so parse results can be
// shifted into script coordinates
func (s Segment) style() htmlparser.PageStyle {
	return htmlparser.PageStyle{
		Kind:      htmlparser.InlineStyle,
		Content:   s.Content,
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
	}
}

// TemplateRegion is a css“ or html“ tagged template. Regions are returned
// in source order by StartByte.
type TemplateRegion struct {
	Tag       string
	Segments  []Segment
	StartByte uint
}
