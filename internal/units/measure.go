package units

import "math"

// Measurer resolves a relative length token (em, rem, ex, ch) to whole
// pixels in the context of an element. In a browser this is a probe element
// appended to context whose rendered width is read back.
type Measurer interface {
	Measure(token string, context any) (int, error)
}

// MeasureFunc adapts a function to the Measurer interface
type MeasureFunc func(token string, context any) (int, error)

// Measure implements Measurer
func (f MeasureFunc) Measure(token string, context any) (int, error) {
	return f(token, context)
}

// DefaultFontSize is the browser default font size in pixels
const DefaultFontSize = 16.0

// FontMetrics measures relative units arithmetically from fixed font
// metrics, for hosts without a layout engine. Zero fields take defaults:
// 16px font sizes, and half the font size for both x-height and ch width.
type FontMetrics struct {
	// RootFontSize is the font size of the root element (rem)
	RootFontSize float64 `json:"rootFontSize,omitempty" yaml:"rootFontSize,omitempty"`
	// FontSize is the font size of the context element (em)
	FontSize float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	// XHeight is the height of a lowercase x in pixels (ex)
	XHeight float64 `json:"xHeight,omitempty" yaml:"xHeight,omitempty"`
	// ChWidth is the advance width of "0" in pixels (ch)
	ChWidth float64 `json:"chWidth,omitempty" yaml:"chWidth,omitempty"`
}

// UnitSize returns the pixel size of one relative unit
func (f FontMetrics) UnitSize(unit string) (float64, bool) {
	fontSize := orDefault(f.FontSize, DefaultFontSize)
	switch unit {
	case "em":
		return fontSize, true
	case "rem":
		return orDefault(f.RootFontSize, DefaultFontSize), true
	case "ex":
		return orDefault(f.XHeight, fontSize/2), true
	case "ch":
		return orDefault(f.ChWidth, fontSize/2), true
	}
	return 0, false
}

// Measure implements Measurer. The result is rounded like a rendered
// element's offsetWidth. The context is not used.
func (f FontMetrics) Measure(token string, _ any) (int, error) {
	value, unit, err := Split(token)
	if err != nil {
		return 0, err
	}
	size, ok := f.UnitSize(unit)
	if !ok {
		return 0, &UnitError{Token: token, Unit: unit, Err: ErrUnsupportedUnit}
	}
	return int(math.Round(value * size)), nil
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
