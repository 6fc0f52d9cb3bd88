package types

import "bennypowers.dev/rrls/internal/units"

// ServerConfig represents the server configuration
type ServerConfig struct {
	// Stylesheets lists entry files or doublestar globs, relative to the
	// workspace root, whose breakpoints make up the workspace catalog.
	// Example: ["src/**/*.css", "elements/*/styles.js"]
	Stylesheets []string `json:"stylesheets" yaml:"stylesheets"`

	// Page is an optional HTML page whose <style> and <link> sheets are
	// scanned before Stylesheets
	Page string `json:"page,omitempty" yaml:"page,omitempty"`

	// Font metrics, in pixels, for converting relative units
	RootFontSize float64 `json:"rootFontSize,omitempty" yaml:"rootFontSize,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty" yaml:"fontSize,omitempty"`
	XHeight      float64 `json:"xHeight,omitempty" yaml:"xHeight,omitempty"`
	ChWidth      float64 `json:"chWidth,omitempty" yaml:"chWidth,omitempty"`
}

// DefaultStylesheets is the glob used when no stylesheets are configured
var DefaultStylesheets = []string{"**/*.css"}

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Stylesheets:  append([]string(nil), DefaultStylesheets...),
		RootFontSize: units.DefaultFontSize,
		FontSize:     units.DefaultFontSize,
	}
}

// FontMetrics returns the metrics relative lengths are measured with.
// Unset sizes fall back to the browser default.
func (c ServerConfig) FontMetrics() units.FontMetrics {
	return units.FontMetrics{
		RootFontSize: c.RootFontSize,
		FontSize:     c.FontSize,
		XHeight:      c.XHeight,
		ChWidth:      c.ChWidth,
	}
}
