package types

import (
	"testing"

	"bennypowers.dev/rrls/internal/units"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, []string{"**/*.css"}, config.Stylesheets)
	assert.Empty(t, config.Page)
	assert.Equal(t, 16.0, config.RootFontSize)
	assert.Equal(t, 16.0, config.FontSize)

	// callers may append without touching the package default
	config.Stylesheets = append(config.Stylesheets, "src/**/*.js")
	assert.Equal(t, []string{"**/*.css"}, DefaultStylesheets)
}

func TestServerConfig_FontMetrics(t *testing.T) {
	config := ServerConfig{RootFontSize: 10, FontSize: 20, ChWidth: 9}
	metrics := config.FontMetrics()

	assert.Equal(t, units.FontMetrics{RootFontSize: 10, FontSize: 20, ChWidth: 9}, metrics)

	px, err := units.ToPixels("3rem", nil, metrics)
	assert.NoError(t, err)
	assert.Equal(t, 30, px)

	px, err = units.ToPixels("2ex", nil, metrics)
	assert.NoError(t, err)
	assert.Equal(t, 20, px, "ex falls back to half the font size")
}
