package responsive

import (
	"bennypowers.dev/rrls/internal/breakpoints"
	"bennypowers.dev/rrls/internal/stylesheet"
	"bennypowers.dev/rrls/internal/units"
)

// Option configures an Extension
type Option func(*Extension)

// WithCache reads the catalog from cache instead of the process-wide one
func WithCache(cache *breakpoints.Cache) Option {
	return func(e *Extension) {
		if cache != nil {
			e.cache = cache
		}
	}
}

// WithSource sets the stylesheets the catalog is built from, should this
// be the first attach. The default source has no sheets.
func WithSource(source stylesheet.Source) Option {
	return func(e *Extension) {
		e.source = source
	}
}

// WithMeasurer sets how relative units are measured. The default appends a
// probe to the measured element (see ProbeMeasurer).
func WithMeasurer(m units.Measurer) Option {
	return func(e *Extension) {
		if m != nil {
			e.measurer = m
		}
	}
}
