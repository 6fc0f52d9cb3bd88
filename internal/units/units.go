// Package units converts CSS length tokens to whole pixels.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
)

// Sentinel errors for conversion failures
var (
	// ErrInvalidLength indicates the token is not a number followed by a unit
	ErrInvalidLength = errors.New("invalid CSS length")

	// ErrUnsupportedUnit indicates a unit with no pixel conversion (%, vw, ...)
	ErrUnsupportedUnit = errors.New("unsupported CSS unit")

	// ErrNoMeasurer indicates a relative unit was converted without a Measurer
	ErrNoMeasurer = errors.New("relative CSS unit requires a measurer")
)

// UnitError describes a token that could not be converted to pixels
type UnitError struct {
	Token string
	Unit  string
	Err   error
}

func (e *UnitError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("cannot convert %q to pixels: %v (unit %q)", e.Token, e.Err, e.Unit)
	}
	return fmt.Sprintf("cannot convert %q to pixels: %v", e.Token, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

// PixelsPerInch is the CSS reference resolution
const PixelsPerInch = 96.0

// absolute maps each absolute unit to its pixel ratio
var absolute = map[string]float64{
	"px": 1,
	"in": PixelsPerInch,
	"cm": 37.8,
	"mm": 3.78,
	"pt": PixelsPerInch / 72,
	"pc": PixelsPerInch / 72 * 12,
}

// relative units depend on fonts and can only be measured
var relative = map[string]bool{
	"em":  true,
	"rem": true,
	"ex":  true,
	"ch":  true,
}

// IsRelative reports whether unit needs a Measurer
func IsRelative(unit string) bool {
	return relative[strings.ToLower(unit)]
}

// IsZero reports whether token is the unitless zero (or empty) bound
func IsZero(token string) bool {
	return token == "" || token == "0"
}

// Split separates a length token into its numeric value and its unit of one
// to three letters, e.g. "2.5em" -> 2.5, "em"
func Split(token string) (float64, string, error) {
	b := []byte(strings.TrimSpace(token))
	num, unit := parse.Dimension(b)
	if num == 0 || unit == 0 || num+unit != len(b) || unit > 3 {
		return 0, "", &UnitError{Token: token, Err: ErrInvalidLength}
	}
	value, err := strconv.ParseFloat(string(b[:num]), 64)
	if err != nil {
		return 0, "", &UnitError{Token: token, Err: ErrInvalidLength}
	}
	return value, strings.ToLower(string(b[num:])), nil
}

// ToPixels converts a length token to whole pixels. Fractions are
// truncated, so "10.7px" is 10 and "2cm" is 75.
//
// Absolute units (px, in, cm, mm, pt, pc) are converted arithmetically at
// 96px per inch. Relative units (em, rem, ex, ch) are handed to m together
// with context, the element the length is measured against. Every other
// unit, including percentages, yields an error wrapping
// ErrUnsupportedUnit; callers skip such breakpoints.
func ToPixels(token string, context any, m Measurer) (int, error) {
	if IsZero(token) {
		return 0, nil
	}

	value, unit, err := Split(token)
	if err != nil {
		return 0, err
	}

	if ratio, ok := absolute[unit]; ok {
		return int(value * ratio), nil
	}

	if relative[unit] {
		if m == nil {
			return 0, &UnitError{Token: token, Unit: unit, Err: ErrNoMeasurer}
		}
		px, err := m.Measure(token, context)
		if err != nil {
			return 0, &UnitError{Token: token, Unit: unit, Err: err}
		}
		return px, nil
	}

	return 0, &UnitError{Token: token, Unit: unit, Err: ErrUnsupportedUnit}
}
