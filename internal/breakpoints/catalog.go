// Package breakpoints discovers [width-range] and [height-range] attribute
// selectors in a page's stylesheets and keeps them in a page-wide catalog.
package breakpoints

import (
	"reflect"

	"bennypowers.dev/rrls/internal/log"
	"bennypowers.dev/rrls/internal/stylesheet"
)

// MaxImportDepth bounds @import nesting. Real stylesheets never come close;
// the cap only stops pathological import chains.
const MaxImportDepth = 32

// Build scans the given sheets, following @import rules, and returns the
// deduplicated breakpoint catalog. Rules that declare no breakpoints and
// sheets whose rules cannot be read are skipped. Build never fails.
//
// Build is idempotent, but a page is meant to be scanned once: use a Cache
// rather than calling Build again to pick up changed styles.
func Build(sheets []stylesheet.Sheet) *Catalog {
	s := &scanner{
		catalog: &Catalog{},
		active:  make(map[stylesheet.Sheet]bool),
		done:    make(map[stylesheet.Sheet]bool),
	}
	for _, sheet := range sheets {
		s.scanSheet(sheet, 0)
	}
	log.Debug("Breakpoint catalog built: %d width, %d height", len(s.catalog.Width), len(s.catalog.Height))
	return s.catalog
}

type scanner struct {
	catalog *Catalog
	// active holds the sheets on the current import chain
	active map[stylesheet.Sheet]bool
	// done holds the sheets already scanned in full
	done map[stylesheet.Sheet]bool
}

func (s *scanner) scanSheet(sheet stylesheet.Sheet, depth int) {
	if sheet == nil || isNil(sheet) {
		return
	}
	if depth > MaxImportDepth {
		log.Debug("Import depth limit reached at %s", sheet.Href())
		return
	}

	// Only comparable sheets can be tracked; the depth cap covers the rest.
	if reflect.TypeOf(sheet).Comparable() {
		if s.done[sheet] {
			return
		}
		if s.active[sheet] {
			log.Debug("Skipping cyclic import of %s", sheet.Href())
			return
		}
		s.active[sheet] = true
		defer func() {
			delete(s.active, sheet)
			s.done[sheet] = true
		}()
	}

	rules, err := sheet.Rules()
	if err != nil {
		log.Debug("Skipping stylesheet %q: %v", sheet.Href(), err)
		return
	}

	for _, rule := range rules {
		if rule == nil {
			continue
		}
		switch rule.Kind() {
		case stylesheet.RuleImport:
			s.scanSheet(rule.Import(), depth+1)
		case stylesheet.RuleStyle:
			s.scanSelectorText(rule.SelectorText())
		}
	}
}

func (s *scanner) scanSelectorText(selectorText string) {
	for _, clause := range SplitSelectorList(selectorText) {
		for _, m := range ParseSelector(clause) {
			s.catalog.add(m.Dimension, m.Declaration)
		}
	}
}

// isNil catches typed nil pointers wrapped in the Sheet interface
func isNil(sheet stylesheet.Sheet) bool {
	v := reflect.ValueOf(sheet)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
