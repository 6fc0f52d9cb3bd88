package breakpoints

import (
	"sync"
	"sync/atomic"

	"bennypowers.dev/rrls/internal/stylesheet"
)

// Cache builds a catalog exactly once and hands out the same catalog for
// the rest of its lifetime. Styles added or changed after the first Get are
// not picked up; there is no refresh.
//
// The zero value is ready to use. A Cache is safe for concurrent use, and
// no caller ever observes a partially built catalog.
type Cache struct {
	once    sync.Once
	catalog atomic.Pointer[Catalog]
}

var shared Cache

// Shared returns the process-wide cache used by components that do not
// bring their own
func Shared() *Cache {
	return &shared
}

// Get returns the cached catalog, scanning the sheets returned by source on
// the first call. A nil source yields an empty catalog.
func (c *Cache) Get(source stylesheet.Source) *Catalog {
	c.once.Do(func() {
		var sheets []stylesheet.Sheet
		if source != nil {
			sheets = source()
		}
		c.catalog.Store(Build(sheets))
	})
	return c.catalog.Load()
}

// Built reports whether the catalog has been built
func (c *Cache) Built() bool {
	return c.catalog.Load() != nil
}

// Peek returns the catalog if it has been built, nil otherwise
func (c *Cache) Peek() *Catalog {
	return c.catalog.Load()
}
