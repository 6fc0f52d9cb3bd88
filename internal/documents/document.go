package documents

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// revision is one version of a document's text
type revision struct {
	content string
	version int
}

// Document is an open text document: a stylesheet, an HTML page, or a
// script with css tagged templates. Reads never block; writers are
// serialized.
type Document struct {
	uri        string
	languageID string

	writeMu sync.Mutex
	current atomic.Pointer[revision]
}

func NewDocument(uri, languageID string, version int, content string) *Document {
	d := &Document{uri: uri, languageID: languageID}
	d.current.Store(&revision{content: content, version: version})
	return d
}

func (d *Document) URI() string        { return d.uri }
func (d *Document) LanguageID() string { return d.languageID }
func (d *Document) Version() int       { return d.current.Load().version }
func (d *Document) Content() string    { return d.current.Load().content }

// Snapshot returns content and version as of the same edit
func (d *Document) Snapshot() (content string, version int) {
	rev := d.current.Load()
	return rev.content, rev.version
}

// SetContent stores content as version. Versions older than the current
// one are rejected; the same version may be rewritten.
func (d *Document) SetContent(content string, version int) error {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	if cur := d.current.Load().version; version < cur {
		return fmt.Errorf("rejected stale update: document version is %d but update version is %d", cur, version)
	}
	d.current.Store(&revision{content: content, version: version})
	return nil
}
