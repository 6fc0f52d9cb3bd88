package documents

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bennypowers.dev/rrls/internal/position"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Manager holds the documents the client has open
type Manager struct {
	mu   sync.RWMutex
	open map[string]*Document
}

// NewManager creates an empty document manager
func NewManager() *Manager {
	return &Manager{open: make(map[string]*Document)}
}

// Get returns the open document with the given URI, or nil
func (m *Manager) Get(uri string) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.open[uri]
}

// GetAll returns every open document, ordered by URI
func (m *Manager) GetAll() []*Document {
	m.mu.RLock()
	docs := make([]*Document, 0, len(m.open))
	for _, doc := range m.open {
		docs = append(docs, doc)
	}
	m.mu.RUnlock()

	slices.SortFunc(docs, func(a, b *Document) int {
		return cmp.Compare(a.URI(), b.URI())
	})
	return docs
}

// DidOpen starts tracking a document, replacing any earlier copy
func (m *Manager) DidOpen(uri, languageID string, version int, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open[uri] = NewDocument(uri, languageID, version, content)
	return nil
}

// DidClose stops tracking a document
func (m *Manager) DidClose(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.open[uri]; !ok {
		return fmt.Errorf("document not found: %s", uri)
	}
	delete(m.open, uri)
	return nil
}

// DidChange applies changes in order and stores the result as version.
// Nothing is stored when any change fails to apply.
func (m *Manager) DidChange(uri string, version int, changes []protocol.TextDocumentContentChangeEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.open[uri]
	if !ok {
		return fmt.Errorf("document not found: %s", uri)
	}

	content := doc.Content()
	for i, change := range changes {
		if change.Range == nil {
			content = change.Text
			continue
		}
		edited, err := applyEdit(content, *change.Range, change.Text)
		if err != nil {
			return fmt.Errorf("failed to apply change %d: %w", i, err)
		}
		content = edited
	}

	if err := doc.SetContent(content, version); err != nil {
		return fmt.Errorf("failed to set document content: %w", err)
	}
	return nil
}

// applyEdit replaces the text between the range's ends
func applyEdit(content string, r protocol.Range, text string) (string, error) {
	start, err := byteOffset(content, r.Start)
	if err != nil {
		return "", fmt.Errorf("start: %w", err)
	}
	end, err := byteOffset(content, r.End)
	if err != nil {
		return "", fmt.Errorf("end: %w", err)
	}
	if end < start {
		return "", fmt.Errorf("range end %d:%d is before start %d:%d",
			r.End.Line, r.End.Character, r.Start.Line, r.Start.Character)
	}
	return content[:start] + text + content[end:], nil
}

// byteOffset converts an LSP position to an offset into content.
// Characters past the end of a line clamp to it, and the line just past
// the last one addresses the end of the document.
func byteOffset(content string, pos protocol.Position) (int, error) {
	lineStart := 0
	for line := uint32(0); line < pos.Line; line++ {
		nl := strings.IndexByte(content[lineStart:], '\n')
		if nl < 0 {
			if line+1 == pos.Line {
				return len(content), nil
			}
			return 0, fmt.Errorf("line %d out of bounds (total lines: %d)", pos.Line, line+1)
		}
		lineStart += nl + 1
	}

	text := content[lineStart:]
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[:nl]
	}
	return lineStart + position.UTF16ToByteOffset(text, int(pos.Character)), nil
}
