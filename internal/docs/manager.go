package docs

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/renameio/v2"
)

// Document represents a documentation file with managed sections.
type Document struct {
	Path    string
	Content string
	Syntax  Syntax
}

// Manager handles documentation file operations.
type Manager struct {
	marker string
}

// NewManager creates a manager for sections named marker.
func NewManager(marker string) *Manager {
	return &Manager{marker: marker}
}

// LoadDocument reads a documentation file.
func (m *Manager) LoadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return &Document{
		Path:    path,
		Content: string(content),
		Syntax:  SyntaxFor(path),
	}, nil
}

// SaveDocument writes the document back to disk atomically.
func (m *Manager) SaveDocument(doc *Document) error {
	return WriteFile(doc.Path, []byte(doc.Content), 0o644)
}

// HasSection checks if the document has the managed section markers.
func (m *Manager) HasSection(doc *Document) bool {
	return HasManagedSection(doc.Content, m.marker, doc.Syntax)
}

// UpdateSection replaces the managed section body.
// It reports whether the content changed.
func (m *Manager) UpdateSection(doc *Document, newContent string) (bool, error) {
	if problems := ValidateManagedSections(doc.Content); len(problems) > 0 {
		return false, fmt.Errorf("%s: %s", doc.Path, problems[0])
	}

	updated, err := UpdateManagedSection(doc.Content, m.marker, newContent, doc.Syntax)
	if err != nil {
		return false, err
	}
	changed := updated != doc.Content
	doc.Content = updated
	return changed, nil
}

// WriteFile replaces path with data via a temp file, fsync and rename.
// Readers never observe a partially written file.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if err := renameio.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
