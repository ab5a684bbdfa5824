package docs

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// ManagedSection represents a section of content managed by automation.
type ManagedSection struct {
	Name       string // Section name (e.g., "TRAP MANAGED VERSION SECTION")
	Content    string // Content between markers
	StartLine  int    // Line number of start marker
	EndLine    int    // Line number of end marker
	StartIndex int    // Character index of start marker
	EndIndex   int    // Character index of end marker (after end marker)
}

// Syntax is the comment style used for section markers.
type Syntax int

const (
	// Markdown markers are HTML comments: <!-- BEGIN name -->.
	Markdown Syntax = iota
	// RST markers are reStructuredText comments: .. BEGIN name
	RST
)

// SyntaxFor picks the marker syntax from a file name.
func SyntaxFor(path string) Syntax {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".rst", ".txt":
		return RST
	default:
		return Markdown
	}
}

// Markers returns the begin and end markers for a section name.
func (s Syntax) Markers(sectionName string) (begin, end string) {
	if s == RST {
		return ".. BEGIN " + sectionName, ".. END " + sectionName
	}
	return fmt.Sprintf("<!-- BEGIN %s -->", sectionName), fmt.Sprintf("<!-- END %s -->", sectionName)
}

// FindManagedSection finds a managed section in the given content.
// Returns nil if the section is not found.
func FindManagedSection(content, sectionName string, syntax Syntax) *ManagedSection {
	startMarker, endMarker := syntax.Markers(sectionName)

	startIdx := strings.Index(content, startMarker)
	if startIdx == -1 {
		return nil
	}

	endIdx := strings.Index(content[startIdx+len(startMarker):], endMarker)
	if endIdx == -1 {
		return nil
	}
	endIdx += startIdx + len(startMarker) + len(endMarker)

	contentStart := startIdx + len(startMarker)
	contentEnd := endIdx - len(endMarker)

	return &ManagedSection{
		Name:       sectionName,
		Content:    content[contentStart:contentEnd],
		StartLine:  strings.Count(content[:startIdx], "\n") + 1,
		EndLine:    strings.Count(content[:endIdx], "\n") + 1,
		StartIndex: startIdx,
		EndIndex:   endIdx,
	}
}

// UpdateManagedSection replaces the content of a managed section.
// Returns the updated full content.
func UpdateManagedSection(content, sectionName, newContent string, syntax Syntax) (string, error) {
	section := FindManagedSection(content, sectionName, syntax)
	if section == nil {
		return "", fmt.Errorf("managed section %q not found", sectionName)
	}

	var builder strings.Builder
	builder.WriteString(content[:section.StartIndex])
	builder.WriteString(CreateManagedSection(sectionName, newContent, syntax))
	builder.WriteString(content[section.EndIndex:])

	return builder.String(), nil
}

// HasManagedSection checks if a managed section exists in the content.
func HasManagedSection(content, sectionName string, syntax Syntax) bool {
	return FindManagedSection(content, sectionName, syntax) != nil
}

// CreateManagedSection wraps content in the section markers.
// RST content is separated from the markers by blank lines so the
// comments do not swallow it.
func CreateManagedSection(sectionName, content string, syntax Syntax) string {
	startMarker, endMarker := syntax.Markers(sectionName)

	var builder strings.Builder
	builder.WriteString(startMarker)
	builder.WriteString("\n")
	if syntax == RST {
		builder.WriteString("\n")
	}
	builder.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		builder.WriteString("\n")
	}
	if syntax == RST {
		builder.WriteString("\n")
	}
	builder.WriteString(endMarker)
	return builder.String()
}

var (
	beginRe = regexp.MustCompile(`(?m)(?:<!-- BEGIN ([^>]+?) -->|^\.\. BEGIN (.+)$)`)
	endRe   = regexp.MustCompile(`(?m)(?:<!-- END ([^>]+?) -->|^\.\. END (.+)$)`)
)

// ValidateManagedSections checks that all managed sections have matching markers.
func ValidateManagedSections(content string) []string {
	beginNames := markerNames(beginRe, content)
	endNames := markerNames(endRe, content)

	var errors []string
	for _, name := range sortedKeys(beginNames) {
		if !endNames[name] {
			errors = append(errors, fmt.Sprintf("missing END marker for %q", name))
		}
	}
	for _, name := range sortedKeys(endNames) {
		if !beginNames[name] {
			errors = append(errors, fmt.Sprintf("missing BEGIN marker for %q", name))
		}
	}

	return errors
}

func markerNames(re *regexp.Regexp, content string) map[string]bool {
	names := make(map[string]bool)
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		names[strings.TrimSpace(name)] = true
	}
	return names
}
