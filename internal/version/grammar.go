package version

import (
	"fmt"
	"strings"
)

// Sentinel is the version reported when none can be determined.
const Sentinel = "Unknown"

// Delimiter separates components inside a grammar's argument list.
const Delimiter = ", "

// Grammar describes one textual shape of the version declaration:
// an exact prefix, a Delimiter-separated list of numbers and an exact suffix.
type Grammar struct {
	Name   string
	Prefix string
	Suffix string
}

var (
	// Template matches `inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<1, 2, 3>();`.
	Template = Grammar{
		Name:   "template",
		Prefix: "inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<",
		Suffix: ">();",
	}

	// Semantic matches `inline constexpr TRAP::SemanticVersion<1, 2, 3> TRAP_VERSION{};`.
	Semantic = Grammar{
		Name:   "semantic",
		Prefix: "inline constexpr TRAP::SemanticVersion<",
		Suffix: "> TRAP_VERSION{};",
	}

	// Legacy matches `constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(1, 2, 3);`.
	Legacy = Grammar{
		Name:   "legacy",
		Prefix: "constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(",
		Suffix: ");",
	}
)

// DefaultGrammars returns the grammars known from the engine headers, newest first.
func DefaultGrammars() []Grammar {
	return []Grammar{Template, Semantic, Legacy}
}

// Validate checks that the grammar can be matched.
func (g Grammar) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("grammar name is required")
	}
	if strings.TrimSpace(g.Prefix) == "" {
		return fmt.Errorf("grammar %q: prefix is required", g.Name)
	}
	if g.Suffix == "" {
		return fmt.Errorf("grammar %q: suffix is required", g.Name)
	}
	return nil
}

// match reports whether line is claimed by the grammar's prefix.
// When claimed, it returns the normalized dotted version or a drift reason.
func (g Grammar) match(line string) (claimed bool, dotted string, reason string) {
	if !strings.HasPrefix(line, g.Prefix) {
		return false, "", ""
	}

	rest := line[len(g.Prefix):]
	if !strings.HasSuffix(rest, g.Suffix) {
		return true, "", fmt.Sprintf("missing suffix %q", g.Suffix)
	}

	inner := rest[:len(rest)-len(g.Suffix)]
	dotted, err := normalize(inner)
	if err != nil {
		return true, "", err.Error()
	}
	return true, dotted, ""
}

// normalize turns "1, 2, 3" into "1.2.3".
// Every component must be a non-empty run of decimal digits.
func normalize(inner string) (string, error) {
	if inner == "" {
		return "", fmt.Errorf("empty version list")
	}

	parts := strings.Split(inner, Delimiter)
	for i, p := range parts {
		if !isDigits(p) {
			return "", fmt.Errorf("component %d (%q) is not a number", i+1, p)
		}
	}
	return strings.Join(parts, "."), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
