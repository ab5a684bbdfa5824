package template

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/trap-engine/trap-docs/internal/settings"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuncMap returns the template function map.
func FuncMap() template.FuncMap {
	titleCaser := cases.Title(language.English)
	return template.FuncMap{
		// String functions
		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"title":     titleCaser.String,
		"trimSpace": strings.TrimSpace,
		"replace":   strings.ReplaceAll,
		"join":      strings.Join,

		// Formatting functions
		"indent": indent,
		"py":     PyLiteral,
	}
}

// indent adds n spaces of indentation to each line.
func indent(n int, s string) string {
	prefix := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

// PyLiteral formats a configuration value as a Python literal.
func PyLiteral(v any) (string, error) {
	var sb strings.Builder
	if err := writePy(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func writePy(sb *strings.Builder, v any) error {
	switch t := v.(type) {
	case nil:
		sb.WriteString("None")
	case bool:
		if t {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case string:
		sb.WriteString(strconv.Quote(t))
	case int:
		sb.WriteString(strconv.Itoa(t))
	case int64:
		sb.WriteString(strconv.FormatInt(t, 10))
	case uint64:
		sb.WriteString(strconv.FormatUint(t, 10))
	case float64:
		writePyFloat(sb, t)
	case []string:
		sb.WriteByte('[')
		for i, s := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(s))
		}
		sb.WriteByte(']')
	case []any:
		sb.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := writePy(sb, e); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case settings.Options:
		sb.WriteByte('{')
		for i, o := range t {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(o.Name))
			sb.WriteString(": ")
			if err := writePy(sb, o.Value); err != nil {
				return fmt.Errorf("%s: %w", o.Name, err)
			}
		}
		sb.WriteByte('}')
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		opts := make(settings.Options, 0, len(keys))
		for _, k := range keys {
			opts = append(opts, settings.Option{Name: k, Value: t[k]})
		}
		return writePy(sb, opts)
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}

func writePyFloat(sb *strings.Builder, f float64) {
	switch {
	case math.IsNaN(f):
		sb.WriteString(`float("nan")`)
	case math.IsInf(f, 1):
		sb.WriteString(`float("inf")`)
	case math.IsInf(f, -1):
		sb.WriteString(`float("-inf")`)
	default:
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eEn") {
			s += ".0"
		}
		sb.WriteString(s)
	}
}
