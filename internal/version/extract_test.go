package version

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHeader(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "Base.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    string
		status  Status
		grammar string
		line    int
	}{
		{
			name:    "template form",
			content: "#pragma once\n\ninline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<1, 2, 3>();\n",
			want:    "1.2.3",
			status:  Found,
			grammar: "template",
			line:    3,
		},
		{
			name:    "legacy form",
			content: "constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(0, 7, 38);\n",
			want:    "0.7.38",
			status:  Found,
			grammar: "legacy",
			line:    1,
		},
		{
			name:    "semantic version form",
			content: "/// @brief TRAP version number\ninline constexpr TRAP::SemanticVersion<0, 10, 93> TRAP_VERSION{};\n",
			want:    "0.10.93",
			status:  Found,
			grammar: "semantic",
			line:    2,
		},
		{
			name:    "surrounding whitespace and CRLF",
			content: "\t  inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<4, 5, 6>();  \r\n",
			want:    "4.5.6",
			status:  Found,
			grammar: "template",
			line:    1,
		},
		{
			name: "first match wins",
			content: "constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(0, 6, 77);\n" +
				"inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<9, 9, 9>();\n",
			want:    "0.6.77",
			status:  Found,
			grammar: "legacy",
			line:    1,
		},
		{
			name:    "no declaration",
			content: "#pragma once\nconstexpr uint32_t TRAP_MAKE_VERSION(uint32_t major);\n",
			want:    Sentinel,
			status:  MissingMatch,
		},
		{
			name:    "empty file",
			content: "",
			want:    Sentinel,
			status:  MissingMatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeHeader(t, tt.content)
			res, err := NewExtractor().Extract(context.Background(), path)
			require.NoError(t, err)

			assert.Equal(t, tt.want, res.Version)
			assert.Equal(t, tt.status, res.Status)
			assert.Equal(t, tt.grammar, res.Grammar)
			assert.Equal(t, tt.line, res.Line)
			assert.Equal(t, path, res.Path)
		})
	}
}

func TestExtract_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "does", "not", "exist.h")
	res, err := NewExtractor().Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, Sentinel, res.Version)
	assert.Equal(t, MissingFile, res.Status)
	assert.False(t, res.Known())
}

func TestExtract_Unreadable(t *testing.T) {
	t.Parallel()

	// Opening a directory succeeds but reading it fails.
	_, err := NewExtractor().Extract(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtract_FormatDrift(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{name: "missing suffix", line: "inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<1, 2, 3>;", reason: "missing suffix"},
		{name: "no space after comma", line: "inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<1,2,3>();", reason: "not a number"},
		{name: "symbolic component", line: "constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(0, MINOR, 1);", reason: "not a number"},
		{name: "empty list", line: "inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<>();", reason: "empty version list"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeHeader(t, "// header\n"+tt.line+"\n")
			_, err := NewExtractor().Extract(context.Background(), path)
			require.Error(t, err)

			var fe *FormatError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, 2, fe.Line)
			assert.Equal(t, path, fe.Path)
			assert.Contains(t, fe.Reason, tt.reason)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()

	path := writeHeader(t, "inline constexpr u32 TRAP_VERSION = TRAP_MAKE_VERSION<1, 2, 3>();\n")
	e := NewExtractor()

	first, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := e.Extract(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestExtract_CustomGrammar(t *testing.T) {
	t.Parallel()

	g := Grammar{Name: "define", Prefix: "#define ENGINE_VERSION \"", Suffix: "\""}
	res, err := NewExtractor(g).Scan(strings.NewReader("#define ENGINE_VERSION \"2, 0, 1\"\n"), "version.h")
	require.NoError(t, err)
	assert.Equal(t, "2.0.1", res.Version)
	assert.Equal(t, "define", res.Grammar)

	// Default grammars are not consulted when custom ones are given.
	res, err = NewExtractor(g).Scan(strings.NewReader("constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(0, 7, 38);\n"), "Core.h")
	require.NoError(t, err)
	assert.Equal(t, MissingMatch, res.Status)
}

func TestExtractFirst(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.h")
	empty := filepath.Join(dir, "empty.h")
	legacy := filepath.Join(dir, "Core.h")
	require.NoError(t, os.WriteFile(empty, []byte("#pragma once\n"), 0o644))
	require.NoError(t, os.WriteFile(legacy, []byte("constexpr uint32_t TRAP_VERSION = TRAP_MAKE_VERSION(0, 6, 77);\n"), 0o644))

	e := NewExtractor()
	ctx := context.Background()

	res, err := e.ExtractFirst(ctx, []string{missing, empty, legacy})
	require.NoError(t, err)
	assert.Equal(t, "0.6.77", res.Version)
	assert.Equal(t, legacy, res.Path)

	res, err = e.ExtractFirst(ctx, []string{missing, empty})
	require.NoError(t, err)
	assert.Equal(t, Sentinel, res.Version)
	assert.Equal(t, MissingMatch, res.Status)
	assert.Equal(t, empty, res.Path)

	res, err = e.ExtractFirst(ctx, []string{missing})
	require.NoError(t, err)
	assert.Equal(t, MissingFile, res.Status)

	_, err = e.ExtractFirst(ctx, nil)
	require.Error(t, err)
}

func TestGrammarValidate(t *testing.T) {
	t.Parallel()

	for _, g := range DefaultGrammars() {
		require.NoError(t, g.Validate(), g.Name)
	}
	require.Error(t, Grammar{Prefix: "x", Suffix: "y"}.Validate())
	require.Error(t, Grammar{Name: "x", Prefix: " ", Suffix: "y"}.Validate())
	require.Error(t, Grammar{Name: "x", Prefix: "p"}.Validate())
}

func TestStatusString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "missing-file", MissingFile.String())
	assert.Equal(t, "missing-match", MissingMatch.String())
}
