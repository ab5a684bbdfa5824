// Package version extracts the engine release version from a C++ header.
package version

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/trap-engine/trap-docs/internal/logger"
)

// maxLineLength bounds a single header line read by the scanner.
const maxLineLength = 1 << 20

// ErrUnreadable wraps I/O failures other than the header being absent.
var ErrUnreadable = errors.New("header unreadable")

// Status describes how a Result was obtained.
type Status int

const (
	// Found means a line matched and Version holds the dotted version.
	Found Status = iota
	// MissingFile means the header does not exist.
	MissingFile
	// MissingMatch means the header exists but no line matched any grammar.
	MissingMatch
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case MissingFile:
		return "missing-file"
	case MissingMatch:
		return "missing-match"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of an extraction.
type Result struct {
	Path    string
	Version string
	Status  Status
	Grammar string // name of the matching grammar, empty unless Found
	Line    int    // 1-based line of the match, 0 unless Found
}

// Known reports whether a real version was extracted.
func (r Result) Known() bool {
	return r.Status == Found
}

// FormatError reports a line claimed by a grammar's prefix that does not
// fit the rest of the grammar.
type FormatError struct {
	Path    string
	Line    int
	Grammar string
	Text    string
	Reason  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s:%d: %s version declaration: %s: %q", e.Path, e.Line, e.Grammar, e.Reason, e.Text)
}

// Extractor scans headers for the version declaration.
type Extractor struct {
	grammars []Grammar
}

// NewExtractor creates an extractor trying grammars in order.
// With no grammars it uses DefaultGrammars.
func NewExtractor(grammars ...Grammar) *Extractor {
	if len(grammars) == 0 {
		grammars = DefaultGrammars()
	}
	return &Extractor{grammars: grammars}
}

// Grammars returns the grammars in matching order.
func (e *Extractor) Grammars() []Grammar {
	return append([]Grammar(nil), e.grammars...)
}

// Extract reads the header at path and returns the first declared version.
// A missing header or a header without a declaration yields the Sentinel;
// any other read failure is returned as an error wrapping ErrUnreadable.
func (e *Extractor) Extract(ctx context.Context, path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.WarnKV(ctx, "version header not found", "path", path, "version", Sentinel)
			return Result{Path: path, Version: Sentinel, Status: MissingFile}, nil
		}
		return Result{}, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	res, err := e.Scan(f, path)
	if err != nil {
		return Result{}, err
	}

	switch res.Status {
	case Found:
		logger.DebugKV(ctx, "version extracted", "path", path, "version", res.Version, "grammar", res.Grammar, "line", res.Line)
	case MissingMatch:
		logger.WarnKV(ctx, "no version declaration in header", "path", path, "version", Sentinel)
	}
	return res, nil
}

// Scan reads r line by line and stops at the first declaration.
// path is only used to label results and errors.
func (e *Extractor) Scan(r io.Reader, path string) (Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		for _, g := range e.grammars {
			claimed, dotted, reason := g.match(line)
			if !claimed {
				continue
			}
			if reason != "" {
				return Result{}, &FormatError{Path: path, Line: lineNo, Grammar: g.Name, Text: line, Reason: reason}
			}
			return Result{Path: path, Version: dotted, Status: Found, Grammar: g.Name, Line: lineNo}, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}

	return Result{Path: path, Version: Sentinel, Status: MissingMatch}, nil
}

// ExtractFirst tries each candidate header in order and returns the first
// Found result. When none is found the Sentinel is returned with status
// MissingMatch if any candidate existed, MissingFile otherwise.
func (e *Extractor) ExtractFirst(ctx context.Context, paths []string) (Result, error) {
	if len(paths) == 0 {
		return Result{}, fmt.Errorf("no header candidates given")
	}

	fallback := Result{Path: paths[0], Version: Sentinel, Status: MissingFile}
	for _, p := range paths {
		res, err := e.Extract(ctx, p)
		if err != nil {
			return Result{}, err
		}
		if res.Known() {
			return res, nil
		}
		if res.Status == MissingMatch && fallback.Status == MissingFile {
			fallback = res
		}
	}
	return fallback, nil
}
