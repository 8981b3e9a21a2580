// Package diag parses formatter stderr output into positioned diagnostics.
//
// nimpretty reports errors as lines of the form
//
//	file.nim(12, 3) Error: invalid indentation
//
// with one-based row and column. Parse extracts those records; lines that do
// not match the pattern are dropped. Diagnostics use zero-based coordinates
// so they can be resolved directly against a buffer.
package diag

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/harrison/nimfmt/internal/editor"
)

// stdinName is the placeholder source name the formatter uses when it was
// not given a real file path.
const stdinName = "<standard input>"

// anonymousName stands in for the file name of an unsaved buffer.
const anonymousName = "<anonymous buffer>"

var lineRE = regexp.MustCompile(`^.*\((\d+), (\d+)\)\s+(.*)$`)

// Diagnostic is one parsed formatter error.
type Diagnostic struct {
	// File is the base name of the originating document.
	File string
	// Row and Col are zero-based buffer coordinates.
	Row int
	Col int
	// Message is the error text after the position.
	Message string
	// Span is the highlight range, filled in by Resolve.
	Span editor.Span
}

// Parse extracts diagnostics from raw stderr bytes. fileName is the
// originating document's path, or "" for an unsaved buffer; its base name
// replaces the formatter's stdin placeholder in the output. Non-matching
// lines are discarded. Order follows stderr line order; no deduplication.
func Parse(stderr []byte, fileName string) []Diagnostic {
	text := string(stderr)
	name := anonymousName
	if fileName != "" {
		name = filepath.Base(fileName)
		text = strings.ReplaceAll(text, stdinName, name)
	}

	var diags []Diagnostic
	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		m := lineRE.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		row, _ := strconv.Atoi(m[1])
		col, _ := strconv.Atoi(m[2])
		diags = append(diags, Diagnostic{
			File:    name,
			Row:     row - 1,
			Col:     col - 1,
			Message: m[3],
		})
	}
	return diags
}

// Resolve fills each diagnostic's Span against buf: the offset of (Row, Col)
// extended to the end of that line.
func Resolve(diags []Diagnostic, buf editor.Buffer) {
	for i := range diags {
		start := buf.TextPoint(diags[i].Row, diags[i].Col)
		diags[i].Span = editor.Span{Start: start, End: buf.LineEnd(start)}
	}
}

// ForRow returns the diagnostics on the given zero-based row, in order.
func ForRow(diags []Diagnostic, row int) []Diagnostic {
	var out []Diagnostic
	for _, d := range diags {
		if d.Row == row {
			out = append(out, d)
		}
	}
	return out
}

// Messages returns the diagnostic messages joined by newlines, the format
// used for the output panel.
func Messages(diags []Diagnostic) string {
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, d.Message)
	}
	return strings.Join(lines, "\n")
}
