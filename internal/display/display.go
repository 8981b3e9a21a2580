// Package display provides terminal output formatting for the nimfmt CLI:
// colorized diagnostic listings and warning messages.
//
// Diagnostics print one per line as "path:row:col: message" with one-based
// coordinates. Color is applied only when the destination is a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/nimfmt/internal/diag"
)

// UseColor reports whether output to w should be colorized: w must be a TTY
// and NO_COLOR must not be set.
func UseColor(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// RenderDiagnostics writes diagnostics one per line as
// "path:row:col: message" with one-based row and column.
func RenderDiagnostics(out io.Writer, path string, diags []diag.Diagnostic, colorize bool) {
	location := color.New(color.FgCyan)
	message := color.New(color.FgRed)

	for _, d := range diags {
		if colorize {
			fmt.Fprintf(out, "%s %s\n",
				location.Sprintf("%s:%d:%d:", path, d.Row+1, d.Col+1),
				message.Sprint(d.Message))
		} else {
			fmt.Fprintf(out, "%s:%d:%d: %s\n", path, d.Row+1, d.Col+1, d.Message)
		}
	}
}

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}
