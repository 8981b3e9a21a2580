// Package format orchestrates formatting runs: it drives the command runner
// over a document's buffer, applies the rewritten output, and translates
// formatter failures into host-visible diagnostics.
//
// A run is synchronous and moves through idle -> running -> success|failed.
// On success the buffer is replaced only when the text actually changed and
// the viewport is restored once the host goes idle. On failure the stderr
// output is parsed into diagnostics which are stored per view, drawn as
// squiggly underlines, summarized in the status bar, and listed in an output
// panel. Any other error surfaces as a blocking dialog.
package format

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/nimfmt/internal/config"
	"github.com/harrison/nimfmt/internal/diag"
	"github.com/harrison/nimfmt/internal/editor"
	"github.com/harrison/nimfmt/internal/logger"
	"github.com/harrison/nimfmt/internal/runner"
)

// statusKey keys the status message and highlight regions owned by nimfmt.
const statusKey = "nimfmt"

// panelName is the output panel formatter errors are written to.
const panelName = "output.nimfmt"

// errorTemplate renders one diagnostic in the hover popup; the row is shown
// one-based.
const errorTemplate = "<div><b>%d:</b> %s</div>"

const popupMaxWidth = 600

// FormatterError reports that the external formatter rejected the input.
// The buffer is left unmodified and Diagnostics carries the parsed errors.
type FormatterError struct {
	Diagnostics []diag.Diagnostic
	ExitCode    int
}

func (e *FormatterError) Error() string {
	return "error running formatter"
}

// Formatter owns per-view diagnostic state and runs the configured formatter
// command. One Formatter serves all views of a host session.
type Formatter struct {
	cfg *config.Config
	log logger.Logger

	// viewErrors maps a view to the diagnostics of its last failed run.
	// Replaced wholesale on each attempt; at most one set per view.
	viewErrors map[editor.ViewID][]diag.Diagnostic
}

// New creates a Formatter. log may be nil for silent operation.
func New(cfg *config.Config, log logger.Logger) *Formatter {
	if log == nil {
		log = logger.Nop{}
	}
	return &Formatter{
		cfg:        cfg,
		log:        log,
		viewErrors: make(map[editor.ViewID][]diag.Diagnostic),
	}
}

// Format runs the formatter over the whole buffer of view and applies the
// result. It blocks until the subprocess completes.
//
// On formatter failure it returns a *FormatterError after displaying the
// diagnostics; on any other failure it shows a blocking error dialog and
// returns the underlying error. In both cases the buffer is unmodified.
func (f *Formatter) Format(ctx context.Context, view editor.View, window editor.Window) error {
	// A new run always discards the view's stored diagnostics first,
	// regardless of outcome.
	delete(f.viewErrors, view.ID())

	prevViewport := view.Viewport()

	err := f.run(ctx, view, window)
	var ferr *FormatterError
	switch {
	case err == nil:
	case errors.As(err, &ferr):
		f.viewErrors[view.ID()] = ferr.Diagnostics
		f.log.LogInfo(fmt.Sprintf("%s failed with %d error(s)", f.cfg.Cmd[0], len(ferr.Diagnostics)))
		return err
	default:
		window.ErrorMessage(err.Error())
		f.log.LogError(err.Error())
		return err
	}

	// Replacing the buffer resets the host's scroll position after this
	// command returns; restoring must run later, once the host is idle.
	window.RunWhenIdle(func() {
		view.SetViewport(prevViewport)
	})
	return nil
}

func (f *Formatter) run(ctx context.Context, view editor.View, window editor.Window) error {
	f.clearErrors(view)

	cmd := &runner.Command{
		Cmd:     f.cfg.Cmd,
		Dir:     runner.GuessWorkDir(view.FileName(), window.Folders()),
		Timeout: f.cfg.Timeout,
		Logger:  f.log,
	}

	res, err := cmd.Run(ctx, view.Text())
	if err != nil {
		return err
	}

	if res.Failed() {
		diags := diag.Parse([]byte(res.Stderr), view.FileName())
		diag.Resolve(diags, view)
		f.showErrors(view, window, diags, res.ExitCode, cmd.Name())
		return &FormatterError{Diagnostics: diags, ExitCode: res.ExitCode}
	}

	f.hideErrorPanel(window)

	// Replacing erases the buffer's redo history even when the text is
	// identical, so only touch it when the formatter changed something.
	if view.Text() != res.Output {
		view.Replace(res.Output)
		f.log.LogDebug(fmt.Sprintf("%s rewrote %q", cmd.Name(), view.FileName()))
	}
	return nil
}

// clearErrors removes previously displayed errors from the view.
func (f *Formatter) clearErrors(view editor.View) {
	view.EraseStatus(statusKey)
	view.EraseRegions(statusKey)
}

// hideErrorPanel hides any previously displayed error panel.
func (f *Formatter) hideErrorPanel(window editor.Window) {
	window.HidePanel(panelName)
}

// showErrors displays the diagnostics of a failed run: status message,
// output panel, and squiggly-underlined regions.
func (f *Formatter) showErrors(view editor.View, window editor.Window, diags []diag.Diagnostic, exitCode int, name string) {
	view.SetStatus(statusKey, fmt.Sprintf("%s failed with return code %d", name, exitCode))

	window.OutputPanel(panelName).SetText(diag.Messages(diags))

	spans := make([]editor.Span, 0, len(diags))
	for _, d := range diags {
		spans = append(spans, d.Span)
	}
	view.AddRegions(statusKey, spans, editor.RegionSquigglyUnderline)
}

// HandleSave formats the document before it is written to disk, gated by the
// format_on_save setting.
func (f *Formatter) HandleSave(ctx context.Context, view editor.View, window editor.Window) {
	if !f.cfg.FormatOnSave {
		return
	}
	f.Format(ctx, view, window)
}

// HandleHover shows a popup listing the stored diagnostics on the hovered
// row, anchored at point. No popup is shown for rows without diagnostics.
func (f *Formatter) HandleHover(view editor.View, point int) {
	diags := f.viewErrors[view.ID()]
	if len(diags) == 0 {
		return
	}

	row, _ := view.RowCol(point)
	rowDiags := diag.ForRow(diags, row)
	if len(rowDiags) == 0 {
		return
	}

	lines := make([]string, 0, len(rowDiags))
	for _, d := range rowDiags {
		lines = append(lines, fmt.Sprintf(errorTemplate, d.Row+1, d.Message))
	}
	view.ShowPopup(strings.Join(lines, "\n"), editor.PopupOptions{
		Location:        point,
		MaxWidth:        popupMaxWidth,
		HideOnMouseMove: true,
	})
}

// CloseView drops the diagnostic state of a closed document.
func (f *Formatter) CloseView(id editor.ViewID) {
	delete(f.viewErrors, id)
}

// Diagnostics returns the stored diagnostics of the view's last failed run,
// or nil.
func (f *Formatter) Diagnostics(id editor.ViewID) []diag.Diagnostic {
	return f.viewErrors[id]
}

// Hooks returns the event bindings a host registers to drive this formatter
// from its save, hover, and close notifications.
func (f *Formatter) Hooks(ctx context.Context) editor.Hooks {
	return editor.Hooks{
		PreSave: func(v editor.View, w editor.Window) {
			f.HandleSave(ctx, v, w)
		},
		Hover: func(v editor.View, w editor.Window, point int) {
			f.HandleHover(v, point)
		},
		Close: f.CloseView,
	}
}
