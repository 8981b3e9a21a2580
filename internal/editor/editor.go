// Package editor defines the boundary between the formatting engine and a
// host text editor.
//
// The engine never talks to a concrete editor directly; it consumes the
// View/Window interfaces below, which cover buffer access and replacement,
// region highlighting, status messages, output panels, popups, and viewport
// state. A host adapter implements these against its own API. MemoryView and
// MemoryWindow provide a complete in-memory host used by tests.
package editor

// ViewID is an opaque identifier for an open document. Two views showing the
// same underlying buffer share an ID; diagnostics are keyed by it.
type ViewID string

// Span is a half-open byte offset range [Start, End) into a buffer.
type Span struct {
	Start int
	End   int
}

// Position is a viewport scroll position in host layout coordinates.
type Position struct {
	X float64
	Y float64
}

// RegionStyle selects how highlighted regions are drawn by the host.
type RegionStyle int

const (
	// RegionFill draws a filled background over the span.
	RegionFill RegionStyle = iota
	// RegionOutline draws an outline around the span.
	RegionOutline
	// RegionSquigglyUnderline draws a squiggly underline beneath the span.
	RegionSquigglyUnderline
)

// PopupOptions controls popup placement and dismissal.
type PopupOptions struct {
	// Location is the buffer offset the popup is anchored to.
	Location int
	// MaxWidth is the maximum popup width in layout units.
	MaxWidth int
	// HideOnMouseMove dismisses the popup when the pointer leaves it.
	HideOnMouseMove bool
}

// Buffer is read-only access to a document's text and coordinate system.
// Offsets are byte offsets; rows and columns are zero-based.
type Buffer interface {
	// Text returns the full buffer contents.
	Text() string
	// Size returns the buffer length in bytes.
	Size() int
	// TextPoint returns the offset of the given row and column, clamping
	// out-of-range coordinates to the nearest valid position.
	TextPoint(row, col int) int
	// RowCol returns the zero-based row and column containing the offset.
	RowCol(point int) (row, col int)
	// LineEnd returns the offset of the end of the line containing point,
	// not including the trailing newline.
	LineEnd(point int) int
}

// View is one open document plus the per-view UI surfaces the engine drives.
type View interface {
	Buffer

	ID() ViewID
	// FileName returns the document's path on disk, or "" if unsaved.
	FileName() string
	// Replace swaps the entire buffer contents. Hosts typically reset the
	// viewport scroll position as a side effect.
	Replace(text string)

	SetStatus(key, message string)
	EraseStatus(key string)

	// AddRegions draws named highlight regions; a second call with the same
	// key replaces the previous set.
	AddRegions(key string, spans []Span, style RegionStyle)
	EraseRegions(key string)

	ShowPopup(html string, opts PopupOptions)

	Viewport() Position
	SetViewport(pos Position)
}

// Window is the host surface shared across views.
type Window interface {
	// Folders returns the open project folders, in host order.
	Folders() []string
	// OutputPanel returns the named output panel, creating it if needed.
	OutputPanel(name string) Panel
	HidePanel(name string)
	// ErrorMessage shows a blocking modal error dialog.
	ErrorMessage(msg string)
	// RunWhenIdle schedules fn to run once the host finishes its current
	// command processing. Used to act after host-internal side effects such
	// as the scroll reset following a buffer replace.
	RunWhenIdle(fn func())
}

// Panel is a writable output panel.
type Panel interface {
	SetText(text string)
}

// Hooks are the event callbacks a host binds to its own notification API.
type Hooks struct {
	// PreSave fires before a document is written to disk.
	PreSave func(v View, w Window)
	// Hover fires when the pointer dwells over buffer text at point.
	Hover func(v View, w Window, point int)
	// Close fires after a document is closed.
	Close func(id ViewID)
}
