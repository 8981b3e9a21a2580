package editor

import (
	"strings"

	"github.com/google/uuid"
)

// PopupRecord captures one ShowPopup call for inspection.
type PopupRecord struct {
	HTML string
	Opts PopupOptions
}

type regionSet struct {
	spans []Span
	style RegionStyle
}

// MemoryView is an in-memory View implementation. It models the host
// behaviors the engine depends on, including the scroll reset that real
// hosts perform on a whole-buffer replace.
type MemoryView struct {
	id       ViewID
	fileName string
	text     string

	statuses map[string]string
	regions  map[string]regionSet
	viewport Position

	// Popups holds every popup shown on this view, oldest first.
	Popups []PopupRecord
	// Replaced counts Replace calls, including no-op rewrites.
	Replaced int
}

// NewMemoryView creates a view over text. fileName may be "" for an unsaved
// buffer; the view ID is always a fresh uuid, matching hosts where identity
// is unrelated to the path.
func NewMemoryView(fileName, text string) *MemoryView {
	return &MemoryView{
		id:       ViewID(uuid.NewString()),
		fileName: fileName,
		text:     text,
		statuses: make(map[string]string),
		regions:  make(map[string]regionSet),
	}
}

func (v *MemoryView) ID() ViewID       { return v.id }
func (v *MemoryView) FileName() string { return v.fileName }
func (v *MemoryView) Text() string     { return v.text }
func (v *MemoryView) Size() int        { return len(v.text) }

// Replace swaps the buffer contents and resets the viewport to the origin,
// mirroring the scroll reset real hosts apply after a full-buffer edit.
func (v *MemoryView) Replace(text string) {
	v.text = text
	v.Replaced++
	v.viewport = Position{}
}

func (v *MemoryView) TextPoint(row, col int) int {
	lines := strings.Split(v.text, "\n")
	if row < 0 {
		row = 0
	}
	if row >= len(lines) {
		row = len(lines) - 1
	}
	start := 0
	for i := 0; i < row; i++ {
		start += len(lines[i]) + 1
	}
	if col < 0 {
		col = 0
	}
	if col > len(lines[row]) {
		col = len(lines[row])
	}
	return start + col
}

func (v *MemoryView) RowCol(point int) (int, int) {
	point = v.clamp(point)
	row, lineStart := 0, 0
	for i := 0; i < point; i++ {
		if v.text[i] == '\n' {
			row++
			lineStart = i + 1
		}
	}
	return row, point - lineStart
}

func (v *MemoryView) LineEnd(point int) int {
	point = v.clamp(point)
	if i := strings.IndexByte(v.text[point:], '\n'); i >= 0 {
		return point + i
	}
	return len(v.text)
}

func (v *MemoryView) clamp(point int) int {
	if point < 0 {
		return 0
	}
	if point > len(v.text) {
		return len(v.text)
	}
	return point
}

func (v *MemoryView) SetStatus(key, message string) { v.statuses[key] = message }
func (v *MemoryView) EraseStatus(key string)        { delete(v.statuses, key) }

// Status returns the current status message for key, or "".
func (v *MemoryView) Status(key string) string { return v.statuses[key] }

func (v *MemoryView) AddRegions(key string, spans []Span, style RegionStyle) {
	v.regions[key] = regionSet{spans: spans, style: style}
}

func (v *MemoryView) EraseRegions(key string) { delete(v.regions, key) }

// Regions returns the highlight spans drawn under key, or nil.
func (v *MemoryView) Regions(key string) []Span { return v.regions[key].spans }

// RegionStyleFor returns the style the regions under key were drawn with.
func (v *MemoryView) RegionStyleFor(key string) RegionStyle { return v.regions[key].style }

func (v *MemoryView) ShowPopup(html string, opts PopupOptions) {
	v.Popups = append(v.Popups, PopupRecord{HTML: html, Opts: opts})
}

func (v *MemoryView) Viewport() Position       { return v.viewport }
func (v *MemoryView) SetViewport(pos Position) { v.viewport = pos }

// MemoryPanel is an in-memory output panel.
type MemoryPanel struct {
	text string
}

func (p *MemoryPanel) SetText(text string) { p.text = text }

// Text returns the panel contents.
func (p *MemoryPanel) Text() string { return p.text }

// MemoryWindow is an in-memory Window. RunWhenIdle callbacks are queued and
// executed in order by Flush, letting tests control when "idle" happens.
type MemoryWindow struct {
	folders []string
	panels  map[string]*MemoryPanel
	hidden  map[string]bool
	idle    []func()

	// Modals holds every blocking error dialog message, oldest first.
	Modals []string
}

// NewMemoryWindow creates a window with the given project folders.
func NewMemoryWindow(folders ...string) *MemoryWindow {
	return &MemoryWindow{
		folders: folders,
		panels:  make(map[string]*MemoryPanel),
		hidden:  make(map[string]bool),
	}
}

func (w *MemoryWindow) Folders() []string { return w.folders }

func (w *MemoryWindow) OutputPanel(name string) Panel {
	p, ok := w.panels[name]
	if !ok {
		p = &MemoryPanel{}
		w.panels[name] = p
	}
	w.hidden[name] = false
	return p
}

func (w *MemoryWindow) HidePanel(name string) { w.hidden[name] = true }

// PanelHidden reports whether the named panel is hidden. Panels that were
// never created count as hidden.
func (w *MemoryWindow) PanelHidden(name string) bool {
	if _, ok := w.panels[name]; !ok {
		return true
	}
	return w.hidden[name]
}

// PanelText returns the contents of the named panel, or "".
func (w *MemoryWindow) PanelText(name string) string {
	if p, ok := w.panels[name]; ok {
		return p.text
	}
	return ""
}

func (w *MemoryWindow) ErrorMessage(msg string) { w.Modals = append(w.Modals, msg) }

func (w *MemoryWindow) RunWhenIdle(fn func()) { w.idle = append(w.idle, fn) }

// Flush runs all queued idle callbacks in order and clears the queue.
func (w *MemoryWindow) Flush() {
	queued := w.idle
	w.idle = nil
	for _, fn := range queued {
		fn()
	}
}
