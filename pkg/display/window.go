package display

import "image/color"

// Window is the root of the display: a fixed-size area with a background
// color and its layers, drawn back to front.
type Window struct {
	Width, Height int
	Background    color.Color

	layers []*TextLayer
	dirty  bool
}

// NewWindow returns an empty white window.
func NewWindow(width, height int) *Window {
	return &Window{
		Width:      width,
		Height:     height,
		Background: color.White,
		dirty:      true,
	}
}

// AddLayer appends l on top of the existing layers.
func (w *Window) AddLayer(l *TextLayer) {
	w.layers = append(w.layers, l)
	w.dirty = true
}

// RemoveLayer detaches l. It reports whether l was attached.
func (w *Window) RemoveLayer(l *TextLayer) bool {
	for i, existing := range w.layers {
		if existing == l {
			w.layers = append(w.layers[:i], w.layers[i+1:]...)
			w.dirty = true
			return true
		}
	}
	return false
}

// Layers returns the attached layers, back to front.
func (w *Window) Layers() []*TextLayer {
	return append([]*TextLayer(nil), w.layers...)
}

// Bounds returns the window area as a Rect at the origin.
func (w *Window) Bounds() Rect {
	return Rect{W: w.Width, H: w.Height}
}

// Dirty reports whether the window or any layer needs drawing.
func (w *Window) Dirty() bool {
	if w.dirty {
		return true
	}
	for _, l := range w.layers {
		if l.dirty {
			return true
		}
	}
	return false
}

// MarkClean records that the current state has been drawn.
func (w *Window) MarkClean() {
	w.dirty = false
	for _, l := range w.layers {
		l.dirty = false
	}
}

// Surface draws a window somewhere.
type Surface interface {
	// Render draws the whole window.
	Render(w *Window) error
	// Close releases the surface.
	Close() error
}
