// Package display holds the clock's drawable state and the surfaces that
// draw it.
//
// A Window owns an ordered list of TextLayers. Layers record whether they
// changed since the last frame; a Surface draws the whole window when it
// is dirty.
package display

import (
	"fmt"
	"image/color"
)

// Rect is a layer frame: origin plus size, in display pixels.
type Rect struct {
	X, Y int
	W, H int
}

// String formats the rect as (x, y, w, h).
func (r Rect) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", r.X, r.Y, r.W, r.H)
}

// Alignment positions text horizontally inside its layer.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// TextLayer is a single line of text drawn inside a frame.
type TextLayer struct {
	frame      Rect
	text       string
	alignment  Alignment
	foreground color.Color
	background color.Color
	dirty      bool
}

// NewTextLayer returns a left-aligned layer with black text on a clear
// background.
func NewTextLayer(frame Rect) *TextLayer {
	return &TextLayer{
		frame:      frame,
		foreground: color.Black,
		dirty:      true,
	}
}

// Frame returns the layer frame.
func (l *TextLayer) Frame() Rect { return l.frame }

// SetFrame moves or resizes the layer.
func (l *TextLayer) SetFrame(r Rect) {
	if r == l.frame {
		return
	}
	l.frame = r
	l.dirty = true
}

// SetX moves the layer horizontally.
func (l *TextLayer) SetX(x int) {
	r := l.frame
	r.X = x
	l.SetFrame(r)
}

// Text returns the displayed text.
func (l *TextLayer) Text() string { return l.text }

// SetText replaces the displayed text.
func (l *TextLayer) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.dirty = true
}

// Alignment returns the horizontal text alignment.
func (l *TextLayer) Alignment() Alignment { return l.alignment }

// SetAlignment sets the horizontal text alignment.
func (l *TextLayer) SetAlignment(a Alignment) {
	l.alignment = a
	l.dirty = true
}

// Foreground returns the text color.
func (l *TextLayer) Foreground() color.Color { return l.foreground }

// SetForeground sets the text color.
func (l *TextLayer) SetForeground(c color.Color) {
	l.foreground = c
	l.dirty = true
}

// Background returns the fill color; nil means clear.
func (l *TextLayer) Background() color.Color { return l.background }

// SetBackground sets the fill color. Pass nil for a clear background.
func (l *TextLayer) SetBackground(c color.Color) {
	l.background = c
	l.dirty = true
}

// Dirty reports whether the layer changed since it was last drawn.
func (l *TextLayer) Dirty() bool { return l.dirty }
