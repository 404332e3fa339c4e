package display

import (
	"github.com/gdamore/tcell/v2"
)

// TerminalSurface draws windows as text cells on a terminal screen. The
// window's pixel grid is scaled onto the screen's cell grid, so a layer
// sliding by its full width leaves the screen entirely.
type TerminalSurface struct {
	screen tcell.Screen
	style  tcell.Style
}

// NewTerminalSurface initialises screen, or the controlling terminal when
// screen is nil, and returns a surface drawing on it.
func NewTerminalSurface(screen tcell.Screen) (*TerminalSurface, error) {
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()
	style := tcell.StyleDefault.Bold(true)
	screen.SetStyle(tcell.StyleDefault)
	return &TerminalSurface{screen: screen, style: style}, nil
}

// Render implements Surface.
func (s *TerminalSurface) Render(w *Window) error {
	cols, rows := s.screen.Size()
	s.screen.Clear()
	if w.Width <= 0 || w.Height <= 0 || cols == 0 || rows == 0 {
		s.screen.Show()
		return nil
	}

	for _, l := range w.layers {
		f := l.frame
		text := []rune(l.text)
		left := f.X * cols / w.Width
		width := f.W * cols / w.Width
		row := (f.Y + f.H/2) * rows / w.Height
		if row < 0 || row >= rows {
			continue
		}

		start := left
		switch l.alignment {
		case AlignCenter:
			start += (width - len(text)) / 2
		case AlignRight:
			start += width - len(text)
		}
		for i, r := range text {
			col := start + i
			if col < 0 || col >= cols || col < left || col >= left+width {
				continue
			}
			s.screen.SetContent(col, row, r, nil, s.style)
		}
	}
	s.screen.Show()
	return nil
}

// WaitQuit blocks until Esc, Ctrl-C or q is pressed, or the screen is
// closed.
func (s *TerminalSurface) WaitQuit() {
	for {
		switch ev := s.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return
			}
		case *tcell.EventResize:
			s.screen.Sync()
		}
	}
}

// Close implements Surface.
func (s *TerminalSurface) Close() error {
	s.screen.Fini()
	return nil
}
