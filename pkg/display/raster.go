package display

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/slideclock/pkg/errors"
)

// DefaultFontSize matches the 42px bold face of the watch display.
const DefaultFontSize = 42

var (
	boldFontOnce sync.Once
	boldFont     *opentype.Font
	boldFontErr  error
)

func parsedBoldFont() (*opentype.Font, error) {
	boldFontOnce.Do(func() {
		boldFont, boldFontErr = opentype.Parse(gobold.TTF)
		if boldFontErr != nil {
			errors.Report(&errors.ClockError{
				Op:   "display.parsedBoldFont",
				Kind: errors.KindInit,
				Err:  boldFontErr,
			})
		}
	})
	return boldFont, boldFontErr
}

// NewBoldFace returns a new Go Bold face of the given pixel size. Faces are
// not safe for concurrent use; each surface gets its own.
func NewBoldFace(size float64) (font.Face, error) {
	f, err := parsedBoldFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RasterOption configures a RasterSurface.
type RasterOption func(*RasterSurface)

// WithFace draws text with face instead of the default bold face. The
// surface takes ownership and closes it.
func WithFace(face font.Face) RasterOption {
	return func(s *RasterSurface) { s.face = face }
}

// RasterSurface draws windows into an in-memory RGBA image.
type RasterSurface struct {
	img  *image.RGBA
	face font.Face
}

// NewRasterSurface returns a surface of the given pixel size.
func NewRasterSurface(width, height int, opts ...RasterOption) (*RasterSurface, error) {
	s := &RasterSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	for _, opt := range opts {
		opt(s)
	}
	if s.face == nil {
		face, err := NewBoldFace(DefaultFontSize)
		if err != nil {
			return nil, err
		}
		s.face = face
	}
	return s, nil
}

// Render implements Surface.
func (s *RasterSurface) Render(w *Window) error {
	bounds := s.img.Bounds()
	draw.Draw(s.img, bounds, image.NewUniform(orDefault(w.Background, color.White)), image.Point{}, draw.Src)

	for _, l := range w.layers {
		f := l.frame
		clip := image.Rect(f.X, f.Y, f.X+f.W, f.Y+f.H).Intersect(bounds)
		if clip.Empty() {
			continue
		}
		if bg := l.background; bg != nil {
			draw.Draw(s.img, clip, image.NewUniform(bg), image.Point{}, draw.Over)
		}
		if l.text == "" {
			continue
		}
		dst := s.img.SubImage(clip).(*image.RGBA)
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(orDefault(l.foreground, color.Black)),
			Face: s.face,
			Dot:  fixed.P(s.textOrigin(l)),
		}
		d.DrawString(l.text)
	}
	return nil
}

// textOrigin returns the baseline start of the layer's text, vertically
// centred in the frame.
func (s *RasterSurface) textOrigin(l *TextLayer) (int, int) {
	f := l.frame
	width := font.MeasureString(s.face, l.text).Round()
	x := f.X
	switch l.alignment {
	case AlignCenter:
		x += (f.W - width) / 2
	case AlignRight:
		x += f.W - width
	}
	m := s.face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	y := f.Y + (f.H-(ascent+descent))/2 + ascent
	return x, y
}

// Snapshot returns a copy of the last rendered frame.
func (s *RasterSurface) Snapshot() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// WritePNG encodes the last rendered frame as PNG.
func (s *RasterSurface) WritePNG(w io.Writer) error {
	return png.Encode(w, s.img)
}

// Close implements Surface.
func (s *RasterSurface) Close() error {
	if s.face == nil {
		return nil
	}
	err := s.face.Close()
	s.face = nil
	return err
}

func orDefault(c, fallback color.Color) color.Color {
	if c == nil {
		return fallback
	}
	return c
}
