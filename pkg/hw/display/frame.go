package display

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/devices/ssd1306/image1bit"
)

// Committer receives a complete frame.
// It is satisfied by *ssd1306.Dev.
type Committer interface {
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
}

// Frame is a 1-bit framebuffer Surface.
type Frame struct {
	Committer Committer

	img  *image1bit.VerticalLSB
	face font.Face
}

// NewFrame creates a Frame of the given bounds.
func NewFrame(bounds image.Rectangle, c Committer) *Frame {
	return &Frame{
		Committer: c,
		img:       image1bit.NewVerticalLSB(bounds),
		face:      basicfont.Face7x13,
	}
}

// Clear implements Surface.
func (f *Frame) Clear() {
	for i := range f.img.Pix {
		f.img.Pix[i] = 0
	}
}

// Rect implements Surface.
func (f *Frame) Rect(x, y, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	x1, y1 := x+w-1, y+h-1
	f.Line(x, y, x1, y)
	f.Line(x, y1, x1, y1)
	f.Line(x, y, x, y1)
	f.Line(x1, y, x1, y1)
}

// Line implements Surface using Bresenham's algorithm.
func (f *Frame) Line(x0, y0, x1, y1 int) {
	dx, sx := abs(x1-x0), 1
	if x0 > x1 {
		sx = -1
	}
	dy, sy := -abs(y1-y0), 1
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		f.img.SetBit(x0, y0, image1bit.On)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Text implements Surface.
func (f *Frame) Text(s string, x, y int) {
	d := font.Drawer{
		Dst:  f.img,
		Src:  &image.Uniform{C: image1bit.On},
		Face: f.face,
		Dot:  fixed.P(x, y+f.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// Flush implements Surface.
func (f *Frame) Flush() error {
	if f.Committer == nil {
		return nil
	}
	return f.Committer.Draw(f.img.Bounds(), f.img, f.img.Bounds().Min)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
