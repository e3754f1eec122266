//go:build !baremetal

package host

import (
	"image"
	"image/color"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"kcons/drivers/cga"
)

// cgaPalette maps the 4-bit attribute colors to RGB.
var cgaPalette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF}, {0x00, 0x00, 0xAA, 0xFF}, {0x00, 0xAA, 0x00, 0xFF}, {0x00, 0xAA, 0xAA, 0xFF},
	{0xAA, 0x00, 0x00, 0xFF}, {0xAA, 0x00, 0xAA, 0xFF}, {0xAA, 0x55, 0x00, 0xFF}, {0xAA, 0xAA, 0xAA, 0xFF},
	{0x55, 0x55, 0x55, 0xFF}, {0x55, 0x55, 0xFF, 0xFF}, {0x55, 0xFF, 0x55, 0xFF}, {0x55, 0xFF, 0xFF, 0xFF},
	{0xFF, 0x55, 0x55, 0xFF}, {0xFF, 0x55, 0xFF, 0xFF}, {0xFF, 0xFF, 0x55, 0xFF}, {0xFF, 0xFF, 0xFF, 0xFF},
}

// glyph geometry for proggy TinySZ8pt7b
type cellFont struct {
	font   *tinyfont.Font
	width  int16
	height int16
	offset int16
}

func defaultFont() cellFont {
	f := cellFont{font: &proggy.TinySZ8pt7b, width: 6, height: 12, offset: 9}
	if _, outbox := tinyfont.LineWidth(f.font, "0"); outbox > 0 {
		f.width = int16(outbox)
	}
	return f
}

// rgbaDisplay is a drivers.Displayer over an in-memory image.
type rgbaDisplay struct {
	img *image.RGBA
}

var _ drivers.Displayer = rgbaDisplay{}

func (d rgbaDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d rgbaDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{int(x), int(y)}.In(d.img.Bounds())) {
		return
	}
	d.img.SetRGBA(int(x), int(y), c)
}

func (d rgbaDisplay) Display() error { return nil }

func (d rgbaDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	r := image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)).Intersect(d.img.Bounds())
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			d.img.SetRGBA(px, py, c)
		}
	}
	return nil
}

// textScreen renders the adapter's text memory. Only cells that changed
// since the last render are redrawn.
type textScreen struct {
	d     rgbaDisplay
	f     cellFont
	cells []uint16
	shown []uint16

	cursorShown int
	drawn       bool
}

func newTextScreen(f cellFont) *textScreen {
	w, h := int(f.width)*cga.Cols, int(f.height)*cga.Rows
	return &textScreen{
		d:     rgbaDisplay{img: image.NewRGBA(image.Rect(0, 0, w, h))},
		f:     f,
		cells: make([]uint16, cga.Size),
		shown: make([]uint16, cga.Size),
	}
}

// Image returns the rendered screen.
func (s *textScreen) Image() *image.RGBA { return s.d.img }

// render copies cells and the cursor in and redraws what changed. It
// reports whether the image was modified.
func (s *textScreen) render(cells []uint16, cursor int, cursorOn bool) bool {
	copy(s.cells, cells)
	if !cursorOn {
		cursor = -1
	}

	dirty := false
	for i, v := range s.cells {
		if s.drawn && v == s.shown[i] && i != cursor && i != s.cursorShown {
			continue
		}
		s.drawCell(i, v, i == cursor)
		s.shown[i] = v
		dirty = true
	}
	s.cursorShown = cursor
	s.drawn = true
	return dirty
}

func (s *textScreen) drawCell(i int, v uint16, cursor bool) {
	x := int16(i%cga.Cols) * s.f.width
	y := int16(i/cga.Cols) * s.f.height
	attr := uint8(v >> 8)
	fg := cgaPalette[attr&0x0F]
	bg := cgaPalette[(attr>>4)&0x07]

	_ = s.d.FillRectangle(x, y, s.f.width, s.f.height, bg)
	if ch := rune(v & 0xFF); ch > ' ' && ch < 0x7F {
		tinyfont.DrawChar(s.d, s.f.font, x, y+s.f.offset, ch, fg)
	}
	if cursor {
		_ = s.d.FillRectangle(x, y+s.f.height-2, s.f.width, 2, fg)
	}
}

// printerPane shows parallel port output as a scrolling paper roll.
type printerPane struct {
	d      rgbaDisplay
	scroll int16
	term   *tinyterm.Terminal
	dirty  bool
}

var (
	paperColor = color.RGBA{0xF4, 0xEE, 0xD8, 0xFF}
	inkColor   = color.RGBA{0x20, 0x20, 0x30, 0xFF}
)

func newPrinterPane(f cellFont, rows int) *printerPane {
	w, h := int(f.width)*cga.Cols, int(f.height)*rows
	p := &printerPane{d: rgbaDisplay{img: image.NewRGBA(image.Rect(0, 0, w, h))}}
	_ = p.d.FillRectangle(0, 0, int16(w), int16(h), paperColor)
	p.term = tinyterm.NewTerminal(p)
	p.term.Configure(&tinyterm.Config{
		Font:       f.font,
		FontHeight: f.height,
		FontOffset: f.offset,
	})
	p.dirty = true
	return p
}

func (p *printerPane) Size() (x, y int16) { return p.d.Size() }

// SetPixel inks a glyph pixel whatever color the terminal asked for.
func (p *printerPane) SetPixel(x, y int16, _ color.RGBA) { p.d.SetPixel(x, y, inkColor) }

func (p *printerPane) Display() error { return nil }

func (p *printerPane) SetScroll(line int16) { p.scroll = line }

func (p *printerPane) SetRotation(drivers.Rotation) error { return nil }

func (p *printerPane) FillRectangle(x, y, w, h int16, _ color.RGBA) error {
	return p.d.FillRectangle(x, y, w, h, paperColor)
}

// Write feeds printed bytes to the terminal.
func (p *printerPane) Write(b []byte) (int, error) {
	p.dirty = true
	return p.term.Write(b)
}

// snapshot copies the pane into dst with the scroll offset applied, so
// row scroll of the backing image appears at the top.
func (p *printerPane) snapshot(dst *image.RGBA) {
	src := p.d.img
	h := src.Bounds().Dy()
	stride := src.Stride
	off := int(p.scroll)
	if off < 0 || off >= h {
		off = 0
	}
	n := copy(dst.Pix, src.Pix[off*stride:])
	copy(dst.Pix[n:], src.Pix[:off*stride])
	p.dirty = false
}
