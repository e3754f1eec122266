// Package cga drives a CGA/MDA compatible text display through its memory
// mapped cell buffer and 6845 cursor registers.
package cga

import "kcons/hal"

const (
	MonoBase = 0x3B4
	MonoBuf  = 0xB0000
	CGABase  = 0x3D4
	CGABuf   = 0xB8000

	Rows = 25
	Cols = 80
	Size = Rows * Cols

	// DefaultAttr is light grey on black.
	DefaultAttr = 0x0700

	probeValue = 0xA55A

	regCursorHigh = 14
	regCursorLow  = 15
)

// Display is a text screen with a linear cursor.
type Display struct {
	mem   hal.Memory
	ports hal.Ports

	buf  uint32 // physical base of the cell buffer
	crtc uint16 // 6845 index register
	pos  uint16
}

// New returns an uninitialized display; call Init before PutChar.
func New(mem hal.Memory, ports hal.Ports) *Display {
	return &Display{mem: mem, ports: ports}
}

// Init picks the adapter with a read-after-write probe of the color
// buffer and loads the cursor position left by firmware.
func (d *Display) Init() {
	was := d.mem.Load16(CGABuf)
	d.mem.Store16(CGABuf, probeValue)
	if d.mem.Load16(CGABuf) != probeValue {
		d.buf = MonoBuf
		d.crtc = MonoBase
	} else {
		d.mem.Store16(CGABuf, was)
		d.buf = CGABuf
		d.crtc = CGABase
	}

	d.ports.Out8(d.crtc, regCursorHigh)
	pos := uint16(d.ports.In8(d.crtc+1)) << 8
	d.ports.Out8(d.crtc, regCursorLow)
	pos |= uint16(d.ports.In8(d.crtc + 1))

	// firmware may leave the cursor parked off screen
	if pos >= Size {
		pos = Size - Cols
	}
	d.pos = pos
}

// Mono reports whether the monochrome adapter was selected.
func (d *Display) Mono() bool { return d.crtc == MonoBase }

// Cursor returns the cursor cell offset.
func (d *Display) Cursor() int { return int(d.pos) }

// Cell returns the character and attribute word at offset i.
func (d *Display) Cell(i int) uint16 {
	return d.mem.Load16(d.cellAddr(i))
}

func (d *Display) cellAddr(i int) uint32 { return d.buf + uint32(2*i) }

// PutChar writes c at the cursor. The low byte is the character; a zero
// high byte selects DefaultAttr.
func (d *Display) PutChar(c int) {
	if c&^0xFF == 0 {
		c |= DefaultAttr
	}

	switch c & 0xFF {
	case '\b':
		if d.pos > 0 {
			d.pos--
			d.mem.Store16(d.cellAddr(int(d.pos)), uint16(c&^0xFF)|' ')
		}
	case '\n':
		d.pos += Cols
		d.pos -= d.pos % Cols
	case '\r':
		d.pos -= d.pos % Cols
	default:
		d.mem.Store16(d.cellAddr(int(d.pos)), uint16(c))
		d.pos++
	}

	if d.pos >= Size {
		d.mem.Move16(d.buf, d.cellAddr(Cols), Size-Cols)
		for i := Size - Cols; i < Size; i++ {
			d.mem.Store16(d.cellAddr(i), DefaultAttr|' ')
		}
		d.pos -= Cols
	}

	d.ports.Out8(d.crtc, regCursorHigh)
	d.ports.Out8(d.crtc+1, uint8(d.pos>>8))
	d.ports.Out8(d.crtc, regCursorLow)
	d.ports.Out8(d.crtc+1, uint8(d.pos))
}
