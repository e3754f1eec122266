package pc

// Text adapter layout.
const (
	MonoBase = 0x3B4
	MonoBuf  = 0xB0000
	CGABase  = 0x3D4
	CGABuf   = 0xB8000

	// text windows are 32 KiB on both adapters
	textWindowCells = 0x8000 / 2

	crtcCursorHigh = 14
	crtcCursorLow  = 15
)

// CRTC is a 6845 index/data register pair.
type CRTC struct {
	base  uint16
	index uint8
	regs  [32]uint8
}

func (c *CRTC) ReadPort(port uint16) uint8 {
	switch port {
	case c.base:
		return c.index
	case c.base + 1:
		return c.regs[c.index&0x1F]
	}
	return 0xFF
}

func (c *CRTC) WritePort(port uint16, v uint8) {
	switch port {
	case c.base:
		c.index = v
	case c.base + 1:
		c.regs[c.index&0x1F] = v
	}
}

// Cursor returns the cursor offset held in registers 14 and 15.
func (c *CRTC) Cursor() uint16 {
	return uint16(c.regs[crtcCursorHigh])<<8 | uint16(c.regs[crtcCursorLow])
}

func (c *CRTC) setCursor(pos uint16) {
	c.regs[crtcCursorHigh] = uint8(pos >> 8)
	c.regs[crtcCursorLow] = uint8(pos)
}

// region is a block of RAM decoded at a physical address.
type region struct {
	base  uint32
	cells []uint16
}

func (r *region) index(addr uint32) (int, bool) {
	if addr < r.base || addr&1 != 0 {
		return 0, false
	}
	i := int((addr - r.base) / 2)
	return i, i < len(r.cells)
}
