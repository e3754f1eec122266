package pc

// 8259A register ports.
const (
	PIC1Cmd  = 0x20
	PIC1Data = 0x21
	PIC2Cmd  = 0xA0
	PIC2Data = 0xA1
)

const cascadeIRQ = 2

// pic8259 models one controller. Only what the console programs is kept:
// the ICW sequence, IMR, IRR and the OCW3 register select.
type pic8259 struct {
	imr uint8
	irr uint8

	offset  uint8
	cascade uint8
	mode    uint8 // ICW4

	icw        int // next ICW expected, 0 when operational
	needICW4   bool
	single     bool
	ready      bool
	specialMsk bool
	readISR    bool
}

func (p *pic8259) writeCmd(v uint8) {
	switch {
	case v&0x10 != 0:
		// ICW1 restarts initialization and clears the mask.
		p.imr = 0
		p.irr = 0
		p.needICW4 = v&0x01 != 0
		p.single = v&0x02 != 0
		p.ready = false
		p.icw = 2
	case v&0x08 != 0:
		// OCW3: 0ef01prs
		if v&0x40 != 0 {
			p.specialMsk = v&0x20 != 0
		}
		if v&0x02 != 0 {
			p.readISR = v&0x01 != 0
		}
	default:
		// OCW2. Auto-EOI is the only mode the console uses; nothing is in service.
	}
}

func (p *pic8259) writeData(v uint8) {
	switch p.icw {
	case 2:
		p.offset = v &^ 0x07
		if p.single {
			p.icw = 4
		} else {
			p.icw = 3
		}
		if p.single && !p.needICW4 {
			p.finish()
		}
	case 3:
		p.cascade = v
		if p.needICW4 {
			p.icw = 4
		} else {
			p.finish()
		}
	case 4:
		p.mode = v
		p.finish()
	default:
		p.imr = v
	}
}

func (p *pic8259) finish() {
	p.icw = 0
	p.ready = true
}

func (p *pic8259) readCmd() uint8 {
	if p.readISR {
		return 0
	}
	return p.irr
}

// lowest returns the highest-priority unmasked request.
func (p *pic8259) lowest() (uint8, bool) {
	pending := p.irr &^ p.imr
	for i := uint8(0); i < 8; i++ {
		if pending&(1<<i) != 0 {
			return i, true
		}
	}
	return 0, false
}

// PIC is a cascaded master/slave pair.
type PIC struct {
	master pic8259
	slave  pic8259
}

func newPIC() *PIC {
	p := &PIC{}
	p.master.imr = 0xFF
	p.slave.imr = 0xFF
	return p
}

func (p *PIC) ReadPort(port uint16) uint8 {
	switch port {
	case PIC1Cmd:
		return p.master.readCmd()
	case PIC1Data:
		return p.master.imr
	case PIC2Cmd:
		return p.slave.readCmd()
	case PIC2Data:
		return p.slave.imr
	}
	return 0xFF
}

func (p *PIC) WritePort(port uint16, v uint8) {
	switch port {
	case PIC1Cmd:
		p.master.writeCmd(v)
	case PIC1Data:
		p.master.writeData(v)
	case PIC2Cmd:
		p.slave.writeCmd(v)
	case PIC2Data:
		p.slave.writeData(v)
	}
}

// Raise latches an edge on irq.
func (p *PIC) Raise(irq uint8) {
	if irq < 8 {
		p.master.irr |= 1 << irq
		return
	}
	p.slave.irr |= 1 << (irq - 8)
	p.master.irr |= 1 << cascadeIRQ
}

// Mask returns both IMRs as one 16-bit value, slave in the high byte.
func (p *PIC) Mask() uint16 {
	return uint16(p.master.imr) | uint16(p.slave.imr)<<8
}

// Ready reports whether both controllers finished their ICW sequence.
func (p *PIC) Ready() bool { return p.master.ready && p.slave.ready }

// Vector returns the interrupt vector irq is delivered on.
func (p *PIC) Vector(irq uint8) uint8 {
	if irq < 8 {
		return p.master.offset + irq
	}
	return p.slave.offset + irq - 8
}

// Mode returns the ICW4 values written to master and slave.
func (p *PIC) Mode() (master, slave uint8) { return p.master.mode, p.slave.mode }

// Cascade returns the ICW3 values written to master and slave.
func (p *PIC) Cascade() (master, slave uint8) { return p.master.cascade, p.slave.cascade }

// SpecialMask reports whether OCW3 left the master in special mask mode.
func (p *PIC) SpecialMask() bool { return p.master.specialMsk }

// next resolves and acknowledges the next deliverable request. Requests
// stay latched while the pair is not initialized.
func (p *PIC) next() (uint8, bool) {
	if !p.master.ready {
		return 0, false
	}
	i, ok := p.master.lowest()
	if !ok {
		return 0, false
	}
	if i != cascadeIRQ {
		p.master.irr &^= 1 << i
		return i, true
	}
	if !p.slave.ready {
		return 0, false
	}
	j, ok := p.slave.lowest()
	if !ok {
		p.master.irr &^= 1 << cascadeIRQ
		return p.next()
	}
	p.slave.irr &^= 1 << j
	if p.slave.irr&^p.slave.imr == 0 {
		p.master.irr &^= 1 << cascadeIRQ
	}
	return 8 + j, true
}
