//go:build baremetal && 386

package hal

import "unsafe"

// Implemented in portio_386.s.
func inb(port uint16) uint8
func outb(port uint16, v uint8)
func inw(port uint16) uint16
func outw(port uint16, v uint16)
func insl(port uint16, addr *uint32, n int)
func sti()
func cli()
func hlt()
func stihlt()
func readEflags() uint32

const eflagsIF = 0x200

// debugPort is the Bochs/QEMU debug console.
const debugPort = 0xE9

type pcHAL struct {
	logger debugLogger
	traps  *trapTable
}

// New returns the HAL of the machine we are running on. Physical memory is
// expected to be identity mapped.
func New() HAL {
	return &pcHAL{traps: &trapTable{}}
}

func (h *pcHAL) Logger() Logger { return h.logger }
func (h *pcHAL) Ports() Ports   { return pcPorts{} }
func (h *pcHAL) Memory() Memory { return physMem{} }
func (h *pcHAL) CPU() CPU       { return pcCPU{} }
func (h *pcHAL) Traps() Traps   { return h.traps }

type pcPorts struct{}

func (pcPorts) In8(port uint16) uint8       { return inb(port) }
func (pcPorts) Out8(port uint16, v uint8)   { outb(port, v) }
func (pcPorts) In16(port uint16) uint16     { return inw(port) }
func (pcPorts) Out16(port uint16, v uint16) { outw(port, v) }

func (pcPorts) InsL(port uint16, dst []uint32) {
	if len(dst) == 0 {
		return
	}
	insl(port, &dst[0], len(dst))
}

type physMem struct{}

func cell(addr uint32) *uint16 {
	return (*uint16)(unsafe.Pointer(uintptr(addr)))
}

func (physMem) Load16(addr uint32) uint16     { return *cell(addr) }
func (physMem) Store16(addr uint32, v uint16) { *cell(addr) = v }

func (physMem) Move16(dst, src uint32, n int) {
	if n <= 0 {
		return
	}
	copy(unsafe.Slice(cell(dst), n), unsafe.Slice(cell(src), n))
}

type pcCPU struct{}

func (pcCPU) EnableInterrupts()       { sti() }
func (pcCPU) DisableInterrupts()      { cli() }
func (pcCPU) InterruptsEnabled() bool { return readEflags()&eflagsIF != 0 }
func (pcCPU) Halt()                   { hlt() }
func (pcCPU) WaitForInterrupt()       { stihlt() }

// Reset parks the CPU until the chipset reset takes effect.
func (pcCPU) Reset() {
	cli()
	for {
		hlt()
	}
}

type trapTable struct {
	handlers [16]func()
}

func (t *trapTable) Handle(irq uint8, fn func()) {
	if int(irq) < len(t.handlers) {
		t.handlers[irq] = fn
	}
}

// Dispatch runs the handler for irq. The trap layer calls it with
// interrupts disabled after translating the vector back to a line.
func Dispatch(h HAL, irq uint8) {
	p, ok := h.(*pcHAL)
	if !ok || int(irq) >= len(p.traps.handlers) {
		return
	}
	if fn := p.traps.handlers[irq]; fn != nil {
		fn()
	}
}

type debugLogger struct{}

func (debugLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		outb(debugPort, s[i])
	}
	outb(debugPort, '\n')
}

func (debugLogger) WriteLineBytes(b []byte) {
	for _, c := range b {
		outb(debugPort, c)
	}
	outb(debugPort, '\n')
}
