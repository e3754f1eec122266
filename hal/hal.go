package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Ports is the x86 I/O port space.
type Ports interface {
	In8(port uint16) uint8
	Out8(port uint16, v uint8)
	In16(port uint16) uint16
	Out16(port uint16, v uint16)
	// InsL reads len(dst) 32-bit words from port.
	InsL(port uint16, dst []uint32)
}

// WaitBudget bounds every busy-wait on a device status bit. Devices that
// never become ready are written to anyway once it runs out.
const WaitBudget = 12800

const delayPort = 0x84

// IODelay burns a fixed amount of bus time with reads of an unused port.
func IODelay(p Ports) {
	p.In8(delayPort)
	p.In8(delayPort)
	p.In8(delayPort)
	p.In8(delayPort)
}

// Memory is physical memory as seen by memory-mapped devices.
//
// Accesses are volatile: a load after a store may observe a different value
// when nothing decodes the address.
type Memory interface {
	Load16(addr uint32) uint16
	Store16(addr uint32, v uint16)
	// Move16 copies n 16-bit words from src to dst. The ranges may overlap.
	Move16(dst, src uint32, n int)
}

// CPU controls the local processor.
type CPU interface {
	EnableInterrupts()
	DisableInterrupts()
	InterruptsEnabled() bool
	// Halt waits for the next interrupt.
	Halt()
	// WaitForInterrupt enables interrupts and halts with no window in
	// between, so a request that is already pending wakes the CPU.
	WaitForInterrupt()
	// Reset is called after a reset command was issued to the chipset.
	// It does not return.
	Reset()
}

// Traps connects hardware interrupt lines to handlers. The platform trap
// layer owns vector installation; handlers run with interrupts disabled.
type Traps interface {
	Handle(irq uint8, fn func())
}

// HAL provides the only contact point between the console and the machine.
type HAL interface {
	Logger() Logger
	Ports() Ports
	Memory() Memory
	CPU() CPU
	Traps() Traps
}

// ErrReset is reported by host runners when the guest requested a reset.
var ErrReset = errors.New("machine reset requested")

// NopLogger discards all lines.
type NopLogger struct{}

func (NopLogger) WriteLineString(string) {}
func (NopLogger) WriteLineBytes([]byte)  {}
