// Package pc simulates the legacy PC chipset a text console drives: two
// cascaded 8259A controllers, an i8042 keyboard controller, a 16550 UART on
// COM1, a parallel port, a 6845-based text adapter and system control port A.
//
// Register layouts follow the hardware bit for bit so that the same drivers
// run here and on a real machine.
package pc

import (
	"io"
	"sync/atomic"

	"kcons/hal"
)

// Config selects the simulated hardware.
type Config struct {
	// Mono leaves the color adapter out; only the monochrome window decodes.
	Mono bool
	// NoSerial leaves COM1 unpopulated.
	NoSerial bool
	// SerialOut receives bytes transmitted on COM1.
	SerialOut io.Writer
	// PrinterOut receives bytes strobed into the parallel port.
	PrinterOut io.Writer
	// Trace, when set, receives a line per port access.
	Trace io.Writer
	// Logger is returned by Machine.Logger.
	Logger hal.Logger
}

// Machine is a single-CPU PC. It implements hal.HAL.
type Machine struct {
	bus  *Bus
	pic  *PIC
	kbc  *KBC
	uart *UART
	lpt  *LPT
	crtc *CRTC
	sys  *sysCtl
	mem  []*region
	mono bool
	log  hal.Logger

	handlers [16]func()
	intr     bool
	inTrap   bool
	resetReq atomic.Bool
}

// New builds a machine from cfg.
func New(cfg Config) *Machine {
	m := &Machine{
		bus:  newBus(cfg.Trace),
		pic:  newPIC(),
		mono: cfg.Mono,
		log:  cfg.Logger,
	}
	if m.log == nil {
		m.log = hal.NopLogger{}
	}

	m.kbc = &KBC{raise: m.pic.Raise, reset: m.requestReset}
	m.uart = &UART{present: !cfg.NoSerial, out: cfg.SerialOut, raise: m.pic.Raise}
	m.lpt = &LPT{out: cfg.PrinterOut}
	m.sys = &sysCtl{reset: m.requestReset}

	m.mem = append(m.mem, &region{base: MonoBuf, cells: make([]uint16, textWindowCells)})
	if cfg.Mono {
		m.crtc = &CRTC{base: MonoBase}
	} else {
		m.crtc = &CRTC{base: CGABase}
		m.mem = append(m.mem, &region{base: CGABuf, cells: make([]uint16, textWindowCells)})
	}

	m.bus.Register(PIC1Cmd, PIC1Data, m.pic)
	m.bus.Register(PIC2Cmd, PIC2Data, m.pic)
	m.bus.Register(KBCData, KBCData, m.kbc)
	m.bus.Register(KBCStatus, KBCStatus, m.kbc)
	m.bus.Register(COM1, COM1+7, m.uart)
	m.bus.Register(LPT1, LPT1+2, m.lpt)
	m.bus.Register(m.crtc.base, m.crtc.base+1, m.crtc)
	m.bus.Register(SysCtlA, SysCtlA, m.sys)
	return m
}

func (m *Machine) Logger() hal.Logger { return m.log }
func (m *Machine) Ports() hal.Ports   { return m.bus }
func (m *Machine) Memory() hal.Memory { return m }
func (m *Machine) CPU() hal.CPU       { return m }
func (m *Machine) Traps() hal.Traps   { return m }

func (m *Machine) findLocked(addr uint32) (*region, int, bool) {
	for _, r := range m.mem {
		if i, ok := r.index(addr); ok {
			return r, i, true
		}
	}
	return nil, 0, false
}

func (m *Machine) Load16(addr uint32) uint16 {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	if r, i, ok := m.findLocked(addr); ok {
		return r.cells[i]
	}
	return 0xFFFF
}

func (m *Machine) Store16(addr uint32, v uint16) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	if r, i, ok := m.findLocked(addr); ok {
		r.cells[i] = v
	}
}

func (m *Machine) Move16(dst, src uint32, n int) {
	if n <= 0 {
		return
	}
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	dr, di, dok := m.findLocked(dst)
	sr, si, sok := m.findLocked(src)
	if dok && sok && di+n <= len(dr.cells) && si+n <= len(sr.cells) {
		copy(dr.cells[di:di+n], sr.cells[si:si+n])
		return
	}
	tmp := make([]uint16, n)
	for k := range tmp {
		tmp[k] = 0xFFFF
		if r, i, ok := m.findLocked(src + uint32(2*k)); ok {
			tmp[k] = r.cells[i]
		}
	}
	for k, v := range tmp {
		if r, i, ok := m.findLocked(dst + uint32(2*k)); ok {
			r.cells[i] = v
		}
	}
}

// Handle registers fn for irq.
func (m *Machine) Handle(irq uint8, fn func()) {
	if irq >= uint8(len(m.handlers)) {
		return
	}
	m.handlers[irq] = fn
}

func (m *Machine) EnableInterrupts() {
	m.intr = true
	m.Deliver()
}

func (m *Machine) DisableInterrupts() { m.intr = false }

// Halt delivers whatever is pending; the simulated CPU never sleeps.
func (m *Machine) Halt() { m.Deliver() }

// WaitForInterrupt sets the interrupt flag and delivers what is pending.
func (m *Machine) WaitForInterrupt() { m.EnableInterrupts() }

// Reset unwinds the calling goroutine with hal.ErrReset.
func (m *Machine) Reset() {
	m.resetReq.Store(true)
	panic(hal.ErrReset)
}

// InterruptsEnabled reports the CPU interrupt flag.
func (m *Machine) InterruptsEnabled() bool { return m.intr }

// Deliver runs handlers for pending unmasked requests while the interrupt
// flag is set. Handlers run with interrupts disabled and do not nest.
func (m *Machine) Deliver() {
	if m.inTrap {
		return
	}
	for m.intr {
		m.bus.mu.Lock()
		irq, ok := m.pic.next()
		m.bus.mu.Unlock()
		if !ok {
			return
		}
		fn := m.handlers[irq]
		if fn == nil {
			continue
		}
		m.intr = false
		m.inTrap = true
		func() {
			defer func() {
				m.inTrap = false
				m.intr = true
			}()
			fn()
		}()
	}
}

func (m *Machine) requestReset() { m.resetReq.Store(true) }

// ResetRequested reports whether the guest asked the chipset for a reset.
func (m *Machine) ResetRequested() bool { return m.resetReq.Load() }

// TypeScanCodes queues set 1 scan codes at the keyboard controller.
func (m *Machine) TypeScanCodes(codes ...byte) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	m.kbc.push(codes)
}

// SerialInput queues bytes on the COM1 receive line.
func (m *Machine) SerialInput(p []byte) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	m.uart.receive(p)
}

// SetPrinterBusy holds the parallel port busy line.
func (m *Machine) SetPrinterBusy(busy bool) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	m.lpt.busy = busy
}

// SetCursor preloads the CRTC cursor registers, as firmware would.
func (m *Machine) SetCursor(pos uint16) {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	m.crtc.setCursor(pos)
}

// Screen copies the active text window into dst and returns the hardware
// cursor offset.
func (m *Machine) Screen(dst []uint16) int {
	m.bus.mu.Lock()
	defer m.bus.mu.Unlock()
	r := m.mem[len(m.mem)-1]
	copy(dst, r.cells)
	return int(m.crtc.Cursor())
}

// Mono reports whether only the monochrome adapter is fitted.
func (m *Machine) Mono() bool { return m.mono }

// PIC returns the interrupt controller pair.
func (m *Machine) PIC() *PIC { return m.pic }

// UART returns the COM1 model.
func (m *Machine) UART() *UART { return m.uart }

// KBC returns the keyboard controller.
func (m *Machine) KBC() *KBC { return m.kbc }
