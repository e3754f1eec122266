// Package console ties the keyboard, the serial line, the parallel port and
// the text display into one character device.
//
// Input arrives from the keyboard and serial interrupt handlers (or from
// GetChar polling with interrupts masked) and is queued in a ring. Output is
// synchronous and goes to every sink in turn.
package console

import (
	"fmt"

	"kcons/drivers/cga"
	"kcons/drivers/kbd"
	"kcons/drivers/lpt"
	"kcons/drivers/picirq"
	"kcons/drivers/serial"
	"kcons/hal"
	"kcons/kernel"
)

// Config holds the console tunables. Zero values select the defaults.
type Config struct {
	// Baud is the COM1 line rate.
	Baud int
	// RingSize is the input buffer capacity in bytes.
	RingSize int
}

// DefaultConfig returns the settings used on real hardware.
func DefaultConfig() Config {
	return Config{Baud: serial.DefaultBaud, RingSize: kernel.DefaultRingSize}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Baud <= 0 {
		c.Baud = def.Baud
	}
	if c.RingSize <= 0 {
		c.RingSize = def.RingSize
	}
	return c
}

// MsgNoSerial is printed once by Init when COM1 does not answer.
const MsgNoSerial = "serial port does not exist!!"

// Console is the process-wide console state. There is one per machine.
type Console struct {
	cfg   Config
	cpu   hal.CPU
	traps hal.Traps
	log   hal.Logger
	pic   *picirq.Controller

	display *cga.Display
	serial  *serial.Port
	printer *lpt.Port
	keys    *kbd.Decoder
	ring    *kernel.Ring

	ready bool
}

// New wires a console to h. Interrupt lines are unmasked through pic.
func New(h hal.HAL, pic *picirq.Controller, cfg Config) *Console {
	cfg = cfg.withDefaults()
	log := h.Logger()
	if log == nil {
		log = hal.NopLogger{}
	}
	ports := h.Ports()
	return &Console{
		cfg:     cfg,
		cpu:     h.CPU(),
		traps:   h.Traps(),
		log:     log,
		pic:     pic,
		display: cga.New(h.Memory(), ports),
		serial:  serial.New(ports),
		printer: lpt.New(ports),
		keys:    kbd.New(ports, log, h.CPU().Reset),
		ring:    kernel.NewRing(cfg.RingSize),
	}
}

// Init probes the display, programs COM1 and arms the keyboard. Handlers
// are registered for both input lines; the lines are unmasked through the
// interrupt controller and take effect once it is programmed.
func (c *Console) Init() {
	c.display.Init()
	c.ready = true

	if c.serial.Init(c.cfg.Baud) {
		c.pic.Enable(picirq.IRQCOM1)
	}

	// collect whatever the controller buffered before the line was unmasked
	c.ring.Drain(c.keys.Proc)
	c.pic.Enable(picirq.IRQKeyboard)

	c.traps.Handle(picirq.IRQKeyboard, c.OnKeyboardInterrupt)
	c.traps.Handle(picirq.IRQCOM1, c.OnSerialInterrupt)

	if !c.serial.Present() {
		c.log.WriteLineString("console: " + MsgNoSerial)
		c.Printf("%s\n", MsgNoSerial)
	}
}

// PutChar writes c to the printer, the display and the serial line, in
// that order. Output before Init is dropped.
func (c *Console) PutChar(ch int) {
	if !c.ready {
		return
	}
	c.printer.PutChar(ch)
	c.display.PutChar(ch)
	c.serial.PutChar(ch)
}

// GetChar returns the next input character, or 0 if there is none. Both
// devices are drained first so polling works with interrupts masked.
func (c *Console) GetChar() int {
	enabled := c.cpu.InterruptsEnabled()
	if enabled {
		c.cpu.DisableInterrupts()
	}

	c.OnSerialInterrupt()
	c.OnKeyboardInterrupt()
	b, ok := c.ring.Pop()

	if enabled {
		c.cpu.EnableInterrupts()
	}
	if !ok {
		return 0
	}
	return int(b)
}

// OnKeyboardInterrupt drains the keyboard controller into the input ring.
func (c *Console) OnKeyboardInterrupt() {
	c.ring.Drain(c.keys.Proc)
}

// OnSerialInterrupt drains the COM1 receiver into the input ring.
func (c *Console) OnSerialInterrupt() {
	if c.serial.Present() {
		c.ring.Drain(c.serial.Proc)
	}
}

// Write puts every byte of p. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		c.PutChar(int(b))
	}
	return len(p), nil
}

// Printf formats to the console and returns the number of bytes written.
func (c *Console) Printf(format string, args ...any) int {
	n, _ := fmt.Fprintf(c, format, args...)
	return n
}

// SerialPresent reports whether COM1 answered at Init.
func (c *Console) SerialPresent() bool { return c.serial.Present() }

// Display returns the text display sink.
func (c *Console) Display() *cga.Display { return c.display }

// Modifiers returns the keyboard modifier state.
func (c *Console) Modifiers() kbd.Modifiers { return c.keys.Modifiers() }

// Buffered returns the number of unread input bytes.
func (c *Console) Buffered() int { return c.ring.Len() }
