package app

import (
	"errors"
	"fmt"

	"kcons/console"
	"kcons/drivers/picirq"
	"kcons/hal"
	"kcons/internal/buildinfo"
	"kcons/services/logger"
)

type Config struct {
	// IRQOffset is the vector the master controller's line 0 is delivered on.
	IRQOffset uint8
	// Echo runs the line monitor on console input. Without it input is
	// read and dropped.
	Echo    bool
	Console console.Config
}

// DefaultConfig returns the boot configuration used on hardware.
func DefaultConfig() Config {
	return Config{
		IRQOffset: picirq.DefaultOffset,
		Echo:      true,
		Console:   console.DefaultConfig(),
	}
}

type system struct {
	h   hal.HAL
	cfg Config
	pic *picirq.Controller
	con *console.Console
	log *logger.Service
	mon *monitor

	halted bool
}

// New boots the console with default config and returns the step function.
func New(h hal.HAL) func() error {
	return NewWithConfig(h, DefaultConfig())
}

// NewWithConfig boots the console and returns the step function. Each step
// drains pending input; it returns hal.ErrReset after ctrl+alt+del.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	return newSystem(h, cfg).step
}

// Run boots and services the console forever (bare metal entrypoint).
func Run(h hal.HAL) {
	s := newSystem(h, DefaultConfig())
	cpu := h.CPU()
	for {
		if err := s.step(); err != nil {
			cpu.DisableInterrupts()
			for {
				cpu.Halt()
			}
		}
		s.idle()
	}
}

// idle sleeps until the next interrupt unless input arrived after the last
// step returned. The check and the sleep run with interrupts disabled.
func (s *system) idle() {
	cpu := s.h.CPU()
	cpu.DisableInterrupts()
	if s.con.Buffered() > 0 {
		cpu.EnableInterrupts()
		return
	}
	cpu.WaitForInterrupt()
}

func newSystem(h hal.HAL, cfg Config) *system {
	if cfg.IRQOffset == 0 {
		cfg.IRQOffset = picirq.DefaultOffset
	}
	cpu := h.CPU()
	cpu.DisableInterrupts()

	s := &system{h: h, cfg: cfg}
	s.pic = picirq.New(h.Ports(), h.Logger())
	s.con = console.New(h, s.pic, cfg.Console)
	s.con.Init()
	s.log = logger.New(s.con, h.Logger())

	s.con.Printf("kcons %s is loading ...\n\n", buildinfo.Short())

	s.pic.Init(cfg.IRQOffset)
	s.log.WriteLineString(fmt.Sprintf("pic: vectors %d-%d, mask %#04x",
		cfg.IRQOffset, int(cfg.IRQOffset)+picirq.NumIRQ-1, s.pic.Mask()))

	if cfg.Echo {
		s.mon = newMonitor(s)
		s.mon.prompt()
	}

	cpu.EnableInterrupts()
	return s
}

func (s *system) step() (err error) {
	if s.halted {
		return errHalted
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && errors.Is(e, hal.ErrReset) {
			err = e
			return
		}
		s.halted = true
		reportPanic(s.h.Logger(), s.con, r)
		err = fmt.Errorf("%w: %v", errHalted, r)
	}()

	for {
		c := s.con.GetChar()
		if c == 0 {
			return nil
		}
		if s.mon != nil {
			s.mon.input(c)
		}
	}
}
