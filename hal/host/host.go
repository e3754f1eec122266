//go:build !baremetal

// Package host runs the console on a simulated PC, either in a desktop
// window or headless with COM1 attached to the terminal.
package host

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"kcons/hal"
	"kcons/hal/pc"
)

// Config selects the simulated hardware and the host streams.
type Config struct {
	// Hz is the machine loop rate. Ticks stops the headless runner after
	// that many iterations (0 = run until cancelled).
	Hz    int
	Ticks uint64

	Mono     bool
	NoSerial bool
	// TraceIO logs every port access to Log.
	TraceIO bool

	// In feeds the COM1 receive line, Out gets COM1 transmit. Log receives
	// platform log lines. Nil selects stdin, stdout and stderr.
	In  io.Reader
	Out io.Writer
	Log io.Writer
}

func (c Config) withDefaults() Config {
	if c.Hz <= 0 {
		c.Hz = 60
	}
	if c.In == nil {
		c.In = os.Stdin
	}
	if c.Out == nil {
		c.Out = os.Stdout
	}
	if c.Log == nil {
		c.Log = os.Stderr
	}
	return c
}

// errQuit ends a run without error: the operator detached from the console.
var errQuit = errors.New("host: quit")

type hostLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

// crlfWriter expands LF to CRLF for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte{'\n'}, []byte{'\r', '\n'})); err != nil {
		return 0, err
	}
	return len(p), nil
}

// session is one simulated machine plus the guest booted on it. A reset
// request from the guest replaces the machine with a fresh one.
type session struct {
	cfg     Config
	newApp  func(hal.HAL) func() error
	log     *hostLogger
	printer io.Writer

	m     *pc.Machine
	step  func() error
	boots int
}

func newSession(cfg Config, newApp func(hal.HAL) func() error, printer io.Writer) *session {
	s := &session{
		cfg:     cfg,
		newApp:  newApp,
		log:     &hostLogger{w: cfg.Log},
		printer: printer,
	}
	s.boot()
	return s
}

func (s *session) boot() {
	pcfg := pc.Config{
		Mono:       s.cfg.Mono,
		NoSerial:   s.cfg.NoSerial,
		SerialOut:  s.cfg.Out,
		PrinterOut: s.printer,
		Logger:     s.log,
	}
	if s.cfg.TraceIO {
		pcfg.Trace = s.cfg.Log
	}
	s.m = pc.New(pcfg)
	s.boots++
	s.step = nil
	if s.newApp != nil {
		s.step = s.newApp(s.m)
	}
}

// tick delivers pending interrupts and runs one guest step. A guest reset
// reboots the machine.
func (s *session) tick() error {
	err := s.run()
	if errors.Is(err, hal.ErrReset) {
		s.log.WriteLineString("host: machine reset, rebooting")
		s.boot()
		return nil
	}
	return err
}

func (s *session) run() (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && errors.Is(e, hal.ErrReset) {
			err = e
			return
		}
		panic(r)
	}()

	s.m.Halt()
	if s.step == nil {
		return nil
	}
	if err := s.step(); err != nil {
		if errors.Is(err, hal.ErrReset) {
			return err
		}
		return fmt.Errorf("host: guest stopped: %w", err)
	}
	return nil
}
