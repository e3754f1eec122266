package lpt

import (
	"bytes"
	"testing"

	"kcons/hal"
	"kcons/hal/pc"
)

// countingPorts counts delay-port reads and records control writes.
type countingPorts struct {
	hal.Ports
	delays  int
	control []uint8
}

func (c *countingPorts) In8(port uint16) uint8 {
	if port == 0x84 {
		c.delays++
	}
	return c.Ports.In8(port)
}

func (c *countingPorts) Out8(port uint16, v uint8) {
	if port == LPT1+regControl {
		c.control = append(c.control, v)
	}
	c.Ports.Out8(port, v)
}

func TestPutCharStrobes(t *testing.T) {
	var out bytes.Buffer
	m := pc.New(pc.Config{PrinterOut: &out})
	ports := &countingPorts{Ports: m.Ports()}
	p := New(ports)

	p.PutChar('h')
	p.PutChar('i')
	if got := out.String(); got != "hi" {
		t.Fatalf("printed %q, want \"hi\"", got)
	}
	if ports.delays != 0 {
		t.Fatalf("delay reads = %d with an idle printer, want 0", ports.delays)
	}
	want := []uint8{0x0D, 0x08, 0x0D, 0x08}
	if !bytes.Equal(ports.control, want) {
		t.Fatalf("control writes = % x, want % x", ports.control, want)
	}
}

func TestBackspaceErases(t *testing.T) {
	var out bytes.Buffer
	m := pc.New(pc.Config{PrinterOut: &out})
	p := New(m.Ports())

	p.PutChar('a')
	p.PutChar('\b')
	if got, want := out.String(), "a\b \b"; got != want {
		t.Fatalf("printed %q, want %q", got, want)
	}
}

func TestBusyPrinterIsBounded(t *testing.T) {
	var out bytes.Buffer
	m := pc.New(pc.Config{PrinterOut: &out})
	m.SetPrinterBusy(true)
	ports := &countingPorts{Ports: m.Ports()}
	p := New(ports)

	p.PutChar('x')
	if got := out.String(); got != "x" {
		t.Fatalf("printed %q, want \"x\"", got)
	}
	if want := 4 * hal.WaitBudget; ports.delays != want {
		t.Fatalf("delay reads = %d, want %d", ports.delays, want)
	}
}
