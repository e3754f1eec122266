//go:build !baremetal

package host

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"kcons/app"
	"kcons/drivers/cga"
	"kcons/hal"
)

func TestRunHeadlessTicks(t *testing.T) {
	steps := 0
	newApp := func(hal.HAL) func() error {
		return func() error {
			steps++
			return nil
		}
	}
	var out, log bytes.Buffer
	err := RunHeadless(context.Background(), newApp, Config{
		Hz: 1000, Ticks: 3,
		In: strings.NewReader(""), Out: &out, Log: &log,
	})
	if err != nil {
		t.Fatalf("RunHeadless() = %v", err)
	}
	if steps != 3 {
		t.Fatalf("steps = %d, want 3", steps)
	}
}

func TestRunHeadlessEcho(t *testing.T) {
	var out, log bytes.Buffer
	err := RunHeadless(context.Background(), app.New, Config{
		Hz: 500, Ticks: 50,
		In: strings.NewReader("echo hi\r"), Out: &out, Log: &log,
	})
	if err != nil {
		t.Fatalf("RunHeadless() = %v", err)
	}
	if s := out.String(); !strings.Contains(s, "echo hi\nhi\n") {
		t.Fatalf("serial output = %q", s)
	}
}

func TestRunHeadlessDetach(t *testing.T) {
	var out, log bytes.Buffer
	err := RunHeadless(context.Background(), app.New, Config{
		Hz: 100,
		In: strings.NewReader("x\x1d"), Out: &out, Log: &log,
	})
	if err != nil {
		t.Fatalf("RunHeadless() = %v, want nil after detach", err)
	}
}

func TestRunHeadlessCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	var out, log bytes.Buffer
	err := RunHeadless(ctx, app.New, Config{Hz: 100, In: pr, Out: &out, Log: &log})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunHeadless() = %v, want deadline exceeded", err)
	}
}

func TestRunHeadlessGuestError(t *testing.T) {
	boom := errors.New("boom")
	newApp := func(hal.HAL) func() error {
		return func() error { return boom }
	}
	var out, log bytes.Buffer
	err := RunHeadless(context.Background(), newApp, Config{
		Hz: 1000, In: strings.NewReader(""), Out: &out, Log: &log,
	})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless() = %v, want boom", err)
	}
}

func TestRunHeadlessInvalidHz(t *testing.T) {
	cfg := Config{Hz: 2_000_000_000, In: strings.NewReader("")}
	if err := RunHeadless(context.Background(), nil, cfg); err == nil {
		t.Fatal("RunHeadless() = nil with an unusable rate")
	}
}

func TestResetReboots(t *testing.T) {
	var out, log bytes.Buffer
	s := newSession(Config{Out: &out, Log: &log}.withDefaults(), app.New, io.Discard)
	first := s.m

	// with delivery off the guest's own poll sees the keys
	s.m.DisableInterrupts()
	s.m.TypeScanCodes(0x1D, 0x38, 0xE0, 0x53)
	if err := s.tick(); err != nil {
		t.Fatalf("tick() = %v", err)
	}
	if s.boots != 2 || s.m == first {
		t.Fatalf("boots = %d, machine replaced = %v", s.boots, s.m != first)
	}
	if !strings.Contains(log.String(), "rebooting") {
		t.Fatalf("log = %q", log.String())
	}
	if strings.Count(out.String(), "is loading") != 2 {
		t.Fatalf("serial output = %q, want two boot banners", out.String())
	}
}

func TestResetFromInterruptHandler(t *testing.T) {
	var out, log bytes.Buffer
	s := newSession(Config{Out: &out, Log: &log}.withDefaults(), app.New, io.Discard)

	// the keyboard line is unmasked and interrupts are on, so Halt
	// delivers the reset from the handler
	s.m.TypeScanCodes(0x1D, 0x38, 0xE0, 0x53)
	if err := s.tick(); err != nil {
		t.Fatalf("tick() = %v", err)
	}
	if s.boots != 2 {
		t.Fatalf("boots = %d, want 2", s.boots)
	}
}

func TestCRLFWriter(t *testing.T) {
	var b bytes.Buffer
	w := crlfWriter{w: &b}
	n, err := w.Write([]byte("a\nb\n"))
	if err != nil || n != 4 {
		t.Fatalf("Write() = %d, %v, want 4, nil", n, err)
	}
	w.Write([]byte("c"))
	if got := b.String(); got != "a\r\nb\r\nc" {
		t.Fatalf("wrote %q", got)
	}
}

func TestPumpInputStopsAtDetachKey(t *testing.T) {
	in := make(chan chunk, 2)
	in <- chunk{p: []byte("ab")}
	in <- chunk{p: []byte("c\x1dd")}
	out := make(chan []byte, 4)

	err := pumpInput(context.Background(), in, out)
	if !errors.Is(err, errQuit) {
		t.Fatalf("pumpInput() = %v, want errQuit", err)
	}
	close(out)
	var got []byte
	for p := range out {
		got = append(got, p...)
	}
	if string(got) != "abc" {
		t.Fatalf("forwarded %q, want \"abc\"", got)
	}
}

func TestPumpInputEOF(t *testing.T) {
	in := make(chan chunk, 1)
	in <- chunk{p: []byte("z"), err: io.EOF}
	out := make(chan []byte, 1)
	if err := pumpInput(context.Background(), in, out); err != nil {
		t.Fatalf("pumpInput() = %v, want nil", err)
	}
	if p := <-out; string(p) != "z" {
		t.Fatalf("forwarded %q", p)
	}
}

func TestScanKeys(t *testing.T) {
	tcs := []struct {
		name  string
		key   scanKey
		mk    []byte
		brk   []byte
		again bool
	}{
		{name: "letter", key: 0x1E, mk: []byte{0x1E}, brk: []byte{0x9E}, again: true},
		{name: "shift", key: 0x2A, mk: []byte{0x2A}, brk: []byte{0xAA}},
		{name: "right ctrl", key: extended | 0x1D, mk: []byte{0xE0, 0x1D}, brk: []byte{0xE0, 0x9D}},
		{name: "delete", key: extended | 0x53, mk: []byte{0xE0, 0x53}, brk: []byte{0xE0, 0xD3}, again: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.key.appendMake(nil); !bytes.Equal(got, tc.mk) {
				t.Fatalf("make = % x, want % x", got, tc.mk)
			}
			if got := tc.key.appendBreak(nil); !bytes.Equal(got, tc.brk) {
				t.Fatalf("break = % x, want % x", got, tc.brk)
			}
			if tc.key.repeats() != tc.again {
				t.Fatalf("repeats() = %v, want %v", tc.key.repeats(), tc.again)
			}
		})
	}

	if typematic(1) || typematic(typematicDelay) {
		t.Fatal("key repeats before the typematic delay")
	}
	if !typematic(typematicDelay + typematicRate) {
		t.Fatal("held key does not repeat")
	}
}

func TestTextScreenRender(t *testing.T) {
	f := defaultFont()
	s := newTextScreen(f)
	cells := make([]uint16, cga.Size)
	for i := range cells {
		cells[i] = 0x0700 | ' '
	}
	cells[0] = 0x1F00 | 'A'

	if !s.render(cells, cga.Cols, true) {
		t.Fatal("first render reported no change")
	}
	img := s.Image()
	if got := img.RGBAAt(0, 0); got != cgaPalette[1] {
		t.Fatalf("cell 0 background = %v, want blue", got)
	}
	lit := false
	for y := 0; y < int(f.height); y++ {
		for x := 0; x < int(f.width); x++ {
			if img.RGBAAt(x, y) == cgaPalette[15] {
				lit = true
			}
		}
	}
	if !lit {
		t.Fatal("glyph for 'A' not drawn")
	}
	cy := int(f.height) + int(f.height) - 1
	if got := img.RGBAAt(0, cy); got != cgaPalette[7] {
		t.Fatalf("cursor pixel = %v, want grey underline", got)
	}

	if !s.render(cells, cga.Cols, false) {
		t.Fatal("hiding the cursor reported no change")
	}
	if got := img.RGBAAt(0, cy); got != cgaPalette[0] {
		t.Fatalf("hidden cursor pixel = %v, want black", got)
	}
	if s.render(cells, cga.Cols, false) {
		t.Fatal("unchanged screen reported a change")
	}
}

func TestPrinterPane(t *testing.T) {
	p := newPrinterPane(defaultFont(), 4)
	p.dirty = false
	if _, err := p.Write([]byte("HELLO\n")); err != nil {
		t.Fatalf("Write() = %v", err)
	}
	if !p.dirty {
		t.Fatal("Write did not mark the pane dirty")
	}

	inked := 0
	img := p.d.img
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			switch img.RGBAAt(x, y) {
			case inkColor:
				inked++
			case paperColor:
			default:
				t.Fatalf("pixel (%d,%d) = %v, want ink or paper", x, y, img.RGBAAt(x, y))
			}
		}
	}
	if inked == 0 {
		t.Fatal("no ink on the paper")
	}

	dst := *img
	dst.Pix = make([]byte, len(img.Pix))
	p.SetScroll(int16(b.Dy() / 2))
	p.snapshot(&dst)
	half := (b.Dy() / 2) * img.Stride
	if !bytes.Equal(dst.Pix[:len(img.Pix)-half], img.Pix[half:]) {
		t.Fatal("snapshot did not rotate by the scroll offset")
	}
	if p.dirty {
		t.Fatal("snapshot left the pane dirty")
	}
}
