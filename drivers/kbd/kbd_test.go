package kbd

import (
	"errors"
	"testing"

	"kcons/hal"
	"kcons/hal/pc"
)

func decodeAll(d *Decoder, codes ...byte) []byte {
	out := make([]byte, 0, len(codes))
	for _, c := range codes {
		out = append(out, d.Decode(c))
	}
	return out
}

func TestDecodeMakeBreak(t *testing.T) {
	d := New(nil, nil, nil)
	got := decodeAll(d, 0x1E, 0x1E|0x80)
	if got[0] != 'a' || got[1] != 0 {
		t.Fatalf("decode(make a, break a) = %q, want \"a\\x00\"", got)
	}
	if d.Modifiers() != 0 {
		t.Fatalf("Modifiers() = %s, want none", d.Modifiers())
	}
}

func TestDecodeShift(t *testing.T) {
	tcs := []struct {
		name  string
		codes []byte
		want  byte
	}{
		{name: "left shift", codes: []byte{0x2A, 0x1E}, want: 'A'},
		{name: "right shift", codes: []byte{0x36, 0x1E}, want: 'A'},
		{name: "shift digit", codes: []byte{0x2A, 0x02}, want: '!'},
		{name: "released", codes: []byte{0x2A, 0xAA, 0x1E}, want: 'a'},
		{name: "ctrl letter", codes: []byte{0x1D, 0x2E}, want: 0x03},
		{name: "ctrl shift letter", codes: []byte{0x1D, 0x2A, 0x2E}, want: 0x03},
		{name: "ctrl enter", codes: []byte{0x1D, 0x1C}, want: '\r'},
		{name: "right ctrl", codes: []byte{0xE0, 0x1D, 0x20}, want: 0x04},
		{name: "right ctrl released", codes: []byte{0xE0, 0x1D, 0xE0, 0x9D, 0x20}, want: 'd'},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			d := New(nil, nil, nil)
			got := decodeAll(d, tc.codes...)
			if last := got[len(got)-1]; last != tc.want {
				t.Fatalf("decode(% x) = %#x, want %#x", tc.codes, last, tc.want)
			}
		})
	}
}

func TestDecodeShiftReleaseRestoresLowerCase(t *testing.T) {
	d := New(nil, nil, nil)
	if c := decodeAll(d, 0x2A, 0x10); c[1] != 'Q' {
		t.Fatalf("shift+q = %q, want 'Q'", c[1])
	}
	if d.Modifiers()&Shift == 0 {
		t.Fatal("expected shift held")
	}
	if c := d.Decode(0x2A | 0x80); c != 0 {
		t.Fatalf("shift release = %#x, want 0", c)
	}
	if d.Modifiers()&Shift != 0 {
		t.Fatal("expected shift released")
	}
	if c := d.Decode(0x10); c != 'q' {
		t.Fatalf("q = %q, want 'q'", c)
	}
}

func TestDecodeCapsLock(t *testing.T) {
	d := New(nil, nil, nil)
	d.Decode(0x3A)
	d.Decode(0x3A | 0x80)
	if d.Modifiers()&CapsLock == 0 {
		t.Fatal("expected caps lock on")
	}
	if c := d.Decode(0x1E); c != 'A' {
		t.Fatalf("caps a = %q, want 'A'", c)
	}
	if c := decodeAll(d, 0x2A, 0x1E); c[1] != 'a' {
		t.Fatalf("caps shift a = %q, want 'a'", c[1])
	}
	d.Decode(0xAA)
	if c := d.Decode(0x02); c != '1' {
		t.Fatalf("caps 1 = %q, want '1'", c)
	}

	// toggles flip on every make
	d.Decode(0x3A)
	if d.Modifiers()&CapsLock != 0 {
		t.Fatal("expected caps lock off")
	}
	d.Decode(0x45)
	d.Decode(0x46)
	if m := d.Modifiers(); m&(NumLock|ScrollLock) != NumLock|ScrollLock {
		t.Fatalf("Modifiers() = %s, want num|scroll", m)
	}
}

func TestDecodeEscapedKeys(t *testing.T) {
	tcs := []struct {
		name  string
		codes []byte
		want  byte
	}{
		{name: "keypad enter", codes: []byte{0xE0, 0x1C}, want: '\n'},
		{name: "keypad divide", codes: []byte{0xE0, 0x35}, want: '/'},
		{name: "home", codes: []byte{0xE0, 0x47}, want: KeyHome},
		{name: "up", codes: []byte{0xE0, 0x48}, want: KeyUp},
		{name: "page up", codes: []byte{0xE0, 0x49}, want: KeyPgUp},
		{name: "left", codes: []byte{0xE0, 0x4B}, want: KeyLf},
		{name: "right", codes: []byte{0xE0, 0x4D}, want: KeyRt},
		{name: "end", codes: []byte{0xE0, 0x4F}, want: KeyEnd},
		{name: "down", codes: []byte{0xE0, 0x50}, want: KeyDn},
		{name: "page down", codes: []byte{0xE0, 0x51}, want: KeyPgDn},
		{name: "insert", codes: []byte{0xE0, 0x52}, want: KeyIns},
		{name: "delete", codes: []byte{0xE0, 0x53}, want: KeyDel},
		{name: "keypad 7", codes: []byte{0x47}, want: '7'},
		{name: "keypad 8", codes: []byte{0x48}, want: '8'},
		{name: "keypad period", codes: []byte{0x53}, want: '.'},
		{name: "shift up", codes: []byte{0x2A, 0xE0, 0x48}, want: KeyUp},
		{name: "ctrl end", codes: []byte{0x1D, 0xE0, 0x4F}, want: KeyEnd},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			d := New(nil, nil, nil)
			got := decodeAll(d, tc.codes...)
			if last := got[len(got)-1]; last != tc.want {
				t.Fatalf("decode(% x) = %#x, want %#x", tc.codes, last, tc.want)
			}
			if d.Modifiers()&E0Esc != 0 {
				t.Fatal("escape still pending")
			}
		})
	}
}

func TestDecodeEscapePrefixEmitsNothing(t *testing.T) {
	d := New(nil, nil, nil)
	if c := d.Decode(0xE0); c != 0 {
		t.Fatalf("decode(e0) = %#x, want 0", c)
	}
	if d.Modifiers()&E0Esc == 0 {
		t.Fatal("expected escape pending")
	}
	// an escaped release clears the prefix without masking the code
	d.Decode(0xB8)
	if d.Modifiers() != 0 {
		t.Fatalf("Modifiers() = %s, want none", d.Modifiers())
	}
}

type recordPorts struct {
	hal.Ports
	out []uint16
}

func (r *recordPorts) Out8(port uint16, v uint8) {
	r.out = append(r.out, port<<8|uint16(v))
}

func TestCtrlAltDelResets(t *testing.T) {
	ports := &recordPorts{}
	reset := 0
	d := New(ports, nil, func() { reset++ })

	c := decodeAll(d, 0x1D, 0x38, 0xE0, 0x53)
	if reset != 1 {
		t.Fatalf("reset called %d times, want 1", reset)
	}
	if len(ports.out) != 1 || ports.out[0] != 0x92<<8|0x03 {
		t.Fatalf("port writes = %x, want [9203]", ports.out)
	}
	if c[3] != KeyDel {
		t.Fatalf("decode = %#x, want KeyDel", c[3])
	}

	// delete without alt is an ordinary key
	reset = 0
	d = New(ports, nil, func() { reset++ })
	decodeAll(d, 0x1D, 0xE0, 0x53)
	if reset != 0 {
		t.Fatal("ctrl+del must not reset")
	}
}

func TestCtrlAltDelResetsMachine(t *testing.T) {
	m := pc.New(pc.Config{})
	d := New(m.Ports(), nil, m.CPU().Reset)
	m.TypeScanCodes(0x1D, 0x38, 0xE0, 0x53)

	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, hal.ErrReset) {
			t.Fatalf("recover() = %v, want hal.ErrReset", r)
		}
		if !m.ResetRequested() {
			t.Fatal("expected reset request at port 0x92")
		}
	}()
	for {
		if _, ok := d.Proc(); !ok {
			break
		}
	}
	t.Fatal("Proc returned after ctrl+alt+del")
}

func TestProcReadsController(t *testing.T) {
	m := pc.New(pc.Config{})
	d := New(m.Ports(), nil, nil)

	if _, ok := d.Proc(); ok {
		t.Fatal("Proc() ok = true with empty controller")
	}

	m.TypeScanCodes(0x2A, 0x23, 0xAA, 0x17)
	var got []int
	for {
		c, ok := d.Proc()
		if !ok {
			break
		}
		got = append(got, c)
	}
	want := []int{0, 'H', 0, 'i'}
	if len(got) != len(want) {
		t.Fatalf("Proc() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Proc() = %v, want %v", got, want)
		}
	}
}
