// Package kbd decodes scan code set 1 from the i8042 keyboard controller.
package kbd

import "kcons/hal"

// Keyboard controller registers.
const (
	KBStatP = 0x64 // status port (read)
	KBDataP = 0x60 // data port

	KBSDIB = 0x01 // status: output buffer full

	escapeCode = 0xE0
	breakBit   = 0x80
)

// Reset control, port A.
const (
	resetPort = 0x92
	resetCmd  = 0x03
)

// Modifiers is the keyboard state carried between scan codes.
type Modifiers uint8

const (
	Shift Modifiers = 1 << iota
	Ctrl
	Alt
	CapsLock
	NumLock
	ScrollLock
	// E0Esc marks that the previous code was the 0xE0 prefix.
	E0Esc
)

func (m Modifiers) String() string {
	names := [...]string{"shift", "ctrl", "alt", "caps", "num", "scroll", "e0"}
	s := ""
	for i, n := range names {
		if m&(1<<i) == 0 {
			continue
		}
		if s != "" {
			s += "|"
		}
		s += n
	}
	if s == "" {
		return "none"
	}
	return s
}

// Decoder turns scan codes into characters.
type Decoder struct {
	ports hal.Ports
	log   hal.Logger
	reset func()

	shift Modifiers
}

// New returns a decoder reading from ports. reset is called after the
// reset command was written on ctrl+alt+del; on hardware it does not return.
func New(ports hal.Ports, log hal.Logger, reset func()) *Decoder {
	if log == nil {
		log = hal.NopLogger{}
	}
	return &Decoder{ports: ports, log: log, reset: reset}
}

// Modifiers returns the current modifier state.
func (d *Decoder) Modifiers() Modifiers { return d.shift }

// Proc reads and decodes one byte from the controller. It returns false
// when no byte is pending, and 0 when the byte completed no character.
func (d *Decoder) Proc() (int, bool) {
	if d.ports.In8(KBStatP)&KBSDIB == 0 {
		return 0, false
	}
	return int(d.Decode(d.ports.In8(KBDataP))), true
}

// Decode advances the state machine by one scan code and returns the
// resulting character, or 0 if none was produced.
func (d *Decoder) Decode(data byte) byte {
	switch {
	case data == escapeCode:
		d.shift |= E0Esc
		return 0
	case data&breakBit != 0:
		// key released
		if d.shift&E0Esc == 0 {
			data &^= breakBit
		}
		d.shift &^= shiftCode[data] | E0Esc
		return 0
	case d.shift&E0Esc != 0:
		// the extended key lives at make code | 0x80
		data |= breakBit
		d.shift &^= E0Esc
	}

	d.shift |= shiftCode[data]
	d.shift ^= toggleCode[data]

	c := charCode[d.shift&(Ctrl|Shift)][data]
	if d.shift&CapsLock != 0 {
		switch {
		case 'a' <= c && c <= 'z':
			c -= 'a' - 'A'
		case 'A' <= c && c <= 'Z':
			c += 'a' - 'A'
		}
	}

	if d.shift&(Ctrl|Alt) == Ctrl|Alt && c == KeyDel {
		d.log.WriteLineString("Rebooting!")
		d.ports.Out8(resetPort, resetCmd)
		if d.reset != nil {
			d.reset()
		}
	}
	return c
}
