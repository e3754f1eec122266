package kbd

// Special keys. They live above the ASCII range so that callers can tell
// them apart from text.
const (
	KeyHome = 0xE0
	KeyEnd  = 0xE1
	KeyUp   = 0xE2
	KeyDn   = 0xE3
	KeyLf   = 0xE4
	KeyRt   = 0xE5
	KeyPgUp = 0xE6
	KeyPgDn = 0xE7
	KeyIns  = 0xE8
	KeyDel  = 0xE9
)

const no = 0

var shiftCode = [256]Modifiers{
	0x1D: Ctrl,
	0x2A: Shift,
	0x36: Shift,
	0x38: Alt,
	0x9D: Ctrl,
	0xB8: Alt,
}

var toggleCode = [256]Modifiers{
	0x3A: CapsLock,
	0x45: NumLock,
	0x46: ScrollLock,
}

// Extended keys are stored at make code | 0x80.
var extendedKeys = map[byte]byte{
	0xC7: KeyHome,
	0xC8: KeyUp,
	0xC9: KeyPgUp,
	0xCB: KeyLf,
	0xCD: KeyRt,
	0xCF: KeyEnd,
	0xD0: KeyDn,
	0xD1: KeyPgDn,
	0xD2: KeyIns,
	0xD3: KeyDel,
}

var normalMap = withExtended([256]byte{
	no, 0x1B, '1', '2', '3', '4', '5', '6', // 0x00
	'7', '8', '9', '0', '-', '=', '\b', '\t',
	'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', // 0x10
	'o', 'p', '[', ']', '\n', no, 'a', 's',
	'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', // 0x20
	'\'', '`', no, '\\', 'z', 'x', 'c', 'v',
	'b', 'n', 'm', ',', '.', '/', no, '*', // 0x30
	no, ' ', no, no, no, no, no, no,
	no, no, no, no, no, no, no, '7', // 0x40
	'8', '9', '-', '4', '5', '6', '+', '1',
	'2', '3', '0', '.', no, no, no, no, // 0x50
	0x9C: '\n', // keypad enter
	0xB5: '/',  // keypad divide
})

var shiftMap = withExtended([256]byte{
	no, 0x1B, '!', '@', '#', '$', '%', '^', // 0x00
	'&', '*', '(', ')', '_', '+', '\b', '\t',
	'Q', 'W', 'E', 'R', 'T', 'Y', 'U', 'I', // 0x10
	'O', 'P', '{', '}', '\n', no, 'A', 'S',
	'D', 'F', 'G', 'H', 'J', 'K', 'L', ':', // 0x20
	'"', '~', no, '|', 'Z', 'X', 'C', 'V',
	'B', 'N', 'M', '<', '>', '?', no, '*', // 0x30
	no, ' ', no, no, no, no, no, no,
	no, no, no, no, no, no, no, '7', // 0x40
	'8', '9', '-', '4', '5', '6', '+', '1',
	'2', '3', '0', '.', no, no, no, no, // 0x50
	0x9C: '\n',
	0xB5: '/',
})

// ctl maps a letter or symbol to its control code.
func ctl(c byte) byte { return c - '@' }

var ctlMap = withExtended([256]byte{
	no, no, no, no, no, no, no, no,
	no, no, no, no, no, no, no, no,
	ctl('Q'), ctl('W'), ctl('E'), ctl('R'), ctl('T'), ctl('Y'), ctl('U'), ctl('I'),
	ctl('O'), ctl('P'), no, no, '\r', no, ctl('A'), ctl('S'),
	ctl('D'), ctl('F'), ctl('G'), ctl('H'), ctl('J'), ctl('K'), ctl('L'), no,
	no, no, no, ctl('\\'), ctl('Z'), ctl('X'), ctl('C'), ctl('V'),
	ctl('B'), ctl('N'), ctl('M'), no, no, ctl('/'), no, no,
	0xB5: ctl('/'),
})

// charCode is indexed by the Ctrl|Shift bits; Ctrl wins over Shift.
var charCode = [4]*[256]byte{
	&normalMap,
	&shiftMap,
	&ctlMap,
	&ctlMap,
}

func withExtended(m [256]byte) [256]byte {
	for code, key := range extendedKeys {
		m[code] = key
	}
	return m
}
