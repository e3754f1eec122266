package pc

import "io"

// Parallel port registers.
const (
	LPT1 = 0x378

	lptData    = 0
	lptStatus  = 1
	lptControl = 2

	lptStatusNotBusy = 0x80
	lptStatusSelect  = 0x10
	lptStatusNoError = 0x08

	lptCtlStrobe = 0x01
)

// LPT latches the data register on the falling edge of strobe.
type LPT struct {
	out     io.Writer
	data    uint8
	control uint8
	busy    bool
}

func (l *LPT) ReadPort(port uint16) uint8 {
	switch port - LPT1 {
	case lptData:
		return l.data
	case lptStatus:
		st := uint8(lptStatusSelect | lptStatusNoError)
		if !l.busy {
			st |= lptStatusNotBusy
		}
		return st
	case lptControl:
		return l.control
	}
	return 0xFF
}

func (l *LPT) WritePort(port uint16, v uint8) {
	switch port - LPT1 {
	case lptData:
		l.data = v
	case lptControl:
		falling := l.control&lptCtlStrobe != 0 && v&lptCtlStrobe == 0
		l.control = v
		if falling && l.out != nil {
			_, _ = l.out.Write([]byte{l.data})
		}
	}
}
