package pc

import "io"

// COM1 register block.
const (
	COM1 = 0x3F8

	comRX  = 0 // In:  receive buffer (DLAB=0)
	comTX  = 0 // Out: transmit buffer (DLAB=0)
	comDLL = 0 // Out: divisor latch low (DLAB=1)
	comDLM = 1 // Out: divisor latch high (DLAB=1)
	comIER = 1 // Out: interrupt enable
	comIIR = 2 // In:  interrupt identification
	comFCR = 2 // Out: FIFO control
	comLCR = 3 // Out: line control
	comMCR = 4 // Out: modem control
	comLSR = 5 // In:  line status
	comMSR = 6 // In:  modem status
	comSCR = 7 // scratch

	comLCRDLAB  = 0x80
	comIERRDI   = 0x01
	comLSRData  = 0x01
	comLSRTXRDY = 0x20
	comLSRTSRE  = 0x40

	comIIRNone = 0x01
	comIIRRDA  = 0x04

	// UARTClock is the divisor reference rate.
	UARTClock = 115200
)

// IRQSerial is the COM1 interrupt line.
const IRQSerial = 4

// UART is a 16550 without FIFOs. When absent, every register reads 0xFF.
type UART struct {
	present bool
	out     io.Writer
	raise   func(irq uint8)

	rx []byte

	dll, dlm uint8
	ier      uint8
	fcr      uint8
	lcr      uint8
	mcr      uint8
	scr      uint8
}

func (u *UART) dlab() bool { return u.lcr&comLCRDLAB != 0 }

func (u *UART) ReadPort(port uint16) uint8 {
	if !u.present {
		return 0xFF
	}
	switch port - COM1 {
	case comRX:
		if u.dlab() {
			return u.dll
		}
		if len(u.rx) == 0 {
			return 0
		}
		b := u.rx[0]
		u.rx = u.rx[1:]
		return b
	case comIER:
		if u.dlab() {
			return u.dlm
		}
		return u.ier
	case comIIR:
		if u.ier&comIERRDI != 0 && len(u.rx) > 0 {
			return comIIRRDA
		}
		return comIIRNone
	case comLCR:
		return u.lcr
	case comMCR:
		return u.mcr
	case comLSR:
		lsr := uint8(comLSRTXRDY | comLSRTSRE)
		if len(u.rx) > 0 {
			lsr |= comLSRData
		}
		return lsr
	case comMSR:
		return 0
	case comSCR:
		return u.scr
	}
	return 0xFF
}

func (u *UART) WritePort(port uint16, v uint8) {
	if !u.present {
		return
	}
	switch port - COM1 {
	case comTX:
		if u.dlab() {
			u.dll = v
			return
		}
		if u.out != nil {
			_, _ = u.out.Write([]byte{v})
		}
	case comIER:
		if u.dlab() {
			u.dlm = v
			return
		}
		u.ier = v
	case comFCR:
		u.fcr = v
	case comLCR:
		u.lcr = v
	case comMCR:
		u.mcr = v
	case comSCR:
		u.scr = v
	}
}

func (u *UART) receive(p []byte) {
	if !u.present || len(p) == 0 {
		return
	}
	u.rx = append(u.rx, p...)
	if u.ier&comIERRDI != 0 && u.raise != nil {
		u.raise(IRQSerial)
	}
}

// Baud returns the programmed line rate, or 0 before the divisor is set.
func (u *UART) Baud() int {
	div := int(u.dll) | int(u.dlm)<<8
	if div == 0 {
		return 0
	}
	return UARTClock / div
}

// Framing returns the line control register.
func (u *UART) Framing() uint8 { return u.lcr }
