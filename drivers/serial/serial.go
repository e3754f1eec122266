// Package serial drives a 16550 UART on COM1.
package serial

import "kcons/hal"

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

	comIERRDI   = 0x01 // enable receive data interrupt
	comLCRDLAB  = 0x80 // divisor latch access
	comLCRWLen8 = 0x03 // 8 data bits, 1 stop bit, no parity
	comLSRData  = 0x01 // data available
	comLSRTXRDY = 0x20 // transmit buffer available

	// Clock is the divisor reference rate.
	Clock = 115200
	// DefaultBaud is used when Init is given a rate the divisor cannot express.
	DefaultBaud = 9600

	del = 127
)

// Port is COM1. Output and input are no-ops when Init found no UART.
type Port struct {
	ports   hal.Ports
	present bool
}

func New(ports hal.Ports) *Port {
	return &Port{ports: ports}
}

// Init programs baud with 8N1 framing and the receive interrupt, then
// probes for the UART. It reports whether one answered.
func (p *Port) Init(baud int) bool {
	if baud <= 0 || baud > Clock || Clock/baud > 0xFFFF {
		baud = DefaultBaud
	}
	div := uint16(Clock / baud)

	p.ports.Out8(COM1+comFCR, 0)
	p.ports.Out8(COM1+comLCR, comLCRDLAB)
	p.ports.Out8(COM1+comDLL, uint8(div))
	p.ports.Out8(COM1+comDLM, uint8(div>>8))
	p.ports.Out8(COM1+comLCR, comLCRWLen8&^comLCRDLAB)
	p.ports.Out8(COM1+comMCR, 0)
	p.ports.Out8(COM1+comIER, comIERRDI)

	// a missing UART floats the bus
	p.present = p.ports.In8(COM1+comLSR) != 0xFF
	p.ports.In8(COM1 + comIIR)
	p.ports.In8(COM1 + comRX)
	return p.present
}

// Present reports the result of the last Init.
func (p *Port) Present() bool { return p.present }

// Proc returns the next received byte. DEL arrives as backspace.
func (p *Port) Proc() (int, bool) {
	if !p.present || p.ports.In8(COM1+comLSR)&comLSRData == 0 {
		return 0, false
	}
	c := int(p.ports.In8(COM1 + comRX))
	if c == del {
		c = '\b'
	}
	return c, true
}

// PutChar transmits the low byte of c. Backspace goes out as an erase
// sequence so remote terminals clear the cell.
func (p *Port) PutChar(c int) {
	if !p.present {
		return
	}
	if c != '\b' {
		p.send(uint8(c))
		return
	}
	p.send('\b')
	p.send(' ')
	p.send('\b')
}

func (p *Port) send(b uint8) {
	for i := 0; p.ports.In8(COM1+comLSR)&comLSRTXRDY == 0 && i < hal.WaitBudget; i++ {
		hal.IODelay(p.ports)
	}
	p.ports.Out8(COM1+comTX, b)
}
