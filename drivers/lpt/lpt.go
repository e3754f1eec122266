// Package lpt mirrors console output to the first parallel port.
package lpt

import "kcons/hal"

const (
	LPT1 = 0x378

	regData    = 0
	regStatus  = 1
	regControl = 2

	statusNotBusy = 0x80

	ctlSelect = 0x08
	ctlInit   = 0x04
	ctlStrobe = 0x01
)

// Port is a write-only Centronics port.
type Port struct {
	ports hal.Ports
}

func New(ports hal.Ports) *Port {
	return &Port{ports: ports}
}

// PutChar prints the low byte of c, with backspace sent as an erase sequence.
func (p *Port) PutChar(c int) {
	if c != '\b' {
		p.send(uint8(c))
		return
	}
	p.send('\b')
	p.send(' ')
	p.send('\b')
}

func (p *Port) send(b uint8) {
	for i := 0; p.ports.In8(LPT1+regStatus)&statusNotBusy == 0 && i < hal.WaitBudget; i++ {
		hal.IODelay(p.ports)
	}
	p.ports.Out8(LPT1+regData, b)
	p.ports.Out8(LPT1+regControl, ctlSelect|ctlInit|ctlStrobe)
	p.ports.Out8(LPT1+regControl, ctlSelect)
}
