// Package picirq manages the two cascaded 8259A interrupt controllers.
package picirq

import (
	"fmt"

	"kcons/hal"
)

// I/O addresses of the two controllers.
const (
	IOPIC1 = 0x20 // master (IRQs 0-7)
	IOPIC2 = 0xA0 // slave (IRQs 8-15)

	// IRQSlave is the master line the slave is cascaded on.
	IRQSlave = 2

	// NumIRQ is the number of legacy interrupt lines.
	NumIRQ = 16
)

// Legacy interrupt lines used by the console.
const (
	IRQTimer    = 0
	IRQKeyboard = 1
	IRQCOM1     = 4
)

// DefaultOffset is the first vector after the CPU exception range.
const DefaultOffset = 32

// Controller owns the 16-line mask (bit set = masked). Enable requests made
// before Init are cached and written once the hardware is programmed.
type Controller struct {
	ports hal.Ports
	log   hal.Logger

	mask    uint16
	didInit bool
}

// New returns a controller with every line masked except the cascade.
func New(ports hal.Ports, log hal.Logger) *Controller {
	if log == nil {
		log = hal.NopLogger{}
	}
	return &Controller{
		ports: ports,
		log:   log,
		mask:  0xFFFF &^ (1 << IRQSlave),
	}
}

// Mask returns the cached interrupt mask.
func (c *Controller) Mask() uint16 { return c.mask }

// Initialized reports whether Init has run.
func (c *Controller) Initialized() bool { return c.didInit }

func (c *Controller) setMask(mask uint16) {
	c.mask = mask
	if c.didInit {
		c.ports.Out8(IOPIC1+1, uint8(mask))
		c.ports.Out8(IOPIC2+1, uint8(mask>>8))
	}
}

// Enable unmasks irq. Lines outside 0-15 are ignored.
func (c *Controller) Enable(irq uint) {
	if irq >= NumIRQ {
		c.log.WriteLineString(fmt.Sprintf("picirq: ignoring enable of irq %d", irq))
		return
	}
	c.setMask(c.mask &^ (1 << irq))
}

// Init programs both controllers: edge triggered, cascaded on line 2,
// vectors from offset and offset+8, 8086 mode with automatic EOI.
func (c *Controller) Init(offset uint8) {
	c.didInit = true

	// mask all interrupts
	c.ports.Out8(IOPIC1+1, 0xFF)
	c.ports.Out8(IOPIC2+1, 0xFF)

	// ICW1: 0001g0hi
	//    g: 0 = edge triggering, 1 = level triggering
	//    h: 0 = cascaded PICs, 1 = master only
	//    i: 0 = no ICW4, 1 = ICW4 required
	c.ports.Out8(IOPIC1, 0x11)
	// ICW2: vector offset
	c.ports.Out8(IOPIC1+1, offset)
	// ICW3: (master) bit mask of IR lines connected to slaves
	c.ports.Out8(IOPIC1+1, 1<<IRQSlave)
	// ICW4: 000nbmap
	//    n: 1 = special fully nested mode
	//    b: 1 = buffered mode
	//    m: 0 = slave PIC, 1 = master PIC (ignored when b is 0)
	//    a: 1 = automatic EOI mode
	//    p: 0 = MCS-80/85 mode, 1 = intel x86 mode
	c.ports.Out8(IOPIC1+1, 0x3)

	c.ports.Out8(IOPIC2, 0x11)       // ICW1
	c.ports.Out8(IOPIC2+1, offset+8) // ICW2
	c.ports.Out8(IOPIC2+1, IRQSlave) // ICW3: slave id
	c.ports.Out8(IOPIC2+1, 0x3)      // ICW4

	// OCW3: 0ef01prs
	//   ef: 0x = NOP, 10 = clear specific mask, 11 = set specific mask
	//    p: 0 = no polling, 1 = polling mode
	//   rs: 0x = NOP, 10 = read IRR, 11 = read ISR
	c.ports.Out8(IOPIC1, 0x68) // ef = 11: this sets special mask mode
	c.ports.Out8(IOPIC1, 0x0a) // read IRR by default

	c.ports.Out8(IOPIC2, 0x68)
	c.ports.Out8(IOPIC2, 0x0a)

	if c.mask != 0xFFFF {
		c.setMask(c.mask)
	}
}
