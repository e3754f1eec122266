package pc

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

// Device is a port-mapped peripheral. Calls are serialized by the Bus.
type Device interface {
	ReadPort(port uint16) uint8
	WritePort(port uint16, v uint8)
}

// delayPort is read by drivers purely to burn time.
const delayPort = 0x84

// Bus routes port I/O to registered devices. Unmapped ports float high.
type Bus struct {
	mu    sync.Mutex
	ports map[uint16]Device

	trace io.Writer
	inC   *color.Color
	outC  *color.Color
}

func newBus(trace io.Writer) *Bus {
	return &Bus{
		ports: make(map[uint16]Device),
		trace: trace,
		inC:   color.New(color.FgCyan),
		outC:  color.New(color.FgYellow),
	}
}

// Register maps dev at every port in [start, end].
func (b *Bus) Register(start, end uint16, dev Device) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for port := start; port <= end; port++ {
		b.ports[port] = dev
		if port == 0xFFFF {
			break
		}
	}
}

func (b *Bus) in8Locked(port uint16) uint8 {
	v := uint8(0xFF)
	if dev, ok := b.ports[port]; ok {
		v = dev.ReadPort(port)
	}
	if b.trace != nil && port != delayPort {
		b.inC.Fprintf(b.trace, "io.in8  port=0x%04x value=0x%02x\n", port, v)
	}
	return v
}

func (b *Bus) out8Locked(port uint16, v uint8) {
	if b.trace != nil {
		b.outC.Fprintf(b.trace, "io.out8 port=0x%04x value=0x%02x\n", port, v)
	}
	if dev, ok := b.ports[port]; ok {
		dev.WritePort(port, v)
	}
}

func (b *Bus) In8(port uint16) uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.in8Locked(port)
}

func (b *Bus) Out8(port uint16, v uint8) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out8Locked(port, v)
}

// In16 reads the low byte from port and the high byte from port+1.
func (b *Bus) In16(port uint16) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	lo := b.in8Locked(port)
	hi := b.in8Locked(port + 1)
	return uint16(lo) | uint16(hi)<<8
}

// Out16 writes the low byte to port and the high byte to port+1, which is
// how index/data register pairs are loaded in one access.
func (b *Bus) Out16(port uint16, v uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.out8Locked(port, uint8(v))
	b.out8Locked(port+1, uint8(v>>8))
}

func (b *Bus) InsL(port uint16, dst []uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range dst {
		var w uint32
		for j := 0; j < 4; j++ {
			w |= uint32(b.in8Locked(port)) << uint32(j*8)
		}
		dst[i] = w
	}
}
