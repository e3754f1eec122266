package pc

// i8042 ports and bits.
const (
	KBCData   = 0x60
	KBCStatus = 0x64

	kbcStatusOutputFull = 0x01
	kbcStatusIdle       = 0x1C // system flag, command/data, unlocked

	kbcCmdResetCPU = 0xFE
)

// IRQKeyboard is the legacy keyboard interrupt line.
const IRQKeyboard = 1

// KBC is an i8042 keyboard controller holding set 1 scan codes.
type KBC struct {
	queue []byte
	last  byte

	raise func(irq uint8)
	reset func()
}

func (k *KBC) ReadPort(port uint16) uint8 {
	switch port {
	case KBCStatus:
		if len(k.queue) > 0 {
			return kbcStatusIdle | kbcStatusOutputFull
		}
		return kbcStatusIdle
	case KBCData:
		if len(k.queue) > 0 {
			k.last = k.queue[0]
			k.queue = k.queue[1:]
		}
		return k.last
	}
	return 0xFF
}

func (k *KBC) WritePort(port uint16, v uint8) {
	if port == KBCStatus && v == kbcCmdResetCPU && k.reset != nil {
		k.reset()
	}
}

func (k *KBC) push(codes []byte) {
	if len(codes) == 0 {
		return
	}
	k.queue = append(k.queue, codes...)
	if k.raise != nil {
		k.raise(IRQKeyboard)
	}
}

// Pending returns the number of scan codes not yet read.
func (k *KBC) Pending() int { return len(k.queue) }
