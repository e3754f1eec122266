package pc

// SysCtlA is the PS/2 system control port A; bit 0 requests a fast reset.
const SysCtlA = 0x92

const sysCtlFastReset = 0x01

type sysCtl struct {
	value uint8
	reset func()
}

func (s *sysCtl) ReadPort(uint16) uint8 { return s.value &^ sysCtlFastReset }

func (s *sysCtl) WritePort(_ uint16, v uint8) {
	s.value = v
	if v&sysCtlFastReset != 0 && s.reset != nil {
		s.reset()
	}
}
