//go:build !baremetal

package host

// scanKey is a set 1 make code; extended keys carry the 0xE0 prefix in the
// high byte.
type scanKey uint16

const extended scanKey = 0xE000

const (
	typematicDelay = 30 // frames before a held key repeats
	typematicRate  = 3  // frames between repeats
)

func (k scanKey) appendPrefix(dst []byte) []byte {
	if k&extended != 0 {
		dst = append(dst, 0xE0)
	}
	return dst
}

func (k scanKey) appendMake(dst []byte) []byte {
	return append(k.appendPrefix(dst), byte(k))
}

func (k scanKey) appendBreak(dst []byte) []byte {
	return append(k.appendPrefix(dst), byte(k)|0x80)
}

// repeats reports whether holding the key produces typematic makes.
// Shift and lock keys only send one.
func (k scanKey) repeats() bool {
	switch byte(k) {
	case 0x1D, 0x2A, 0x36, 0x38, 0x3A, 0x45, 0x46:
		return false
	}
	return true
}

// typematic reports whether a key held for frames should repeat now.
func typematic(frames int) bool {
	return frames > typematicDelay && (frames-typematicDelay)%typematicRate == 0
}
