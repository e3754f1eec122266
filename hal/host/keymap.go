//go:build !baremetal && cgo

package host

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

var keymap = map[ebiten.Key]scanKey{
	ebiten.KeyEscape: 0x01,
	ebiten.KeyDigit1: 0x02, ebiten.KeyDigit2: 0x03, ebiten.KeyDigit3: 0x04, ebiten.KeyDigit4: 0x05,
	ebiten.KeyDigit5: 0x06, ebiten.KeyDigit6: 0x07, ebiten.KeyDigit7: 0x08, ebiten.KeyDigit8: 0x09,
	ebiten.KeyDigit9: 0x0A, ebiten.KeyDigit0: 0x0B,
	ebiten.KeyMinus: 0x0C, ebiten.KeyEqual: 0x0D, ebiten.KeyBackspace: 0x0E, ebiten.KeyTab: 0x0F,
	ebiten.KeyQ: 0x10, ebiten.KeyW: 0x11, ebiten.KeyE: 0x12, ebiten.KeyR: 0x13, ebiten.KeyT: 0x14,
	ebiten.KeyY: 0x15, ebiten.KeyU: 0x16, ebiten.KeyI: 0x17, ebiten.KeyO: 0x18, ebiten.KeyP: 0x19,
	ebiten.KeyBracketLeft: 0x1A, ebiten.KeyBracketRight: 0x1B, ebiten.KeyEnter: 0x1C,
	ebiten.KeyControlLeft: 0x1D,
	ebiten.KeyA: 0x1E, ebiten.KeyS: 0x1F, ebiten.KeyD: 0x20, ebiten.KeyF: 0x21, ebiten.KeyG: 0x22,
	ebiten.KeyH: 0x23, ebiten.KeyJ: 0x24, ebiten.KeyK: 0x25, ebiten.KeyL: 0x26,
	ebiten.KeySemicolon: 0x27, ebiten.KeyQuote: 0x28, ebiten.KeyBackquote: 0x29,
	ebiten.KeyShiftLeft: 0x2A, ebiten.KeyBackslash: 0x2B,
	ebiten.KeyZ: 0x2C, ebiten.KeyX: 0x2D, ebiten.KeyC: 0x2E, ebiten.KeyV: 0x2F, ebiten.KeyB: 0x30,
	ebiten.KeyN: 0x31, ebiten.KeyM: 0x32,
	ebiten.KeyComma: 0x33, ebiten.KeyPeriod: 0x34, ebiten.KeySlash: 0x35, ebiten.KeyShiftRight: 0x36,
	ebiten.KeyNumpadMultiply: 0x37, ebiten.KeyAltLeft: 0x38, ebiten.KeySpace: 0x39, ebiten.KeyCapsLock: 0x3A,
	ebiten.KeyF1: 0x3B, ebiten.KeyF2: 0x3C, ebiten.KeyF3: 0x3D, ebiten.KeyF4: 0x3E, ebiten.KeyF5: 0x3F,
	ebiten.KeyF6: 0x40, ebiten.KeyF7: 0x41, ebiten.KeyF8: 0x42, ebiten.KeyF9: 0x43, ebiten.KeyF10: 0x44,
	ebiten.KeyNumLock: 0x45, ebiten.KeyScrollLock: 0x46,
	ebiten.KeyNumpad7: 0x47, ebiten.KeyNumpad8: 0x48, ebiten.KeyNumpad9: 0x49, ebiten.KeyNumpadSubtract: 0x4A,
	ebiten.KeyNumpad4: 0x4B, ebiten.KeyNumpad5: 0x4C, ebiten.KeyNumpad6: 0x4D, ebiten.KeyNumpadAdd: 0x4E,
	ebiten.KeyNumpad1: 0x4F, ebiten.KeyNumpad2: 0x50, ebiten.KeyNumpad3: 0x51,
	ebiten.KeyNumpad0: 0x52, ebiten.KeyNumpadDecimal: 0x53,
	ebiten.KeyF11: 0x57, ebiten.KeyF12: 0x58,

	ebiten.KeyNumpadEnter:  extended | 0x1C,
	ebiten.KeyControlRight: extended | 0x1D,
	ebiten.KeyNumpadDivide: extended | 0x35,
	ebiten.KeyAltRight:     extended | 0x38,
	ebiten.KeyHome:         extended | 0x47,
	ebiten.KeyArrowUp:      extended | 0x48,
	ebiten.KeyPageUp:       extended | 0x49,
	ebiten.KeyArrowLeft:    extended | 0x4B,
	ebiten.KeyArrowRight:   extended | 0x4D,
	ebiten.KeyEnd:          extended | 0x4F,
	ebiten.KeyArrowDown:    extended | 0x50,
	ebiten.KeyPageDown:     extended | 0x51,
	ebiten.KeyInsert:       extended | 0x52,
	ebiten.KeyDelete:       extended | 0x53,
}

// hostKeyboard turns window key transitions into set 1 scan codes.
type hostKeyboard struct {
	keys []ebiten.Key
}

func (k *hostKeyboard) poll(dst []byte) []byte {
	k.keys = inpututil.AppendJustReleasedKeys(k.keys[:0])
	for _, key := range k.keys {
		if sc, ok := keymap[key]; ok {
			dst = sc.appendBreak(dst)
		}
	}

	k.keys = inpututil.AppendPressedKeys(k.keys[:0])
	for _, key := range k.keys {
		sc, ok := keymap[key]
		if !ok {
			continue
		}
		d := inpututil.KeyPressDuration(key)
		if d == 1 || (sc.repeats() && typematic(d)) {
			dst = sc.appendMake(dst)
		}
	}
	return dst
}
