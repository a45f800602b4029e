package editor

// Key identifies a non-printable key. Printable input arrives as KeyRune.
type Key int

const (
	KeyNone Key = iota
	KeyRune
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyEscape
)

// Modifiers is a bit set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModMeta
)

// Has reports whether every modifier in m2 is held.
func (m Modifiers) Has(m2 Modifiers) bool {
	return m&m2 == m2
}

// Command reports whether Ctrl or Cmd is held.
func (m Modifiers) Command() bool {
	return m&(ModCtrl|ModMeta) != 0
}

// Toggle reports whether a selection-toggling modifier is held.
func (m Modifiers) Toggle() bool {
	return m&(ModCtrl|ModMeta|ModShift) != 0
}

// KeyEvent represents either a regular character or a special key
type KeyEvent struct {
	Key  Key
	Rune rune
	Mods Modifiers
}

// IsSpecial returns true if this is a special key event
func (k KeyEvent) IsSpecial() bool {
	return k.Key != KeyRune && k.Key != KeyNone
}

// is reports whether k is the command shortcut for r, case-insensitively.
func (k KeyEvent) is(r rune) bool {
	if k.Key != KeyRune || !k.Mods.Command() {
		return false
	}
	return k.Rune == r || k.Rune == r-'a'+'A'
}

// Button is a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a pointer position in screen coordinates. The editor
// converts it to diagram space through its viewport provider.
type PointerEvent struct {
	X, Y   float64
	Button Button
	Mods   Modifiers
}
