package languagefilter

// Key is a key code as reported by the host input element.
// Printable keys use their code point.
type Key int

const (
	KeyBackspace Key = 8
	KeyTab       Key = 9
	KeyEnter     Key = 13
)

// RuneKey returns the key for a typed character.
func RuneKey(r rune) Key {
	return Key(r)
}

// isControl reports keys that never trigger a search.
func (k Key) isControl() bool {
	return k < 32 && k != KeyBackspace
}
