package engine

// KeyKind classifies a key press delivered to the session.
type KeyKind int

const (
	KeyRune KeyKind = iota
	KeyBackspace
	KeyToggle
	KeyEnter
	KeyEscape
	KeyInterrupt
	KeyUp
	KeyDown
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyClearQuery
	KeyCycleSort
)

// Key is a terminal-independent key press. Rune is only meaningful for
// KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey returns a KeyRune event for r.
func RuneKey(r rune) Key {
	return Key{Kind: KeyRune, Rune: r}
}
