package keys

import (
	"strings"
)

// Mod is a bitmask of chord modifiers.
type Mod uint8

const (
	ModCtrl Mod = 1 << iota
	ModShift
	ModAlt
	ModSuper
)

// Chord is one key press with its modifiers. Key is the lowercase name
// of a special key ("return", "escape", "page_down", ...) or the
// literal rune for printable keys, kept case-sensitive so "g" and "G"
// stay distinct.
type Chord struct {
	Key  string
	Mods Mod
}

// specialKeys normalizes the accepted spellings of non-printable keys.
var specialKeys = map[string]string{
	"return": "return", "enter": "return", "kp_enter": "kp_enter",
	"escape": "escape", "esc": "escape",
	"tab":       "tab",
	"delete":    "delete", "del": "delete",
	"backspace": "backspace",
	"up":        "up", "down": "down", "left": "left", "right": "right",
	"home":      "home", "end": "end",
	"page_up":   "page_up", "pageup": "page_up", "pgup": "page_up",
	"page_down": "page_down", "pagedown": "page_down", "pgdn": "page_down",
	"space":     "space",
}

// ParseChord parses a single +-joined chord string like "Ctrl+u" or
// "Shift+Tab". Unknown keys return false.
func ParseChord(s string) (Chord, bool) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 {
		return Chord{}, false
	}

	var mods Mod
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(p) {
		case "ctrl", "control":
			mods |= ModCtrl
		case "shift":
			mods |= ModShift
		case "alt", "mod1":
			mods |= ModAlt
		case "super", "mod4":
			mods |= ModSuper
		default:
			return Chord{}, false
		}
	}

	keyStr := parts[len(parts)-1]
	if special, ok := specialKeys[strings.ToLower(keyStr)]; ok {
		return Chord{Key: special, Mods: mods}, true
	}
	if len([]rune(keyStr)) == 1 {
		return Chord{Key: keyStr, Mods: mods}, true
	}
	return Chord{}, false
}

// ParseChords parses a space-separated list of alternative chords, as
// found in a keybind config value. Malformed chords are skipped.
func ParseChords(s string) []Chord {
	var out []Chord
	for _, tok := range strings.Fields(s) {
		if c, ok := ParseChord(tok); ok {
			out = append(out, c)
		}
	}
	return out
}

// isRuneKey reports whether the chord's key is a single printable rune
// rather than a named special key.
func (c Chord) isRuneKey() bool {
	return len([]rune(c.Key)) == 1
}

// Text returns the literal text the chord contributes to a search
// query, or "" for special keys and modified chords.
func (c Chord) Text() string {
	if c.Key == "space" && c.Mods == 0 {
		return " "
	}
	if !c.isRuneKey() || c.Mods&^ModShift != 0 {
		return ""
	}
	return c.Key
}

// equal compares chords for dispatch. Shift is ignored on rune keys
// because the rune already encodes the case.
func (c Chord) equal(o Chord) bool {
	cm, om := c.Mods, o.Mods
	if c.isRuneKey() {
		cm &^= ModShift
		om &^= ModShift
	}
	return c.Key == o.Key && cm == om
}
