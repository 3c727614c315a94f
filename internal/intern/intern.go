// Package intern provides canonical strings for single-letter field names.
// Used by the haggis resolver when a short flag letter matches no template
// field and becomes a field name of its own.
package intern

import (
	"sync"
	"unicode/utf8"
)

// StringInterner provides thread-safe string interning
type StringInterner struct {
	strings map[string]string
	mutex   sync.RWMutex
}

// NewStringInterner creates a new string interner with optional pre-allocated capacity
func NewStringInterner(capacity int) *StringInterner {
	if capacity <= 0 {
		capacity = 64
	}
	return &StringInterner{
		strings: make(map[string]string, capacity),
	}
}

// Intern returns the canonical copy of s
func (si *StringInterner) Intern(s string) string {
	si.mutex.RLock()
	if interned, exists := si.strings[s]; exists {
		si.mutex.RUnlock()
		return interned
	}
	si.mutex.RUnlock()

	si.mutex.Lock()
	defer si.mutex.Unlock()

	// Double-check after acquiring write lock
	if interned, exists := si.strings[s]; exists {
		return interned
	}
	si.strings[s] = s
	return s
}

// InternRune returns the canonical one-letter string for r. ASCII letters
// and digits come from a static table; other runes are interned.
func (si *StringInterner) InternRune(r rune) string {
	switch {
	case r >= 'a' && r <= 'z':
		return singleCharStrings[r-'a']
	case r >= 'A' && r <= 'Z':
		return singleCharStrings[26+r-'A']
	case r >= '0' && r <= '9':
		return singleCharStrings[52+r-'0']
	}
	if !utf8.ValidRune(r) {
		r = utf8.RuneError
	}
	return si.Intern(string(r))
}

// Len returns the number of interned strings
func (si *StringInterner) Len() int {
	si.mutex.RLock()
	defer si.mutex.RUnlock()
	return len(si.strings)
}

// Clear removes all interned strings
func (si *StringInterner) Clear() {
	si.mutex.Lock()
	defer si.mutex.Unlock()
	clear(si.strings)
}

// a-z (0-25), A-Z (26-51), 0-9 (52-61)
var singleCharStrings = [62]string{
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
	"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
	"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
	"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"0", "1", "2", "3", "4", "5", "6", "7", "8", "9",
}

// global holds runes outside the static table. Short flags are typed by
// people, so the set stays small.
var global = NewStringInterner(32)

// Intern interns s using the process-wide interner
func Intern(s string) string {
	return global.Intern(s)
}

// InternRune returns the canonical one-letter string for r using the
// process-wide interner
func InternRune(r rune) string {
	return global.InternRune(r)
}
