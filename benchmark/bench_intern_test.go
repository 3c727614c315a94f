package benchmark

import (
	"testing"

	"github.com/dzonerzy/haggis/internal/intern"
)

// Category: intern

func BenchmarkStringInterner_Intern(b *testing.B) {
	interner := intern.NewStringInterner(0)
	testStrings := []string{"count", "exclude", "source", "destination", "positional"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interner.Intern(testStrings[i%len(testStrings)])
	}
}

func BenchmarkStringInterner_InternRune(b *testing.B) {
	interner := intern.NewStringInterner(0)
	letters := []rune{'a', 'x', 'Z', '9', 'é', 'λ'}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		interner.InternRune(letters[i%len(letters)])
	}
}

func BenchmarkGlobalIntern(b *testing.B) {
	testStrings := []string{"count", "exclude", "source", "destination", "positional"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		intern.Intern(testStrings[i%len(testStrings)])
	}
}
