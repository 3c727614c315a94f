package haggis

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Cast converts one command-line token into a typed value:
//
//	""  / whitespace only      -> null
//	"true" / "false" (any case) -> bool
//	numeric text               -> int when integral, float otherwise
//	anything else              -> the original string, untouched
//
// Numeric text follows the JavaScript Number grammar: decimal with optional
// fraction and exponent, Infinity, and 0x / 0o / 0b prefixed integers.
func Cast(text string) Value {
	trimmed := strings.TrimFunc(text, isSpace)
	if trimmed == "" {
		return Null()
	}

	if strings.EqualFold(trimmed, "true") {
		return Bool(true)
	}
	if strings.EqualFold(trimmed, "false") {
		return Bool(false)
	}

	if f, ok := parseNumber(trimmed); ok {
		return numberValue(f)
	}

	return String(text)
}

// isSpace matches the characters JavaScript's String.prototype.trim removes:
// Unicode spaces and line terminators plus U+FEFF, but not U+0085
func isSpace(r rune) bool {
	switch r {
	case '\uFEFF':
		return true
	case '\u0085':
		return false
	}
	return unicode.IsSpace(r)
}

// numberValue folds integral numbers that fit an int64 into KindInt
func numberValue(f float64) Value {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return Float(f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f))
	}
	return Float(f)
}

// parseNumber parses s with the JavaScript Number grammar. s is already trimmed.
func parseNumber(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	// Prefixed integers take no sign
	if len(s) > 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return parseRadix(s[2:], 16)
		case 'o', 'O':
			return parseRadix(s[2:], 8)
		case 'b', 'B':
			return parseRadix(s[2:], 2)
		}
	}

	if !isDecimal(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range input saturates to ±Inf or 0, same as Number()
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// parseRadix accumulates digits of the given base. Large inputs lose
// precision instead of overflowing.
func parseRadix(digits string, base int) (float64, bool) {
	if digits == "" {
		return 0, false
	}

	result := 0.0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		var digit int

		switch {
		case c >= '0' && c <= '9':
			digit = int(c - '0')
		case c >= 'a' && c <= 'f':
			digit = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			digit = int(c-'A') + 10
		default:
			return 0, false
		}

		if digit >= base {
			return 0, false
		}
		result = result*float64(base) + float64(digit)
	}

	return result, true
}

// isDecimal validates [+-] (digits [. digits] | . digits) [(e|E) [+-] digits]
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	mantissa := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		mantissa++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			mantissa++
		}
	}
	if mantissa == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exponent := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exponent++
		}
		if exponent == 0 {
			return false
		}
	}

	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
