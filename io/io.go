// Package haggisio handles terminal output for the haggis command and
// examples: stream redirection, color detection and leveled logging.
package haggisio

import (
	stdio "io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// ColorMode selects how color support is decided
type ColorMode int

const (
	ColorAuto   ColorMode = iota // environment and terminal heuristics
	ColorAlways                  // always emit ANSI sequences
	ColorNever                   // never emit ANSI sequences
)

// ParseColorMode maps "auto", "always" and "never" to a ColorMode
func ParseColorMode(s string) (ColorMode, bool) {
	switch strings.ToLower(s) {
	case "", "auto":
		return ColorAuto, true
	case "always", "force":
		return ColorAlways, true
	case "never", "none":
		return ColorNever, true
	default:
		return ColorAuto, false
	}
}

// IOManager centralizes IO streams and terminal capabilities
type IOManager struct {
	out stdio.Writer
	err stdio.Writer

	mode               ColorMode
	forceColorLevel    int
	hasForceColorLevel bool
}

// New returns a manager bound to process stdio
func New() *IOManager {
	m := &IOManager{out: os.Stdout, err: os.Stderr}
	return m
}

// WithOut sets the standard output writer and returns the manager for chaining.
func (m *IOManager) WithOut(w stdio.Writer) *IOManager { m.out = w; return m }

// WithErr sets the standard error writer and returns the manager for chaining.
func (m *IOManager) WithErr(w stdio.Writer) *IOManager { m.err = w; return m }

// WithColorMode sets how color support is decided
func (m *IOManager) WithColorMode(mode ColorMode) *IOManager { m.mode = mode; return m }

// ForceColor forces color output on, regardless of environment.
func (m *IOManager) ForceColor() *IOManager { return m.WithColorMode(ColorAlways) }

// NoColor disables color output, regardless of environment.
func (m *IOManager) NoColor() *IOManager { return m.WithColorMode(ColorNever) }

// ForceColorLevel forces a specific color level (0=none, 1=16, 2=256, 3=truecolor).
func (m *IOManager) ForceColorLevel(level int) *IOManager {
	m.forceColorLevel = level
	m.hasForceColorLevel = true
	return m
}

// Out returns the configured standard output writer.
func (m *IOManager) Out() stdio.Writer { return m.out }

// Err returns the configured standard error writer.
func (m *IOManager) Err() stdio.Writer { return m.err }

// IsTTY reports whether the output writer is a terminal
func (m *IOManager) IsTTY() bool { return isTerminal(m.out) }

// Width returns the terminal width, COLUMNS, or 80
func (m *IOManager) Width() int {
	if w, ok := termWidth(m.out); ok {
		return w
	}
	if w := envSize("COLUMNS"); w > 0 {
		return w
	}
	return 80
}

// SupportsColor reports whether ANSI sequences should be written to Out
func (m *IOManager) SupportsColor() bool {
	switch m.mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if !m.IsTTY() {
		return false
	}
	if !enableVirtualTerminal(m.out) {
		return false
	}
	t := os.Getenv("TERM")
	return t != "dumb"
}

// ColorLevel returns 0 for none, 1 for basic, 2 for 256 colors, and 3 for truecolor.
func (m *IOManager) ColorLevel() int {
	if m.hasForceColorLevel {
		return m.forceColorLevel
	}
	if !m.SupportsColor() {
		return 0
	}

	colorterm := os.Getenv("COLORTERM")
	if colorterm == "truecolor" || colorterm == "24bit" {
		return 3
	}
	t := os.Getenv("TERM")
	if strings.Contains(t, "truecolor") || strings.Contains(t, "24bit") {
		return 3
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "vscode", "zed", "iTerm.app", "WezTerm":
		return 3
	}
	// Windows Terminal
	if os.Getenv("WT_SESSION") != "" {
		return 3
	}
	if strings.Contains(t, "256color") {
		return 2
	}
	return 1
}

// Colorize wraps s with the given ANSI SGR code (e.g., "31" for red) and a
// trailing reset. If color is not supported, it returns s unchanged.
func (m *IOManager) Colorize(s, code string) string {
	if !m.SupportsColor() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

// Bold returns s in bold when color is supported; otherwise s unchanged.
func (m *IOManager) Bold(s string) string { return m.Colorize(s, "1") }

// Faint returns s in faint intensity when supported; otherwise s unchanged.
func (m *IOManager) Faint(s string) string { return m.Colorize(s, "2") }

// fder is satisfied by *os.File
type fder interface {
	Fd() uintptr
}

func isTerminal(v any) bool {
	f, ok := v.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

func termWidth(v any) (int, bool) {
	f, ok := v.(fder)
	if !ok {
		return 0, false
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return 0, false
	}
	return w, true
}

func envSize(name string) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return 0
	}
	return n
}
