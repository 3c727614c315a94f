//go:build windows

package haggisio

import "golang.org/x/sys/windows"

// enableVirtualTerminal turns on ANSI processing for a console handle
func enableVirtualTerminal(v any) bool {
	f, ok := v.(fder)
	if !ok {
		return false
	}
	h := windows.Handle(f.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return false
	}
	if mode&windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING != 0 {
		return true
	}
	return windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING) == nil
}
