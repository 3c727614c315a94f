//go:build !windows

package haggisio

// enableVirtualTerminal is a no-op: ANSI terminals need no setup
func enableVirtualTerminal(any) bool { return true }
