package main

import (
	"errors"
	"fmt"

	"github.com/dzonerzy/haggis/haggis"
)

// Exit codes
const (
	exitSuccess  = 0
	exitGeneral  = 1
	exitMisuse   = 2
	exitTemplate = 3
)

// usageError marks invalid flags or settings
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exitCode maps an error to a process exit code:
//
//	usage errors           -> 2
//	template errors        -> 3
//	everything else        -> 1
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return exitMisuse
	}

	var herr *haggis.Error
	if errors.As(err, &herr) {
		switch herr.Type {
		case haggis.ErrorTypeInvalidTemplate, haggis.ErrorTypeFormat, haggis.ErrorTypeUnsupportedType:
			return exitTemplate
		case haggis.ErrorTypeIO, haggis.ErrorTypeDecode:
			return exitGeneral
		}
	}

	return exitGeneral
}
