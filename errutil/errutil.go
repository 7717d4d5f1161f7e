// Package errutil collects the small set of invariant-checking helpers used
// across the repository's builders and readers.
package errutil

import "fmt"

// debug gates the panicking invariant checks. Builders and query paths call
// Bug/BugOn/BugOnNotEq unconditionally; while debug is false every one of
// those checks is a no-op, in builders as well as in query paths.
const debug = false

// First returns the first non-nil error, or nil if all are nil. Builders
// that perform several independent steps before deciding whether the whole
// operation failed use this to pick the error to report.
func First(errs ...error) error {
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// FatalIf panics with err's message. Used for invariant violations that
// indicate a corrupted artifact or a builder bug, never for ordinary
// runtime failures (I/O, bad user input), which must be returned as errors.
func FatalIf(err error) {
	if err == nil {
		return
	}
	panic(fmt.Sprintf("FATAL: %v", err))
}

// Bug panics with the formatted message when debug is enabled.
func Bug(format string, msg ...any) {
	if debug {
		panic(fmt.Sprintf(format, msg...))
	}
}

// BugOn calls Bug when cond is true.
func BugOn(cond bool, format string, msg ...any) {
	if debug && cond {
		Bug(format, msg...)
	}
}

// BugOnNotEq calls Bug when a != b.
func BugOnNotEq(a, b any) {
	if a == b {
		return
	}
	Bug("BUG: a != b, %v != %v", a, b)
}
