// Package errs wraps cockroachdb/errors so the rest of the codebase gets
// stack traces and sentinel marking without importing it directly.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

// New returns an error carrying a stack trace.
func New(msg string) error {
	return cr.New(msg)
}

// Wrap annotates err with msg, keeping the original cause chain.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr as an errors.Is target of err. A nil err collapses
// to the bare sentinel.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// ExtractStackLines renders err verbosely and returns at most maxLines of
// it, for structured logs that want a trace without the full dump.
func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
