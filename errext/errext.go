// Package errext provides typed-error helpers the CLI collaborator uses to
// attach a human-readable hint and a process exit code to an error without
// the core histogram package ever importing os or knowing about exit codes.
package errext

import (
	"errors"
	"fmt"

	"github.com/liuxd6825/circllhist/errext/exitcodes"
)

// HasHint is implemented by an error that carries a user-facing
// explanation beyond its Error() message.
type HasHint interface {
	error
	Hint() string
}

// HasExitCode is implemented by an error that dictates the process exit
// code main should use.
type HasExitCode interface {
	error
	ExitCode() exitcodes.ExitCode
}

// AbortReason classifies why an Exception unwound the whole program,
// mirroring the taxonomy a scripting-engine-hosting CLI would need; kept
// here for interface parity with the corpus's errext even though this
// module's core never throws.
type AbortReason uint8

// Exception is an error that carries its own fully-formed stack trace,
// used in place of Error() when logging.
type Exception interface {
	error
	StackTrace() string
	AbortReason() AbortReason
}

type hintedError struct {
	err  error
	hint string
}

// Error delegates to the wrapped error: the hint is sidecar information
// surfaced via Hint(), not folded into the plain error message.
func (e hintedError) Error() string { return e.err.Error() }
func (e hintedError) Hint() string  { return e.hint }
func (e hintedError) Unwrap() error { return e.err }

// WithHint wraps err so that it carries hint, composing with any hint
// already attached to err (an outer hint reads "outer (inner)"). Returns
// nil if err is nil.
func WithHint(err error, hint string) error {
	if err == nil {
		return nil
	}
	var existing HasHint
	if errors.As(err, &existing) {
		hint = fmt.Sprintf("%s (%s)", hint, existing.Hint())
	}
	return hintedError{err: err, hint: hint}
}

type exitCodeError struct {
	error
	exitCode exitcodes.ExitCode
}

func (e exitCodeError) ExitCode() exitcodes.ExitCode { return e.exitCode }
func (e exitCodeError) Unwrap() error                { return e.error }

// WithExitCodeIfNone wraps err with exitCode unless err (or something it
// wraps) already carries an exit code, in which case the existing code
// wins. Returns nil if err is nil.
func WithExitCodeIfNone(err error, exitCode exitcodes.ExitCode) error {
	if err == nil {
		return nil
	}
	var existing HasExitCode
	if errors.As(err, &existing) {
		return err
	}
	return exitCodeError{error: err, exitCode: exitCode}
}
