package cmd

import (
	"errors"
	"os"

	slangerrors "github.com/slanglang/slang/internal/errors"
)

// sysexits.h codes named by spec.md §6.
const (
	exitOK         = 0
	exitUsage      = 64
	exitDataErr    = 65
	exitNoInput    = 66
	exitSoftware   = 70
	exitCantCreate = 73
	exitIOErr      = 74
	exitNoPerm     = 77
)

// cliError wraps an error with the sysexits.h code Execute should exit
// with, distinguishing "compiled fine but the input was bad" (65) from
// "the filesystem wouldn't cooperate" (66/73/74/77) kinds of failure a
// bare Go error can't otherwise be told apart from a usage mistake (64).
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func usageError(err error) error      { return &cliError{code: exitUsage, err: err} }
func dataError(err error) error       { return &cliError{code: exitDataErr, err: err} }
func noInputError(err error) error    { return &cliError{code: exitNoInput, err: err} }
func softwareError(err error) error   { return &cliError{code: exitSoftware, err: err} }
func cantCreateError(err error) error { return &cliError{code: exitCantCreate, err: err} }
func ioError(err error) error         { return &cliError{code: exitIOErr, err: err} }
func permError(err error) error       { return &cliError{code: exitNoPerm, err: err} }

// exitCode maps err to its sysexits.h code. A nil err is success; a
// *cliError reports its own code; anything else (a cobra flag-parsing
// error, typically) falls back to 64 (usage), matching cobra's own
// convention of treating RunE errors from bad invocation as usage
// mistakes.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return exitUsage
}

// fileReadError classifies an os.ReadFile failure per sysexits.h:
// missing file is "no input" (66), a permission failure is "no perm"
// (77), anything else is a generic I/O error (74).
func fileReadError(err error) error {
	switch {
	case os.IsNotExist(err):
		return noInputError(err)
	case os.IsPermission(err):
		return permError(err)
	default:
		return ioError(err)
	}
}

// diagnosticsError wraps a failed compile phase's diagnostics as a
// data error (65): the input was well-formed as a file but not as a
// Slang program.
func diagnosticsError(diags []*slangerrors.Diagnostic) error {
	return dataError(errorsFromDiagnostics(diags))
}

func errorsFromDiagnostics(diags []*slangerrors.Diagnostic) error {
	return errors.New(slangerrors.FormatAll(diags, false))
}
