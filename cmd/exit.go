package main

import (
	"errors"
	"fmt"
)

// Exit codes, one per failure class.
const (
	exitOK         = 0
	exitItemErrors = 1
	exitSetup      = 2
	exitConfig     = 3
	exitRemote     = 4
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// errItemFailures signals that the batch finished but some items failed.
// Those failures were already logged one by one.
var errItemFailures = withExitCode(exitItemErrors, nil)

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitSetup
}
