// Package main implements the taskpad command, which serves the task list
// over HTTP and manipulates it from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/taskpad/internal/config"
	"github.com/phrazzld/taskpad/internal/store"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// Process exit codes.
const (
	exitSuccess      = 0
	exitUserError    = 1
	exitConfigError  = 2
	exitStorageError = 3
)

// errCanceled is returned when the user declines a confirmation prompt.
var errCanceled = errors.New("canceled")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, errCanceled) {
		fmt.Fprintln(stdout, "Canceled.")
		return exitSuccess
	}

	fmt.Fprintln(stderr, "Error:", err)
	return exitCode(err)
}

// exitCode maps an error returned by a command to a process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, errLoadConfig):
		return exitConfigError
	case store.IsUnavailableError(err), store.IsQuotaError(err), errors.Is(err, errOpenStorage):
		return exitStorageError
	default:
		// Validation failures, unknown or ambiguous task references.
		return exitUserError
	}
}

// messageError reports a user-facing message while keeping the underlying
// error available to errors.Is for exit code mapping.
type messageError struct {
	message string
	err     error
}

func (e *messageError) Error() string {
	return e.message
}

func (e *messageError) Unwrap() error {
	return e.err
}
