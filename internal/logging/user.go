package logging

import (
	"fmt"
	"io"
	"os"
)

// User-facing output functions with status prefixes.
// They are separate from the structured debug logging; the writers can be
// swapped so command tests can capture what a user would see.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// SetOutput redirects user-facing output. Nil writers restore the defaults.
func SetOutput(out, errOut io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "ℹ "+format+"\n", args...)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...interface{}) {
	fmt.Fprintf(stdout, "✓ "+format+"\n", args...)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...interface{}) {
	fmt.Fprintf(stderr, "⚠ "+format+"\n", args...)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...interface{}) {
	fmt.Fprintf(stderr, "✗ "+format+"\n", args...)
}
