package shell

import (
	"errors"
	"fmt"
	"strings"
)

// CommandError is returned when a strict command exits with a non-zero status.
type CommandError struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "non-zero (%d) exit code for %q", e.ExitCode, e.Command)
	if out := strings.TrimSpace(e.Stdout); out != "" {
		fmt.Fprintf(&b, "\nOut: %s", out)
	}
	if errOut := strings.TrimSpace(e.Stderr); errOut != "" {
		fmt.Fprintf(&b, "\nErr: %s", errOut)
	}
	return b.String()
}

// IsCommandError reports whether err wraps a *CommandError.
func IsCommandError(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr)
}
