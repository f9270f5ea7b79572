package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/go-logr/logr"
)

// waitDelay bounds how long Run waits for grandchildren holding the output
// pipes after the shell itself has been killed.
const waitDelay = 5 * time.Second

// Result is the captured outcome of a finished command.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs a command and returns its captured result.
type Executor interface {
	Run(ctx context.Context, command string, opts ...Option) (*Result, error)
}

// RunOptions controls a single Run call.
type RunOptions struct {
	// Strict turns a non-zero exit status into a *CommandError.
	Strict bool
}

// Option is a functional option for a single Run call.
type Option func(*RunOptions)

// Lenient disables the non-zero exit check for one call.
func Lenient() Option {
	return func(o *RunOptions) {
		o.Strict = false
	}
}

// ApplyOptions returns the effective options for a call. Strict is the default.
func ApplyOptions(opts ...Option) RunOptions {
	o := RunOptions{Strict: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Check returns a *CommandError for a failed result when the call is strict.
func (o RunOptions) Check(res *Result) error {
	if o.Strict && res.ExitCode != 0 {
		return &CommandError{
			Command:  res.Command,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
		}
	}
	return nil
}

// Local runs commands through `bash -c` on the machine running swarmup.
type Local struct {
	// Shell is the interpreter used to run commands. Defaults to "bash".
	Shell string

	log logr.Logger
}

// NewLocal creates a local executor that traces commands to log at V(1).
func NewLocal(log logr.Logger) *Local {
	return &Local{Shell: "bash", log: log}
}

// Run executes command in a subshell and waits for it to exit.
func (l *Local) Run(ctx context.Context, command string, opts ...Option) (*Result, error) {
	o := ApplyOptions(opts...)

	sh := l.Shell
	if sh == "" {
		sh = "bash"
	}

	l.log.V(1).Info("running command", "command", command)

	// #nosec G204 - commands are assembled from the operator's cluster file
	cmd := exec.CommandContext(ctx, sh, "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	res := &Result{
		Command: command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return res, fmt.Errorf("failed to run %q: %w", command, err)
		}
		res.ExitCode = exitErr.ExitCode()
		if res.ExitCode < 0 {
			// Killed by a signal, usually because ctx was cancelled.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, fmt.Errorf("command %q interrupted: %w", command, ctxErr)
			}
			return res, fmt.Errorf("command %q terminated: %w", command, err)
		}
	}

	if err := o.Check(res); err != nil {
		return res, err
	}
	return res, nil
}
