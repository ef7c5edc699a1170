// Package gitops maintains the tracking branches that re-trigger CI in the
// current repository when one of its upstream repositories changes.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single command when the runner has no timeout set.
const DefaultTimeout = 5 * time.Minute

// Result holds the captured output of a command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns trimmed stdout, or trimmed stderr when stdout is empty.
func (r Result) Output() string {
	if out := strings.TrimSpace(r.Stdout); out != "" {
		return out
	}
	return strings.TrimSpace(r.Stderr)
}

// CommandError is returned when a command exits with a non-zero status.
type CommandError struct {
	Program string
	Args    []string
	Result  Result
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s %s: exit status %d", e.Program, strings.Join(e.Args, " "), e.Result.ExitCode)
	if out := strings.TrimSpace(e.Result.Stderr); out != "" {
		msg += ": " + out
	}
	return msg
}

// ExitCode returns the exit status carried by err, or -1 when err is not a
// *CommandError.
func ExitCode(err error) int {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Result.ExitCode
	}
	return -1
}

// Runner executes a program in a working directory.
type Runner interface {
	Run(ctx context.Context, dir, program string, args ...string) (Result, error)
}

// ExecRunner runs commands as local subprocesses.
type ExecRunner struct {
	Timeout time.Duration
	// Env is appended to the inherited process environment.
	Env map[string]string
}

// Run executes program with args in dir. A non-zero exit yields a
// *CommandError alongside the captured Result.
func (r *ExecRunner) Run(ctx context.Context, dir, program string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, program, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = dir

	cmd.Env = os.Environ()
	for k, v := range r.Env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		if ctx.Err() != nil {
			return res, fmt.Errorf("%s %s: %w", program, strings.Join(args, " "), ctx.Err())
		}
		return res, &CommandError{Program: program, Args: args, Result: res}
	}
	res.ExitCode = -1
	return res, fmt.Errorf("running %s: %w", program, err)
}
