// Package shell runs a single command string through the platform shell and
// captures its outcome. Command scenarios and manifest-declared tests both
// execute through it.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// maxOutputBytes is the threshold above which captured output is truncated
// to its head and tail.
const maxOutputBytes = 256 * 1024

// truncationLines is the number of lines kept from the head and tail of
// oversized output.
const truncationLines = 128

// waitDelay bounds how long Run waits for I/O after the process group is
// killed.
const waitDelay = 2 * time.Second

// ErrCommandFailed is wrapped by the error returned from Result.Err when the
// command exited non-zero or timed out.
var ErrCommandFailed = errors.New("command failed")

// Options controls how a command is executed.
type Options struct {
	// Shell is the interpreter used with "-c". Empty selects "sh" (or
	// "cmd /c" on Windows).
	Shell string

	// Dir is the working directory. Empty uses the process working directory.
	Dir string

	// Env holds extra KEY=VALUE entries appended to the process environment.
	Env []string

	// Timeout is the per-command deadline. Zero disables it.
	Timeout time.Duration
}

// Result holds the outcome of one command execution.
type Result struct {
	Command  string
	ExitCode int // -1 when the process could not start or timed out
	Stdout   string
	Stderr   string
	Duration time.Duration
	TimedOut bool
}

// Passed reports whether the command exited 0 within its deadline.
func (r *Result) Passed() bool { return r.ExitCode == 0 && !r.TimedOut }

// Err converts a failed Result into an error carrying the tail of the
// command's output. It returns nil for a passing result.
func (r *Result) Err() error {
	if r.Passed() {
		return nil
	}
	output := strings.TrimSpace(r.Stderr)
	if output == "" {
		output = strings.TrimSpace(r.Stdout)
	}
	if r.TimedOut {
		return fmt.Errorf("%q: %w: timed out after %s", r.Command, ErrCommandFailed, r.Duration.Round(time.Millisecond))
	}
	if output == "" {
		return fmt.Errorf("%q: %w: exit code %d", r.Command, ErrCommandFailed, r.ExitCode)
	}
	return fmt.Errorf("%q: %w: exit code %d: %s", r.Command, ErrCommandFailed, r.ExitCode, output)
}

// Run executes command and returns its Result.
//
// Run returns a non-nil error only when the parent context is cancelled
// before the command finishes. Non-zero exits and timeouts are reported in
// the Result.
func Run(ctx context.Context, opts Options, command string) (*Result, error) {
	start := time.Now()

	execCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	cmd := buildCommand(execCtx, opts.Shell, command)
	setProcGroup(cmd)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	res := &Result{
		Command:  command,
		Duration: time.Since(start),
	}

	if runErr != nil {
		switch {
		case ctx.Err() != nil:
			return nil, fmt.Errorf("shell: context cancelled while running %q: %w", command, ctx.Err())
		case errors.Is(execCtx.Err(), context.DeadlineExceeded):
			res.TimedOut = true
			res.ExitCode = -1
		default:
			var exitErr *exec.ExitError
			if errors.As(runErr, &exitErr) {
				res.ExitCode = exitErr.ExitCode()
			} else {
				res.ExitCode = -1
				stderrBuf.WriteString(runErr.Error())
			}
		}
	}

	res.Stdout = truncateOutput(stdoutBuf.String())
	res.Stderr = truncateOutput(stderrBuf.String())
	return res, nil
}

func buildCommand(ctx context.Context, shell, command string) *exec.Cmd {
	if shell != "" {
		return exec.CommandContext(ctx, shell, "-c", command)
	}
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/c", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

// truncateOutput keeps the first and last truncationLines lines of output
// larger than maxOutputBytes.
func truncateOutput(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= 2*truncationLines {
		return s[:maxOutputBytes]
	}
	omitted := len(lines) - 2*truncationLines
	head := strings.Join(lines[:truncationLines], "\n")
	tail := strings.Join(lines[len(lines)-truncationLines:], "\n")
	return fmt.Sprintf("%s\n... (%d lines omitted) ...\n%s", head, omitted, tail)
}
