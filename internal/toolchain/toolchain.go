// Package toolchain runs the external packaging and upload commands.
//
// Commands are configured as strings and split into argv with shell quoting
// rules; they are never passed to a shell. Output is captured rather than
// streamed, and only surfaces (as a tail) when the command fails.
package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"

	rerrors "github.com/thejcannon/alacarte/internal/errors"
	"github.com/thejcannon/alacarte/internal/logfields"
)

// ErrEmptyCommand is returned when a command string has no words.
var ErrEmptyCommand = errors.New("empty command")

// maxOutputTail bounds the captured output attached to a command error.
const maxOutputTail = 4096

// Runner executes argv inside dir. Implementations must honor ctx
// cancellation for long-running processes.
type Runner interface {
	Run(ctx context.Context, dir string, argv []string) error
}

// RunnerFunc adapts a function to the Runner interface.
type RunnerFunc func(ctx context.Context, dir string, argv []string) error

func (f RunnerFunc) Run(ctx context.Context, dir string, argv []string) error {
	return f(ctx, dir, argv)
}

// ParseCommand splits a configured command line into argv.
func ParseCommand(command string) ([]string, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, ErrEmptyCommand
	}
	return argv, nil
}

// ExecRunner runs commands as child processes with stdout and stderr captured.
type ExecRunner struct{}

// NewExecRunner returns the process-backed Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, argv []string) error {
	if len(argv) == 0 {
		return ErrEmptyCommand
	}
	command := strings.Join(argv, " ")

	// #nosec G204 -- argv comes from the release configuration
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	slog.Debug("Running command", logfields.Command(command), logfields.Path(dir))
	err := cmd.Run()
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return rerrors.CommandFailed(command, dir, exitCode, tail(output.String(), maxOutputTail), err)
}

// tail returns at most n trailing bytes of s, starting on a line boundary
// when one is available.
func tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	if i := strings.IndexByte(s, '\n'); i >= 0 && i < len(s)-1 {
		s = s[i+1:]
	}
	return s
}
