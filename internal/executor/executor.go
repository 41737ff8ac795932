package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/vtlab/vtshtest/internal/config"
)

// Result represents the outcome of a command execution.
type Result struct {
	Stdout    string
	Stderr    string
	ExitCode  int
	Truncated bool
}

// Spec describes a single command invocation.
type Spec struct {
	Command []string
	Dir     string
	Env     []string
	// Input, when non-empty, is written to the child's stdin in full;
	// the stream then reports end-of-input so a child reading to EOF
	// is never left blocked.
	Input string
}

// Runner abstracts command execution so callers can be tested without
// spawning real processes.
type Runner interface {
	Run(ctx context.Context, spec Spec) (*Result, error)
	RunWithTimeout(ctx context.Context, spec Spec, timeout time.Duration) (*Result, error)
}

// OSCommandExecutor implements command execution using os/exec for real system commands.
type OSCommandExecutor struct {
	config *config.Config
}

var _ Runner = (*OSCommandExecutor)(nil)

// NewOSCommandExecutor creates a new OSCommandExecutor with injected config.
func NewOSCommandExecutor(cfg *config.Config) *OSCommandExecutor {
	if cfg == nil {
		panic("cfg is required")
	}
	return &OSCommandExecutor{config: cfg}
}

// Run executes a command and returns the result. It buffers output internally
// and blocks until the command exits or ctx is cancelled.
func (f *OSCommandExecutor) Run(ctx context.Context, spec Spec) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = inputReader(spec)

	// The collectors are handed to os/exec directly; Wait does not return
	// until both streams are fully copied, so reads below see everything.
	stdout, stderr := f.newCollectors()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: spec.Command[0], Cause: err, Stage: "start"}
	}

	err := cmd.Wait()
	exitCode := 0
	if err != nil {
		exitCode = f.getExitCode(err)
	}

	return &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}, err
}

// RunWithTimeout executes a command with a hard wall-clock deadline. On expiry
// the child is asked to stop (SIGINT), given a short grace period, then killed.
// The child is reaped before this returns; no process survives a timeout.
func (f *OSCommandExecutor) RunWithTimeout(ctx context.Context, spec Spec, timeout time.Duration) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, os.ErrInvalid
	}

	// We don't use CommandContext's timeout here because we want to handle
	// graceful shutdown ourselves.
	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = inputReader(spec)

	stdout, stderr := f.newCollectors()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return nil, &CommandError{Cmd: spec.Command[0], Cause: err, Stage: "start"}
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	grace := time.Duration(f.config.Harness.GracefulShutdownMs) * time.Millisecond

	var execErr error
	select {
	case err := <-done:
		execErr = err
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		execErr = ctx.Err()
	case <-time.After(timeout):
		// Try graceful shutdown first
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
			<-done
		}
		execErr = ErrTimeout
	}

	// Every branch above has received from done, and Wait only returns
	// once os/exec has finished copying both streams into the collectors.
	exitCode := 0
	if execErr != nil {
		exitCode = f.getExitCode(execErr)
		if errors.Is(execErr, ErrTimeout) {
			exitCode = -1
		}
	}

	return &Result{
		Stdout:    stdout.String(),
		Stderr:    stderr.String(),
		ExitCode:  exitCode,
		Truncated: stdout.Truncated() || stderr.Truncated(),
	}, execErr
}

func (f *OSCommandExecutor) newCollectors() (*collector, *collector) {
	maxBytes := int(f.config.Harness.MaxOutputBytes)
	return newCollector(maxBytes), newCollector(maxBytes)
}

func (f *OSCommandExecutor) getExitCode(err error) int {
	if err == nil {
		return 0
	}
	type exitCoder interface {
		ExitCode() int
	}
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return -1
}

func inputReader(spec Spec) io.Reader {
	if spec.Input == "" {
		return nil
	}
	return strings.NewReader(spec.Input)
}
