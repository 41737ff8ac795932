//go:build !windows

package executor

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/creack/pty"
)

var _ PTYRunner = (*OSCommandExecutor)(nil)

// RunPTYWithTimeout runs the command attached to a pseudo-terminal, for
// programs that only behave interactively on a tty. Input is written to the
// terminal followed by an EOT so a child reading to end-of-input is
// released. The terminal interleaves stdout and stderr; Result.Stderr is
// always empty in this mode.
func (f *OSCommandExecutor) RunPTYWithTimeout(ctx context.Context, spec Spec, timeout time.Duration) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, os.ErrInvalid
	}

	cmd := exec.Command(spec.Command[0], spec.Command[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Rows: 24, Cols: 80})
	if err != nil {
		return nil, &CommandError{Cmd: spec.Command[0], Cause: err, Stage: "start"}
	}
	defer func() { _ = ptmx.Close() }()

	if spec.Input != "" {
		if _, err := ptmx.WriteString(spec.Input); err != nil {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
			return nil, &CommandError{Cmd: spec.Command[0], Cause: err, Stage: "write input"}
		}
		// EOT: end-of-input for line-disciplined readers.
		_, _ = ptmx.WriteString("\x04")
	}

	out := newCollector(int(f.config.Harness.MaxOutputBytes))
	collectDone := make(chan struct{})
	go func() {
		// Reading the master fails (EIO on Linux) once the child side is
		// gone; everything read up to that point still counts.
		_, _ = io.Copy(out, ptmx)
		close(collectDone)
	}()

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
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
		case <-time.After(grace):
			_ = cmd.Process.Kill()
			<-done
		}
		execErr = ErrTimeout
	}

	// Unblock the reader in case the master is still open, then wait for
	// whatever it managed to collect.
	_ = ptmx.Close()
	<-collectDone

	exitCode := 0
	if execErr != nil {
		exitCode = f.getExitCode(execErr)
		if errors.Is(execErr, ErrTimeout) {
			exitCode = -1
		}
	}

	return &Result{
		Stdout:    out.String(),
		ExitCode:  exitCode,
		Truncated: out.Truncated(),
	}, execErr
}
