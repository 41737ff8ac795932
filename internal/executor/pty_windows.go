//go:build windows

package executor

import (
	"context"
	"errors"
	"os"
	"time"
)

var _ PTYRunner = (*OSCommandExecutor)(nil)

// RunPTYWithTimeout is unsupported on Windows; PTY sessions need a Unix
// pseudo-terminal.
func (f *OSCommandExecutor) RunPTYWithTimeout(ctx context.Context, spec Spec, timeout time.Duration) (*Result, error) {
	if len(spec.Command) == 0 {
		return nil, os.ErrInvalid
	}
	return nil, &CommandError{
		Cmd:   spec.Command[0],
		Stage: "start",
		Cause: errors.New("pty sessions are not supported on windows"),
	}
}
