// Package vtshtest drives integration tests against an interactive shell
// binary. A Harness makes sure the binary under test exists, building it
// through an external build tool when it does not, and then runs one fresh
// shell process per command: the command line is written to the child's
// stdin, the child runs to completion under a hard deadline, and the
// harness hands back the exit code together with prompt-stripped output.
package vtshtest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/vtlab/vtshtest/internal/build"
	"github.com/vtlab/vtshtest/internal/executor"
	"github.com/vtlab/vtshtest/internal/logging"
	"github.com/vtlab/vtshtest/internal/session"
)

// Result is the outcome of one command executed against the shell under
// test. A non-zero ExitCode is a valid outcome, not an error.
type Result struct {
	RunID    string
	ExitCode int
	Output   string
	Stderr   string
	Duration time.Duration
}

// Harness runs commands against the shell binary under test. It is safe
// for concurrent use; every Execute spawns its own child process.
type Harness struct {
	binaryPath string
	driver     *session.Driver
	log        logging.Logger
}

// New creates a Harness for the binary at binaryPath. Unless building is
// disabled, New checks that the binary exists and runs the configure and
// build commands against the enclosing project when it does not. The build
// directory is the binary's parent and the project root is the directory
// above that.
func New(binaryPath string, opts ...Option) (*Harness, error) {
	if binaryPath == "" {
		return nil, errors.New("binary path is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	log := logging.FromSlog(o.logger)

	paths, err := build.DerivePaths(binaryPath)
	if err != nil {
		return nil, err
	}

	runner := executor.NewOSCommandExecutor(o.cfg)

	if !o.buildDisabled {
		ensurer := build.NewEnsurer(runner, o.cfg, log)
		if err := ensurer.Ensure(context.Background(), paths); err != nil {
			return nil, err
		}
	}

	info, err := os.Stat(paths.BinaryPath)
	if err != nil {
		return nil, &build.MissingArtifactError{BinaryPath: paths.BinaryPath}
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return nil, fmt.Errorf("binary under test %s is not executable", paths.BinaryPath)
	}

	driver := session.NewDriver(paths.BinaryPath, runner, o.cfg, log, o.usePTY)

	return &Harness{
		binaryPath: paths.BinaryPath,
		driver:     driver,
		log:        log,
	}, nil
}

// BinaryPath returns the absolute path of the binary under test.
func (h *Harness) BinaryPath() string {
	return h.binaryPath
}

// Execute runs one command against a fresh shell process and blocks until
// it exits or the deadline fires.
func (h *Harness) Execute(command string) (*Result, error) {
	return h.ExecuteContext(context.Background(), command)
}

// ExecuteContext is Execute with caller-controlled cancellation. Cancelling
// ctx kills the child; the returned error is the context's.
func (h *Harness) ExecuteContext(ctx context.Context, command string) (*Result, error) {
	res, err := h.driver.Execute(ctx, command)
	if err != nil {
		return nil, err
	}
	return &Result{
		RunID:    res.RunID,
		ExitCode: res.ExitCode,
		Output:   res.Output,
		Stderr:   res.Stderr,
		Duration: res.Duration,
	}, nil
}
