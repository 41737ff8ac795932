package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vtlab/vtshtest/internal/config"
	"github.com/vtlab/vtshtest/internal/executor"
	"github.com/vtlab/vtshtest/internal/logging"
)

// Result is the outcome of one command sent to the shell under test.
// Results are independent; nothing is shared between calls.
type Result struct {
	RunID    string
	ExitCode int
	Output   string // normalized stdout: prompt marker stripped, whitespace trimmed
	Stderr   string
	Duration time.Duration
}

// Driver owns the lifecycle of exactly one child-process invocation per
// Execute call: spawn, write one command line, read with a deadline, reap.
type Driver struct {
	binaryPath string
	runner     executor.Runner
	config     *config.Config
	log        logging.Logger
	usePTY     bool
}

// NewDriver creates a Driver with injected dependencies.
func NewDriver(binaryPath string, runner executor.Runner, cfg *config.Config, log logging.Logger, usePTY bool) *Driver {
	if binaryPath == "" {
		panic("binaryPath is required")
	}
	if runner == nil {
		panic("runner is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Driver{
		binaryPath: binaryPath,
		runner:     runner,
		config:     cfg,
		log:        log,
		usePTY:     usePTY,
	}
}

// Execute sends one command line to a fresh instance of the shell under
// test and returns its exit code and normalized output. The command must
// not contain a line terminator; exactly one newline is appended on the
// wire. A shell that does not finish within the configured deadline is
// force-terminated and reported as a TimeoutError; partial output is
// never passed off as success.
func (d *Driver) Execute(ctx context.Context, command string) (*Result, error) {
	if strings.ContainsAny(command, "\r\n") {
		return nil, &CommandLineError{Command: command}
	}

	runID := uuid.NewString()
	log := d.log.With("run_id", runID)
	timeout := time.Duration(d.config.Harness.TimeoutSeconds) * time.Second
	spec := executor.Spec{
		Command: []string{d.binaryPath},
		Input:   command + "\n",
	}

	log.Debug("spawning shell under test", "binary", d.binaryPath, "pty", d.usePTY)
	start := time.Now()

	var res *executor.Result
	var err error
	if d.usePTY {
		pr, ok := d.runner.(executor.PTYRunner)
		if !ok {
			return nil, &SpawnError{BinaryPath: d.binaryPath, Cause: errors.New("runner does not support pty sessions")}
		}
		res, err = pr.RunPTYWithTimeout(ctx, spec, timeout)
	} else {
		res, err = d.runner.RunWithTimeout(ctx, spec, timeout)
	}
	duration := time.Since(start)

	if err != nil {
		var cmdErr *executor.CommandError
		switch {
		case errors.Is(err, executor.ErrTimeout):
			log.Warn("shell under test exceeded deadline", "timeout", timeout)
			return nil, &TimeoutError{Command: command, Duration: timeout}
		case errors.As(err, &cmdErr):
			return nil, &SpawnError{BinaryPath: d.binaryPath, Cause: err}
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		}
		// A non-zero exit surfaces as a wait error with a populated
		// result; the exit code is part of the answer, not a failure.
		if res == nil {
			return nil, &SpawnError{BinaryPath: d.binaryPath, Cause: err}
		}
	}

	output := Normalize(res.Stdout, d.config.Harness.PromptMarker)
	if d.usePTY {
		output = NormalizePTY(res.Stdout, d.config.Harness.PromptMarker, command)
	}

	log.Debug("shell under test finished",
		"exit_code", res.ExitCode, "duration_ms", duration.Milliseconds(), "truncated", res.Truncated)

	return &Result{
		RunID:    runID,
		ExitCode: res.ExitCode,
		Output:   output,
		Stderr:   res.Stderr,
		Duration: duration,
	}, nil
}
