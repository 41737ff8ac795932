package session

import (
	"fmt"
	"time"
)

// TimeoutError is returned when the shell under test does not respond
// within the deadline. The child has already been force-terminated by the
// time this is returned.
type TimeoutError struct {
	Command  string
	Duration time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("shell under test did not respond to %q within %v", e.Command, e.Duration)
}

func (e *TimeoutError) Timeout() bool {
	return true
}

// SpawnError is returned when the binary under test could not be launched.
type SpawnError struct {
	BinaryPath string
	Cause      error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("could not launch %s: %v", e.BinaryPath, e.Cause)
}

func (e *SpawnError) Unwrap() error { return e.Cause }

// CommandLineError is returned when a command contains an embedded line
// terminator; the driver sends exactly one line per execution.
type CommandLineError struct {
	Command string
}

func (e *CommandLineError) Error() string {
	return fmt.Sprintf("command contains a line terminator: %q", e.Command)
}

func (e *CommandLineError) InvalidInput() bool {
	return true
}
