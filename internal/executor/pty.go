package executor

import (
	"context"
	"time"
)

// PTYRunner is an optional Runner capability: executing the command
// attached to a pseudo-terminal instead of pipes. Resolved by callers
// via type assertion.
type PTYRunner interface {
	RunPTYWithTimeout(ctx context.Context, spec Spec, timeout time.Duration) (*Result, error)
}
