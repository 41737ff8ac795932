package vtshtest

import (
	"log/slog"
	"time"

	"github.com/vtlab/vtshtest/internal/config"
)

type options struct {
	cfg           *config.Config
	logger        *slog.Logger
	usePTY        bool
	buildDisabled bool
}

func defaultOptions() *options {
	return &options{cfg: config.DefaultConfig()}
}

// Option customizes a Harness at construction time.
type Option func(*options)

// WithTimeout sets the per-command wall-clock deadline. Durations are
// rounded up to whole seconds.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.cfg.Harness.TimeoutSeconds = int((d + time.Second - 1) / time.Second)
	}
}

// WithPromptMarker sets the literal prompt string stripped from output.
// An empty marker disables stripping.
func WithPromptMarker(marker string) Option {
	return func(o *options) {
		o.cfg.Harness.PromptMarker = marker
	}
}

// WithMaxOutputBytes caps how much child output is retained per stream.
func WithMaxOutputBytes(n int64) Option {
	return func(o *options) {
		o.cfg.Harness.MaxOutputBytes = n
	}
}

// WithGracePeriod sets how long a timed-out child gets between the polite
// interrupt and the kill.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) {
		o.cfg.Harness.GracefulShutdownMs = int(d / time.Millisecond)
	}
}

// WithBuildCommands overrides the configure and build command templates.
// The placeholders {root} and {build} are substituted with the project
// root and build directory.
func WithBuildCommands(configure, buildCmd []string) Option {
	return func(o *options) {
		o.cfg.Build.ConfigureCommand = configure
		o.cfg.Build.BuildCommand = buildCmd
	}
}

// WithPTY runs the shell under test attached to a pseudo-terminal instead
// of plain pipes. Not supported on Windows.
func WithPTY() Option {
	return func(o *options) {
		o.usePTY = true
	}
}

// WithBuildDisabled skips the ensure step; the binary must already exist.
func WithBuildDisabled() Option {
	return func(o *options) {
		o.buildDisabled = true
	}
}

// WithLogger routes harness logs to the given slog logger. Without it the
// harness is silent.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
