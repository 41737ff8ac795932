package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vtlab/vtshtest/internal/config"
	"github.com/vtlab/vtshtest/internal/executor"
	"github.com/vtlab/vtshtest/internal/logging"
)

// Paths describes the filesystem layout the ensurer operates on.
// The binary lives inside the build directory, which sits directly
// under the project root.
type Paths struct {
	BinaryPath  string
	ProjectRoot string
	BuildDir    string
}

// DerivePaths resolves binaryPath to an absolute path and derives the
// project root and build directory from its location.
func DerivePaths(binaryPath string) (Paths, error) {
	abs, err := filepath.Abs(binaryPath)
	if err != nil {
		return Paths{}, err
	}
	buildDir := filepath.Dir(abs)
	return Paths{
		BinaryPath:  abs,
		ProjectRoot: filepath.Dir(buildDir),
		BuildDir:    buildDir,
	}, nil
}

// Ensurer guarantees the binary under test exists before any session runs,
// building it on demand via the external build tool.
type Ensurer struct {
	runner executor.Runner
	config *config.Config
	log    logging.Logger

	// Concurrent harness constructions sharing one binary must trigger
	// at most one build.
	group singleflight.Group
}

// NewEnsurer creates an Ensurer with injected dependencies.
func NewEnsurer(runner executor.Runner, cfg *config.Config, log logging.Logger) *Ensurer {
	if runner == nil {
		panic("runner is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	if log == nil {
		log = logging.NewNop()
	}
	return &Ensurer{runner: runner, config: cfg, log: log}
}

// Ensure checks that the binary exists at paths.BinaryPath and, if not,
// runs the configure and build steps against the project root. When the
// binary is already present this is a no-op; repeated calls perform zero
// external invocations.
func (e *Ensurer) Ensure(ctx context.Context, paths Paths) error {
	_, err, _ := e.group.Do(paths.BinaryPath, func() (any, error) {
		return nil, e.ensure(ctx, paths)
	})
	return err
}

func (e *Ensurer) ensure(ctx context.Context, paths Paths) error {
	if _, err := os.Stat(paths.BinaryPath); err == nil {
		e.log.Debug("binary present, skipping build", "binary", paths.BinaryPath)
		return nil
	}

	if err := os.MkdirAll(paths.BuildDir, 0o755); err != nil {
		return &BuildError{Step: "configure", Cause: err}
	}

	configureCmd := expandCommand(e.config.Build.ConfigureCommand, paths)
	buildCmd := expandCommand(e.config.Build.BuildCommand, paths)

	e.log.Info("building binary under test", "binary", paths.BinaryPath, "root", paths.ProjectRoot)

	configureMs, err := e.runStep(ctx, "configure", configureCmd, paths.ProjectRoot)
	if err != nil {
		return err
	}
	buildMs, err := e.runStep(ctx, "build", buildCmd, paths.ProjectRoot)
	if err != nil {
		return err
	}

	// The build tool reported success; the artifact must be where we
	// expect it, otherwise the configured path is wrong.
	if _, err := os.Stat(paths.BinaryPath); err != nil {
		return &MissingArtifactError{BinaryPath: paths.BinaryPath}
	}

	e.writeStamp(paths, configureCmd[0], configureMs, buildMs)

	e.log.Info("build complete", "binary", paths.BinaryPath,
		"configure_ms", configureMs, "build_ms", buildMs)
	return nil
}

// runStep runs one external build step to completion and returns its
// duration in milliseconds. A non-zero exit or a spawn failure is fatal.
func (e *Ensurer) runStep(ctx context.Context, step string, command []string, dir string) (int64, error) {
	e.log.Debug("running build step", "step", step, "command", strings.Join(command, " "))

	start := time.Now()
	res, err := e.runner.Run(ctx, executor.Spec{Command: command, Dir: dir})
	elapsed := time.Since(start).Milliseconds()

	if res == nil && err != nil {
		return elapsed, &BuildError{Step: step, ExitCode: -1, Cause: err}
	}
	if res.ExitCode != 0 {
		return elapsed, &BuildError{
			Step:     step,
			ExitCode: res.ExitCode,
			Stderr:   tail(res.Stderr, 2048),
			Cause:    err,
		}
	}
	if err != nil {
		return elapsed, &BuildError{Step: step, Cause: err}
	}
	return elapsed, nil
}

// expandCommand substitutes the {root} and {build} placeholders in a
// configured command template.
func expandCommand(template []string, paths Paths) []string {
	out := make([]string, len(template))
	for i, arg := range template {
		arg = strings.ReplaceAll(arg, "{root}", paths.ProjectRoot)
		arg = strings.ReplaceAll(arg, "{build}", paths.BuildDir)
		out[i] = arg
	}
	return out
}

// tail returns at most n trailing bytes of s. Build tools bury the useful
// error at the end of their output.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
