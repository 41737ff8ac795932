package build

import "fmt"

// BuildError is returned when an external build step exits non-zero or
// cannot be run at all. Fatal to harness setup; never retried.
type BuildError struct {
	Step     string // "configure" or "build"
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *BuildError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("build step %q failed with exit code %d: %s", e.Step, e.ExitCode, e.Stderr)
	}
	if e.Cause != nil {
		return fmt.Sprintf("build step %q failed: %v", e.Step, e.Cause)
	}
	return fmt.Sprintf("build step %q failed with exit code %d", e.Step, e.ExitCode)
}

func (e *BuildError) Unwrap() error { return e.Cause }

// MissingArtifactError is returned when the build tool reported success
// but the binary is still absent from the expected location. Distinct from
// BuildError: it points at a path mismatch, not a compile failure.
type MissingArtifactError struct {
	BinaryPath string
}

func (e *MissingArtifactError) Error() string {
	return fmt.Sprintf("build succeeded but no binary was produced at %s", e.BinaryPath)
}
