package vtshtest

import (
	"errors"

	"github.com/vtlab/vtshtest/internal/build"
	"github.com/vtlab/vtshtest/internal/session"
)

// IsTimeout reports whether err means the shell under test did not respond
// within the deadline.
func IsTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

// IsBuildFailure reports whether err means a configure or build step
// failed.
func IsBuildFailure(err error) bool {
	var e *build.BuildError
	return errors.As(err, &e)
}

// IsMissingArtifact reports whether err means the binary under test is
// absent, either with building disabled or after a build that reported
// success.
func IsMissingArtifact(err error) bool {
	var e *build.MissingArtifactError
	return errors.As(err, &e)
}

// IsSpawnFailure reports whether err means the binary under test could not
// be launched.
func IsSpawnFailure(err error) bool {
	var e *session.SpawnError
	return errors.As(err, &e)
}

// IsInvalidCommand reports whether err means the command line itself was
// rejected before anything was spawned.
func IsInvalidCommand(err error) bool {
	var t interface{ InvalidInput() bool }
	return errors.As(err, &t) && t.InvalidInput()
}
