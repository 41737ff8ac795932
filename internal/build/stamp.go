package build

import (
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
)

// Stamp records the last successful build for debugging. Informational
// only; it is never read back by the harness.
type Stamp struct {
	BinaryPath  string    `json:"binary_path"`
	Tool        string    `json:"tool"`
	ConfigureMs int64     `json:"configure_ms"`
	BuildMs     int64     `json:"build_ms"`
	BuiltAt     time.Time `json:"built_at"`
}

// writeStamp writes the build stamp atomically into the build directory.
// Failures are logged and swallowed: a missing stamp must never fail a
// build that the tool itself reported as successful.
func (e *Ensurer) writeStamp(paths Paths, tool string, configureMs, buildMs int64) {
	stamp := Stamp{
		BinaryPath:  paths.BinaryPath,
		Tool:        tool,
		ConfigureMs: configureMs,
		BuildMs:     buildMs,
		BuiltAt:     time.Now().UTC(),
	}

	data, err := json.MarshalIndent(stamp, "", "  ")
	if err != nil {
		e.log.Warn("could not encode build stamp", "error", err)
		return
	}

	path := filepath.Join(paths.BuildDir, e.config.Build.StampFile)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		e.log.Warn("could not write build stamp", "path", path, "error", err)
	}
}
