package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	// Harness validation
	if c.Harness.TimeoutSeconds < 1 {
		errs = append(errs, "harness.timeout_seconds must be >= 1")
	}
	if c.Harness.MaxOutputBytes < 1 {
		errs = append(errs, "harness.max_output_bytes must be >= 1")
	}
	if c.Harness.GracefulShutdownMs < 1 {
		errs = append(errs, "harness.graceful_shutdown_ms must be >= 1")
	}

	// Build validation
	if len(c.Build.ConfigureCommand) == 0 {
		errs = append(errs, "build.configure_command must not be empty")
	}
	if len(c.Build.BuildCommand) == 0 {
		errs = append(errs, "build.build_command must not be empty")
	}
	if c.Build.StampFile == "" {
		errs = append(errs, "build.stamp_file must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
