package config

// Config holds all harness configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Harness HarnessConfig `json:"harness"`
	Build   BuildConfig   `json:"build"`
}

type HarnessConfig struct {
	// Session execution
	TimeoutSeconds     int    `json:"timeout_seconds"`      // Default: 2
	PromptMarker       string `json:"prompt_marker"`        // Default: "vtsh> "
	MaxOutputBytes     int64  `json:"max_output_bytes"`     // Default: 1 * 1024 * 1024 (1MB)
	GracefulShutdownMs int    `json:"graceful_shutdown_ms"` // Default: 500
}

type BuildConfig struct {
	// External build tool invocation. The placeholders {root} and {build}
	// are substituted with the project root and build directory at ensure time.
	ConfigureCommand []string `json:"configure_command"` // Default: cmake -S {root} -B {build}
	BuildCommand     []string `json:"build_command"`     // Default: cmake --build {build}
	StampFile        string   `json:"stamp_file"`        // Default: ".vtshtest-stamp.json"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Harness: HarnessConfig{
			TimeoutSeconds:     2,
			PromptMarker:       "vtsh> ",
			MaxOutputBytes:     1 * 1024 * 1024,
			GracefulShutdownMs: 500,
		},
		Build: BuildConfig{
			ConfigureCommand: []string{"cmake", "-S", "{root}", "-B", "{build}"},
			BuildCommand:     []string{"cmake", "--build", "{build}"},
			StampFile:        ".vtshtest-stamp.json",
		},
	}
}
