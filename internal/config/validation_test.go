package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllDefaults_Pass(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_Harness(t *testing.T) {
	t.Run("Zero Timeout Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Harness.TimeoutSeconds = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout_seconds")
	})

	t.Run("Negative Timeout Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Harness.TimeoutSeconds = -5
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "timeout_seconds")
	})

	t.Run("Zero MaxOutputBytes Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Harness.MaxOutputBytes = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "max_output_bytes")
	})

	t.Run("Zero GracefulShutdown Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Harness.GracefulShutdownMs = 0
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "graceful_shutdown_ms")
	})

	t.Run("Empty PromptMarker Allowed", func(t *testing.T) {
		// An empty marker disables stripping; it is not a config error.
		cfg := DefaultConfig()
		cfg.Harness.PromptMarker = ""
		err := cfg.Validate()
		assert.NoError(t, err)
	})
}

func TestValidate_Build(t *testing.T) {
	t.Run("Empty ConfigureCommand Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Build.ConfigureCommand = nil
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "configure_command")
	})

	t.Run("Empty BuildCommand Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Build.BuildCommand = []string{}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "build_command")
	})

	t.Run("Empty StampFile Fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Build.StampFile = ""
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "stamp_file")
	})
}

func TestValidate_MultipleErrors_AllReported(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Harness.TimeoutSeconds = 0
	cfg.Build.StampFile = ""
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timeout_seconds")
	assert.Contains(t, err.Error(), "stamp_file")
}
