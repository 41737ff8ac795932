package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vtlab/vtshtest"
	"github.com/vtlab/vtshtest/internal/config"
)

var (
	flagBinary   string
	flagTimeout  time.Duration
	flagPrompt   string
	flagPTY      bool
	flagNoBuild  bool
	flagLogLevel string
	flagLogJSON  bool
	flagJSON     bool
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:   "vtshtest",
	Short: "Integration-test driver for an interactive shell binary",
	Long: `vtshtest drives an interactive shell binary the way its integration
tests do: it makes sure the binary exists (building it on demand), runs one
fresh shell process per command, and reports the exit code together with
prompt-stripped output.

The binary path comes from --binary or the VTSHTEST_BINARY environment
variable. Defaults live in ~/.config/vtshtest/config.json (or the file
named by VTSHTEST_CONFIG); flags override both.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagBinary, "binary", "b", os.Getenv("VTSHTEST_BINARY"), "path to the shell binary under test")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "per-command deadline (default from config, 2s)")
	rootCmd.PersistentFlags().StringVar(&flagPrompt, "prompt", "", "prompt marker stripped from output (default from config)")
	rootCmd.PersistentFlags().BoolVar(&flagPTY, "pty", false, "run the shell attached to a pseudo-terminal")
	rootCmd.PersistentFlags().BoolVar(&flagNoBuild, "no-build", false, "fail instead of building when the binary is missing")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log harness internals to stderr (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "emit logs as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(ensureCmd)
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}

// newLogger builds the stderr logger requested by --log-level; with the
// flag unset the harness is silent.
func newLogger() (*slog.Logger, error) {
	if flagLogLevel == "" {
		return nil, nil
	}
	level, err := parseLogLevel(flagLogLevel)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if flagLogJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
}

// newHarness builds a Harness from the config file with flag overrides
// layered on top.
func newHarness(cmd *cobra.Command) (*vtshtest.Harness, error) {
	if flagBinary == "" {
		return nil, errors.New("no binary under test: set --binary or VTSHTEST_BINARY")
	}

	log, err := newLogger()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	opts := []vtshtest.Option{
		vtshtest.WithTimeout(time.Duration(cfg.Harness.TimeoutSeconds) * time.Second),
		vtshtest.WithPromptMarker(cfg.Harness.PromptMarker),
		vtshtest.WithMaxOutputBytes(cfg.Harness.MaxOutputBytes),
		vtshtest.WithGracePeriod(time.Duration(cfg.Harness.GracefulShutdownMs) * time.Millisecond),
		vtshtest.WithBuildCommands(cfg.Build.ConfigureCommand, cfg.Build.BuildCommand),
		vtshtest.WithLogger(log),
	}

	if cmd.Flags().Changed("timeout") {
		opts = append(opts, vtshtest.WithTimeout(flagTimeout))
	}
	if cmd.Flags().Changed("prompt") {
		opts = append(opts, vtshtest.WithPromptMarker(flagPrompt))
	}
	if flagPTY {
		opts = append(opts, vtshtest.WithPTY())
	}
	if flagNoBuild {
		opts = append(opts, vtshtest.WithBuildDisabled())
	}

	return vtshtest.New(flagBinary, opts...)
}
