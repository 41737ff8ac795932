package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vtlab/vtshtest"
)

var runCmd = &cobra.Command{
	Use:   "run <command>...",
	Short: "Run one command against the shell under test",
	Long: `Run spawns a fresh instance of the shell under test, sends the given
command as a single line, and prints the shell's output with the prompt
marker stripped. With --json the full result is printed as one JSON object
on stdout instead. The shell's exit code becomes this process's exit code.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		command := strings.Join(args, " ")

		h, err := newHarness(cmd)
		if err != nil {
			return decorate(err)
		}

		res, err := h.ExecuteContext(cmd.Context(), command)
		if err != nil {
			return decorate(err)
		}

		if flagJSON {
			if err := writeResultJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
		} else {
			if res.Output != "" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			}
			if res.Stderr != "" {
				fmt.Fprint(cmd.ErrOrStderr(), res.Stderr)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), faintStyle.Render(
				fmt.Sprintf("run %s: exit %d in %s", res.RunID, res.ExitCode, res.Duration.Round(time.Millisecond))))
		}

		// Scripts branch on our exit code the way they would on the
		// shell's own.
		if res.ExitCode != 0 {
			os.Exit(res.ExitCode)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "print the result as a JSON object on stdout")
}

// resultJSON is the machine-readable shape of one execution.
type resultJSON struct {
	RunID      string `json:"run_id"`
	ExitCode   int    `json:"exit_code"`
	Output     string `json:"output"`
	Stderr     string `json:"stderr"`
	DurationMs int64  `json:"duration_ms"`
}

func writeResultJSON(w io.Writer, res *vtshtest.Result) error {
	return json.NewEncoder(w).Encode(resultJSON{
		RunID:      res.RunID,
		ExitCode:   res.ExitCode,
		Output:     res.Output,
		Stderr:     res.Stderr,
		DurationMs: res.Duration.Milliseconds(),
	})
}

// decorate rewords well-known harness failures for terminal readers.
func decorate(err error) error {
	switch {
	case vtshtest.IsTimeout(err):
		return fmt.Errorf("%s %w", errStyle.Render("timeout:"), err)
	case vtshtest.IsBuildFailure(err):
		return fmt.Errorf("%s %w", errStyle.Render("build failed:"), err)
	case vtshtest.IsMissingArtifact(err):
		return fmt.Errorf("%s %w", errStyle.Render("missing binary:"), err)
	default:
		return err
	}
}
