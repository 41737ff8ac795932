// Package testhelpers generates the stub programs the harness tests run
// against: fake shells under test and a fake build tool. All of them are
// plain POSIX shell scripts written into temporary directories.
package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteScript writes an executable shell script into dir and returns its path.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("writing script %s: %v", name, err)
	}
	return path
}

// EchoShell returns a stub shell-under-test that prints the prompt before
// every read and echoes each input line, mirroring the real shell's REPL.
func EchoShell(prompt string) string {
	return fmt.Sprintf(`#!/bin/sh
printf '%%s' '%[1]s'
while IFS= read -r line; do
  printf '%%s\n' "$line"
  printf '%%s' '%[1]s'
done
`, prompt)
}

// SilentShell returns a stub that produces no output and sleeps well past
// any test deadline, for exercising the timeout path.
func SilentShell(seconds int) string {
	return fmt.Sprintf("#!/bin/sh\nsleep %d\n", seconds)
}

// ExitingShell returns a stub that prints the prompt plus text, then
// terminates with the given status without reading input.
func ExitingShell(prompt, text string, code int) string {
	return fmt.Sprintf(`#!/bin/sh
printf '%%s' '%s'
printf '%%s\n' '%s'
exit %d
`, prompt, text, code)
}

// FakeBuildTool returns a build-tool stand-in. Every invocation appends its
// arguments to logPath; an invocation whose first argument is "build"
// additionally materializes an echo shell at binaryPath, emulating a build
// that produces the artifact.
func FakeBuildTool(binaryPath, logPath, prompt string) string {
	return fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$*" >> '%s'
if [ "$1" = "build" ]; then
  cat > '%s' <<'STUB_EOF'
%sSTUB_EOF
  chmod +x '%s'
fi
`, logPath, binaryPath, EchoShell(prompt), binaryPath)
}

// FailingBuildTool returns a build-tool stand-in that logs its arguments,
// writes a diagnostic to stderr, and exits with the given status.
func FailingBuildTool(logPath string, code int) string {
	return fmt.Sprintf(`#!/bin/sh
printf '%%s\n' "$*" >> '%s'
echo 'fatal: something did not compile' >&2
exit %d
`, logPath, code)
}
