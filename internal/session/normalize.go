package session

import "strings"

// Normalize strips every literal occurrence of the prompt marker from the
// captured output and trims surrounding whitespace, so callers compare bare
// replies without accounting for prompt framing. The marker is a fixed
// string, not a pattern; if the shell under test changes its prompt this
// must change in lockstep.
func Normalize(s, marker string) string {
	if marker != "" {
		s = strings.ReplaceAll(s, marker, "")
	}
	return strings.TrimSpace(s)
}

// NormalizePTY normalizes output captured from a pseudo-terminal. On top of
// prompt stripping, the terminal reflects the typed command and control
// characters back at us: carriage returns, the echoed command line, and the
// EOT byte used to signal end-of-input are all dropped. Printable text is
// left alone, so a reply that happens to contain "^D" survives intact.
func NormalizePTY(s, marker, command string) string {
	s = strings.ReplaceAll(s, "\r", "")
	if marker != "" {
		s = strings.ReplaceAll(s, marker, "")
	}
	if command != "" {
		s = strings.Replace(s, command+"\n", "", 1)
	}
	s = strings.ReplaceAll(s, "\x04", "")
	return strings.TrimSpace(s)
}
