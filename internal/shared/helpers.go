// Package shared provides small helpers for running external tools.
package shared

import (
	"fmt"
	"strings"
)

// maxOutputLines bounds how much tool output is carried in an error.
const maxOutputLines = 40

// CommandError wraps a command execution error with the tail of its
// output. Empty output leaves err unchanged.
func CommandError(output []byte, err error) error {
	tail := OutputTail(output, maxOutputLines)
	if tail == "" {
		return err
	}
	return fmt.Errorf("%s: %w", tail, err)
}

// OutputTail returns the last n non-blank lines of output, trimmed.
func OutputTail(output []byte, n int) string {
	lines := strings.Split(strings.ReplaceAll(string(output), "\r\n", "\n"), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	if n > 0 && len(kept) > n {
		kept = kept[len(kept)-n:]
	}
	return strings.Join(kept, "\n")
}
