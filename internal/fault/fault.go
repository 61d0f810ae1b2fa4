// Package fault defines the error kinds shared by all pipeline stages.
package fault

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingPrecondition is returned when a stage starts without the input it needs
	// (no scenario, no checkpoint, no API key).
	ErrMissingPrecondition = errors.New("missing precondition")

	// ErrExternalTool wraps any failure of an external process or API.
	ErrExternalTool = errors.New("external tool failure")

	// ErrCorruptState is returned when the checkpoint exists but cannot be parsed.
	ErrCorruptState = errors.New("corrupt state")

	// ErrProbeFailure is returned when an audio duration cannot be parsed.
	ErrProbeFailure = errors.New("probe failure")
)

// maxOutput limits how much of a tool's output ends up in the error text.
const maxOutput = 512

// External wraps err as ErrExternalTool, attaching the tail of the tool output.
func External(tool string, err error, output []byte) error {
	out := strings.TrimSpace(string(output))
	if len(out) > maxOutput {
		out = "..." + out[len(out)-maxOutput:]
	}
	if out == "" {
		return fmt.Errorf("%w: %s: %w", ErrExternalTool, tool, err)
	}
	return fmt.Errorf("%w: %s: %w\n%s", ErrExternalTool, tool, err, out)
}

// Missing builds an ErrMissingPrecondition with a formatted reason.
func Missing(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMissingPrecondition, fmt.Sprintf(format, args...))
}
