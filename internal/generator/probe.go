package generator

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ivlev/reelprep/internal/fault"
)

// FFProbe reads the container duration with ffprobe.
type FFProbe struct {
	Command string
	Run     CommandRunner
}

func NewFFProbe(command string) *FFProbe {
	if command == "" {
		command = "ffprobe"
	}
	return &FFProbe{Command: command}
}

func (p *FFProbe) Duration(ctx context.Context, audioPath string) (float64, error) {
	out, err := run(ctx, p.Run, p.Command,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		audioPath,
	)
	if err != nil {
		return 0, err
	}
	return parseDuration(out)
}

func parseDuration(out []byte) (float64, error) {
	text := strings.TrimSpace(string(out))
	if text == "" {
		return 0, fmt.Errorf("%w: empty ffprobe output", fault.ErrProbeFailure)
	}
	d, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", fault.ErrProbeFailure, text)
	}
	if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
		return 0, fmt.Errorf("%w: invalid duration %q", fault.ErrProbeFailure, text)
	}
	return d, nil
}
