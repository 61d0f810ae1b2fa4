// Package generator wraps the external tools that produce slide assets.
// Every failure is reported as fault.ErrExternalTool; nothing here retries.
package generator

import (
	"context"
	"os"
	"os/exec"

	"github.com/ivlev/reelprep/internal/fault"
)

// ImageSynthesizer renders one PNG for a prompt.
type ImageSynthesizer interface {
	Generate(ctx context.Context, prompt, outputPath string) error
}

// Segmenter splits a source image into a foreground cut-out and a background plate.
type Segmenter interface {
	Separate(ctx context.Context, sourcePath, workDir string) (Segments, error)
}

// Synthesizer turns narration text into an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, outputPath string) error
}

// Prober measures the duration of an audio file in seconds.
type Prober interface {
	Duration(ctx context.Context, audioPath string) (float64, error)
}

// CommandRunner executes a process and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner is the CommandRunner backed by os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

func run(ctx context.Context, runner CommandRunner, name string, args ...string) ([]byte, error) {
	if runner == nil {
		runner = ExecRunner
	}
	out, err := runner(ctx, name, args...)
	if err != nil {
		return out, fault.External(name, err, out)
	}
	return out, nil
}

// requireFile turns a silently missing tool output into an error.
func requireFile(tool, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fault.External(tool, err, []byte("expected output "+path+" was not produced"))
	}
	return nil
}
