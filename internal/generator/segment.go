package generator

import (
	"context"
	"fmt"
	"path/filepath"
)

// Output layout of transparent-background. Other stages and the renderer
// depend on these exact names.
const (
	ForegroundDir  = "object_output"
	BackgroundDir  = "background_output"
	ForegroundFile = "original_rgba.png"
	BackgroundFile = "original_rgba_reverse.png"
)

// Segments are the two files produced from one source image.
type Segments struct {
	Foreground string
	Background string
}

// Paths lists both files, for the stage gate.
func (s Segments) Paths() []string {
	return []string{s.Foreground, s.Background}
}

// ExpectedSegments returns where the segmenter writes its results for workDir.
func ExpectedSegments(workDir string) Segments {
	return Segments{
		Foreground: filepath.Join(workDir, ForegroundDir, ForegroundFile),
		Background: filepath.Join(workDir, BackgroundDir, BackgroundFile),
	}
}

// TransparentBackground runs the segmenter twice over the same source: once
// for the subject, once inverted for the background plate.
type TransparentBackground struct {
	Command   string
	Threshold float64
	Run       CommandRunner
}

func NewTransparentBackground(command string, threshold float64) *TransparentBackground {
	return &TransparentBackground{Command: command, Threshold: threshold}
}

func (t *TransparentBackground) Separate(ctx context.Context, sourcePath, workDir string) (Segments, error) {
	seg := ExpectedSegments(workDir)

	if _, err := run(ctx, t.Run, t.Command, t.foregroundArgs(sourcePath, workDir)...); err != nil {
		return Segments{}, err
	}
	if _, err := run(ctx, t.Run, t.Command, t.backgroundArgs(sourcePath, workDir)...); err != nil {
		return Segments{}, err
	}

	for _, p := range seg.Paths() {
		if err := requireFile(t.Command, p); err != nil {
			return Segments{}, err
		}
	}
	return seg, nil
}

func (t *TransparentBackground) foregroundArgs(sourcePath, workDir string) []string {
	return []string{
		"--source", sourcePath,
		"--dest", filepath.Join(workDir, ForegroundDir),
	}
}

func (t *TransparentBackground) backgroundArgs(sourcePath, workDir string) []string {
	return []string{
		"--source", sourcePath,
		"--reverse",
		fmt.Sprintf("--threshold=%g", t.Threshold),
		"--dest", filepath.Join(workDir, BackgroundDir),
	}
}
