// Package pipeline выполняет этапы над состоянием (state.json). Слайды
// обрабатываются строго по очереди, прогресс сохраняется после каждого,
// поэтому прерванный запуск продолжается с места остановки.
package pipeline

import (
	"path/filepath"

	"github.com/ivlev/reelprep/internal/analyzer"
	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/gate"
	"github.com/ivlev/reelprep/internal/generator"
	"github.com/ivlev/reelprep/internal/state"
)

// OriginalFile is the generated source image inside a slide directory.
const OriginalFile = "original.png"

// SlideStatus is how far a slide has progressed through the image stage.
type SlideStatus int

const (
	NotStarted SlideStatus = iota
	ImageGenerated
	Segmented
	CentroidComputed
	Completed
)

func (s SlideStatus) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case ImageGenerated:
		return "image generated"
	case Segmented:
		return "segmented"
	case CentroidComputed:
		return "centroid computed"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Paths are the on-disk artifacts of one slide.
type Paths struct {
	Dir      string
	Original string
	Segments generator.Segments
}

// SlidePaths returns where the artifacts of the slide with index live.
func SlidePaths(cfg *config.Config, index int) Paths {
	dir := cfg.SlideDir(index)
	return Paths{
		Dir:      dir,
		Original: filepath.Join(dir, OriginalFile),
		Segments: generator.ExpectedSegments(dir),
	}
}

// Observe infers the status of a slide from the checkpoint and the files on disk.
// CentroidComputed is never observed: the pivot lives only in a completed record.
func Observe(cfg *config.Config, st *state.GenerationState, index int) SlideStatus {
	if _, ok := gate.SlideDone(st, index); ok {
		return Completed
	}
	p := SlidePaths(cfg, index)
	switch {
	case gate.ShouldSkip(p.Segments.Paths()...):
		return Segmented
	case gate.ShouldSkip(p.Original):
		return ImageGenerated
	default:
		return NotStarted
	}
}

// relToOutput stores paths relative to the output directory, where the
// renderer reads the timeline from.
func relToOutput(cfg *config.Config, path string) string {
	rel, err := filepath.Rel(cfg.OutputDir, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func centerOf(loc analyzer.Locator, path string) (analyzer.Center, error) {
	if loc == nil {
		return analyzer.FindCenter(path)
	}
	return analyzer.LocateFile(loc, path)
}
