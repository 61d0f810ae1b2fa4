// Package timeline builds the document the renderer reads: ordered slides,
// total running time and the per-slide duration at a given frame rate.
package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ivlev/reelprep/internal/state"
)

type Document struct {
	Slides        []state.SlideMetadata `json:"slides"`
	TotalDuration float64               `json:"totalDuration"`
	SlideDuration float64               `json:"slideDuration"`
	FPS           int                   `json:"fps"`
}

// Planned is the timeline written by the image stage, before any audio
// exists: every slide lasts fixedSeconds.
func Planned(slides []state.SlideMetadata, fps int, fixedSeconds float64) Document {
	sorted := state.SortedByIndex(slides)
	return Document{
		Slides:        sorted,
		TotalDuration: float64(len(sorted)) * fixedSeconds,
		SlideDuration: fixedSeconds,
		FPS:           fps,
	}
}

// Measured sums the probed audio durations. SlideDuration is the mean,
// and zero for an empty list.
func Measured(slides []state.SlideMetadata, fps int) Document {
	sorted := state.SortedByIndex(slides)

	var total float64
	for _, s := range sorted {
		total += s.Duration()
	}

	var per float64
	if len(sorted) > 0 {
		per = total / float64(len(sorted))
	}

	return Document{
		Slides:        sorted,
		TotalDuration: total,
		SlideDuration: per,
		FPS:           fps,
	}
}

// Write replaces the timeline file with doc.
func Write(path string, doc Document) error {
	if doc.Slides == nil {
		doc.Slides = []state.SlideMetadata{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timeline: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Read loads a previously written timeline.
func Read(path string) (Document, error) {
	var doc Document
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}
