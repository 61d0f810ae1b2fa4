// Package state holds the checkpoint document shared by all stages.
package state

import (
	"errors"
	"fmt"
	"sort"
)

// Scenario is the ordered list of slides produced once by the scenario author.
type Scenario struct {
	Slides []SlideSpec `json:"slides" yaml:"slides"`
}

// SlideSpec is a single authored slide. It is never mutated after authoring.
type SlideSpec struct {
	Type          string `json:"type" yaml:"type"`
	NarrationText string `json:"text_to_tts" yaml:"text_to_tts"`
	ImagePrompt   string `json:"z_image_prompt" yaml:"z_image_prompt"`
}

type Pivot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SlideMetadata is the growable per-slide record. Index is the correlation key
// between scenario slides, metadata entries and slide_<index> directories.
type SlideMetadata struct {
	Index           int        `json:"index"`
	Type            string     `json:"type"`
	NarrationText   string     `json:"text_to_tts"`
	ImagePrompt     string     `json:"z_image_prompt"`
	OriginalImage   string     `json:"original_image"`
	ForegroundImage string     `json:"object_image"`
	BackgroundImage string     `json:"background_image"`
	Pivot           Pivot      `json:"pivot"`
	Dimensions      Dimensions `json:"dimensions"`
	AudioPath       string     `json:"audio_path,omitempty"`
	AudioDuration   *float64   `json:"duration,omitempty"`
	Completed       bool       `json:"completed"`
}

// GenerationState is the checkpoint document.
type GenerationState struct {
	Scenario  *Scenario       `json:"scenario,omitempty"`
	Slides    []SlideMetadata `json:"slides"`
	Completed bool            `json:"completed"`
}

// New returns the state of a run that has not started yet.
func New() *GenerationState {
	return &GenerationState{Slides: []SlideMetadata{}}
}

// Find returns the metadata for index, looked up by identity rather than position.
func (s *GenerationState) Find(index int) (*SlideMetadata, bool) {
	for i := range s.Slides {
		if s.Slides[i].Index == index {
			return &s.Slides[i], true
		}
	}
	return nil, false
}

// Upsert replaces the entry with the same index in place or appends a new one.
func (s *GenerationState) Upsert(m SlideMetadata) {
	if existing, ok := s.Find(m.Index); ok {
		*existing = m
		return
	}
	s.Slides = append(s.Slides, m)
}

// CompletedCount counts slides whose image pipeline has finished.
func (s *GenerationState) CompletedCount() int {
	n := 0
	for _, m := range s.Slides {
		if m.Completed {
			n++
		}
	}
	return n
}

// SortedByIndex returns a copy of slides ordered by index.
func SortedByIndex(slides []SlideMetadata) []SlideMetadata {
	out := make([]SlideMetadata, len(slides))
	copy(out, slides)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Validate checks that a completed record carries every image field.
func (m SlideMetadata) Validate() error {
	if !m.Completed {
		return nil
	}
	var errs []error
	if m.OriginalImage == "" {
		errs = append(errs, errors.New("original_image is empty"))
	}
	if m.ForegroundImage == "" {
		errs = append(errs, errors.New("object_image is empty"))
	}
	if m.BackgroundImage == "" {
		errs = append(errs, errors.New("background_image is empty"))
	}
	if m.Dimensions.Width <= 0 || m.Dimensions.Height <= 0 {
		errs = append(errs, fmt.Errorf("dimensions %dx%d are not positive", m.Dimensions.Width, m.Dimensions.Height))
	}
	if m.Pivot.X < 0 || m.Pivot.Y < 0 ||
		m.Pivot.X > float64(m.Dimensions.Width) || m.Pivot.Y > float64(m.Dimensions.Height) {
		errs = append(errs, fmt.Errorf("pivot (%.1f, %.1f) is outside the image", m.Pivot.X, m.Pivot.Y))
	}
	if len(errs) > 0 {
		return fmt.Errorf("slide %d: %w", m.Index, errors.Join(errs...))
	}
	return nil
}

// WithAudio returns a copy of m carrying the narration clip fields.
func (m SlideMetadata) WithAudio(path string, seconds float64) SlideMetadata {
	m.AudioPath = path
	m.AudioDuration = &seconds
	return m
}

// Duration returns the measured audio duration, or zero before the speech pass.
func (m SlideMetadata) Duration() float64 {
	if m.AudioDuration == nil {
		return 0
	}
	return *m.AudioDuration
}
