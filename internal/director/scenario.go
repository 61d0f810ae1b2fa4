package director

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ivlev/reelprep/internal/state"
)

// Validate checks that every slide can go through the image and speech stages.
func Validate(s *state.Scenario) error {
	if s == nil || len(s.Slides) == 0 {
		return errors.New("scenario has no slides")
	}
	var errs []error
	for i, slide := range s.Slides {
		if strings.TrimSpace(slide.NarrationText) == "" {
			errs = append(errs, fmt.Errorf("slide %d: text_to_tts is empty", i))
		}
		if strings.TrimSpace(slide.ImagePrompt) == "" {
			errs = append(errs, fmt.Errorf("slide %d: z_image_prompt is empty", i))
		}
	}
	return errors.Join(errs...)
}

// Excerpt shortens narration for one-line listings.
func Excerpt(text string, maxRunes int) string {
	r := []rune(text)
	if len(r) <= maxRunes {
		return text
	}
	return string(r[:maxRunes]) + "..."
}
