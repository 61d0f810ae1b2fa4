package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/fault"
	"github.com/ivlev/reelprep/internal/gate"
	"github.com/ivlev/reelprep/internal/generator"
	"github.com/ivlev/reelprep/internal/state"
	"github.com/ivlev/reelprep/internal/timeline"
)

// SpeechStage narrates every slide that has image metadata and writes the
// timeline with measured durations. The checkpoint is only read: the image
// stage stays the single writer of slide records.
type SpeechStage struct {
	Config *config.Config
	Store  *state.Store
	Speech generator.Synthesizer
	Prober generator.Prober
	Log    *logrus.Entry
}

func NewSpeechStage(cfg *config.Config, store *state.Store, tts generator.Synthesizer, prober generator.Prober, log *logrus.Entry) *SpeechStage {
	return &SpeechStage{
		Config: cfg,
		Store:  store,
		Speech: tts,
		Prober: prober,
		Log:    log,
	}
}

func (s *SpeechStage) Run(ctx context.Context) error {
	if !s.Store.Exists() {
		return fault.Missing("%s не найден, сначала запустите: reelprep scenario && reelprep images", s.Store.Path())
	}
	st, err := s.Store.Load()
	if err != nil {
		return err
	}
	if st.Scenario == nil {
		return fault.Missing("в %s нет сценария", s.Store.Path())
	}
	if err := os.MkdirAll(s.Config.AudioDir(), 0755); err != nil {
		return err
	}

	total := len(st.Scenario.Slides)
	slides := make([]state.SlideMetadata, 0, total)

	for i, spec := range st.Scenario.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := s.Log.WithField("slide", i)
		m, ok := st.Find(i)
		if !ok {
			log.Warn("[!] Нет метаданных слайда, пропуск (запустите reelprep images)")
			continue
		}

		audio := s.Config.AudioFile(i)
		if gate.ShouldSkip(audio) {
			log.Infof("[=] Аудио %d/%d уже есть", i+1, total)
		} else {
			log.Infof("[*] Озвучка %d/%d...", i+1, total)
			if err := s.Speech.Synthesize(ctx, spec.NarrationText, audio); err != nil {
				return fmt.Errorf("slide %d: synthesize: %w", i, err)
			}
		}

		duration, err := s.Prober.Duration(ctx, audio)
		if err != nil {
			return fmt.Errorf("slide %d: probe %s: %w", i, audio, err)
		}
		log.Debugf("[+] Длительность %.2fs", duration)

		slides = append(slides, m.WithAudio(relToOutput(s.Config, audio), duration))
	}

	if len(slides) == 0 {
		return fault.Missing("ни у одного слайда нет метаданных, сначала запустите: reelprep images")
	}

	doc := timeline.Measured(slides, s.Config.FPS)
	if err := timeline.Write(s.Config.TimelineFile(), doc); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}

	s.Log.Infof("[+++] Озвучено слайдов: %d, общая длительность %.2fs (в среднем %.2fs)", len(slides), doc.TotalDuration, doc.SlideDuration)
	return nil
}
