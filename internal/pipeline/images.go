package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ivlev/reelprep/internal/analyzer"
	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/fault"
	"github.com/ivlev/reelprep/internal/gate"
	"github.com/ivlev/reelprep/internal/generator"
	"github.com/ivlev/reelprep/internal/state"
	"github.com/ivlev/reelprep/internal/timeline"
)

// ImageStage turns every scenario slide into an original image, a
// foreground/background pair and a pivot, then writes the planned timeline.
type ImageStage struct {
	Config    *config.Config
	Store     *state.Store
	Images    generator.ImageSynthesizer
	Segmenter generator.Segmenter
	Locator   analyzer.Locator
	Log       *logrus.Entry
}

func NewImageStage(cfg *config.Config, store *state.Store, img generator.ImageSynthesizer, seg generator.Segmenter, log *logrus.Entry) *ImageStage {
	return &ImageStage{
		Config:    cfg,
		Store:     store,
		Images:    img,
		Segmenter: seg,
		Locator:   analyzer.NewAlphaBoxLocator(),
		Log:       log,
	}
}

func (s *ImageStage) Run(ctx context.Context) error {
	st, err := s.Store.Load()
	if err != nil {
		return err
	}
	if st.Scenario == nil || len(st.Scenario.Slides) == 0 {
		return fault.Missing("в %s нет сценария, сначала запустите: reelprep scenario", s.Store.Path())
	}
	if st.Completed {
		s.Log.Info("[=] Все слайды уже обработаны. Для повторной генерации: reelprep clean")
		return nil
	}

	total := len(st.Scenario.Slides)
	s.Log.Infof("[*] Слайдов в сценарии: %d (готово: %d)", total, st.CompletedCount())

	for i, spec := range st.Scenario.Slides {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := s.Log.WithField("slide", i)
		log.Infof("[>] Слайд %d/%d [%s]", i+1, total, spec.Type)

		m, err := s.processSlide(ctx, log, st, i, spec)
		if err != nil {
			return fmt.Errorf("slide %d: %w", i, err)
		}

		st.Upsert(m)
		if err := s.Store.Save(st); err != nil {
			return fmt.Errorf("save checkpoint: %w", err)
		}
	}

	doc := timeline.Planned(st.Slides, s.Config.FPS, s.Config.SlideDuration)
	if err := timeline.Write(s.Config.TimelineFile(), doc); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}

	st.Completed = true
	if err := s.Store.Save(st); err != nil {
		return fmt.Errorf("save checkpoint: %w", err)
	}

	s.Log.Infof("[+++] Готово: %d слайдов, %.1fs. Таймлайн: %s", len(doc.Slides), doc.TotalDuration, s.Config.TimelineFile())
	return nil
}

// processSlide advances one slide to Completed, skipping every step whose
// output already exists. The centroid is recomputed whenever the record is
// not yet complete.
func (s *ImageStage) processSlide(ctx context.Context, log *logrus.Entry, st *state.GenerationState, index int, spec state.SlideSpec) (state.SlideMetadata, error) {
	if done, ok := gate.SlideDone(st, index); ok {
		log.Info("[=] Уже готов, пропуск")
		return done, nil
	}

	p := SlidePaths(s.Config, index)
	status := NotStarted

	if gate.ShouldSkip(p.Original) {
		log.Debug("[=] Изображение уже есть")
	} else {
		log.Info("[*] Генерация изображения...")
		if err := s.Images.Generate(ctx, spec.ImagePrompt, p.Original); err != nil {
			return state.SlideMetadata{}, fmt.Errorf("generate image: %w", err)
		}
	}
	status = ImageGenerated

	seg := p.Segments
	if gate.ShouldSkip(seg.Paths()...) {
		log.Debug("[=] Объект и фон уже отделены")
	} else {
		log.Info("[*] Отделение объекта от фона...")
		var err error
		seg, err = s.Segmenter.Separate(ctx, p.Original, p.Dir)
		if err != nil {
			return state.SlideMetadata{}, fmt.Errorf("segment %s: %w", p.Original, err)
		}
	}
	status = Segmented

	center, err := centerOf(s.Locator, seg.Foreground)
	if err != nil {
		return state.SlideMetadata{}, fmt.Errorf("locate pivot in %s: %w", seg.Foreground, err)
	}
	status = CentroidComputed

	m := state.SlideMetadata{
		Index:           index,
		Type:            spec.Type,
		NarrationText:   spec.NarrationText,
		ImagePrompt:     spec.ImagePrompt,
		OriginalImage:   relToOutput(s.Config, p.Original),
		ForegroundImage: relToOutput(s.Config, seg.Foreground),
		BackgroundImage: relToOutput(s.Config, seg.Background),
		Pivot:           state.Pivot{X: center.X, Y: center.Y},
		Dimensions:      state.Dimensions{Width: center.Width, Height: center.Height},
		Completed:       true,
	}
	if err := m.Validate(); err != nil {
		return state.SlideMetadata{}, fmt.Errorf("%s: %w", status, err)
	}

	log.WithFields(logrus.Fields{
		"pivot": fmt.Sprintf("%.1f,%.1f", center.X, center.Y),
		"size":  fmt.Sprintf("%dx%d", center.Width, center.Height),
	}).Info("[+] Слайд готов")
	return m, nil
}
