// Package report собирает прогресс подготовки для команды status.
package report

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/reelprep/internal/analyzer"
	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/director"
	"github.com/ivlev/reelprep/internal/pipeline"
	"github.com/ivlev/reelprep/internal/source"
	"github.com/ivlev/reelprep/internal/state"
	"github.com/ivlev/reelprep/internal/system"
)

type SlideReport struct {
	Index      int
	Type       string
	Preview    string
	Status     pipeline.SlideStatus
	Pivot      state.Pivot
	Dimensions state.Dimensions
	HasAudio   bool
	// Box is the measured foreground bounding box, empty when nothing was measured.
	Box image.Rectangle
	// Problems lists artifacts of a completed slide that are gone or no
	// longer match the record.
	Problems []string
}

// pivotTolerance is how far, in pixels, a stored pivot may be from a fresh measurement.
const pivotTolerance = 0.5

type Report struct {
	StateExists    bool
	Completed      bool
	HasScenario    bool
	Slides         []SlideReport
	TimelineExists bool
	Host           *system.HostInfo
}

// Build reads the checkpoint and checks the artifacts of completed slides,
// at most concurrency files at a time.
func Build(ctx context.Context, cfg *config.Config, store *state.Store, concurrency int) (*Report, error) {
	r := &Report{StateExists: store.Exists()}
	if host, err := system.Host(); err == nil {
		r.Host = &host
	}
	if !r.StateExists {
		return r, nil
	}

	st, err := store.Load()
	if err != nil {
		return nil, err
	}
	r.Completed = st.Completed
	r.TimelineExists = fileExists(cfg.TimelineFile())
	if st.Scenario == nil {
		return r, nil
	}
	r.HasScenario = true

	r.Slides = make([]SlideReport, len(st.Scenario.Slides))
	for i, spec := range st.Scenario.Slides {
		sr := SlideReport{
			Index:   i,
			Type:    spec.Type,
			Preview: director.Excerpt(spec.NarrationText, 40),
			Status:  pipeline.Observe(cfg, st, i),
		}
		if m, ok := st.Find(i); ok && m.Completed {
			sr.Pivot = m.Pivot
			sr.Dimensions = m.Dimensions
		}
		r.Slides[i] = sr
	}

	if concurrency <= 0 {
		concurrency = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range r.Slides {
		sr := &r.Slides[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sr.HasAudio = fileExists(cfg.AudioFile(sr.Index))
			if sr.Status == pipeline.Completed {
				m, _ := st.Find(sr.Index)
				sr.Box, sr.Problems = verify(cfg, *m)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// verify resolves the stored relative paths against the output directory and
// measures the cut-out again: size and pivot must still match the record.
func verify(cfg *config.Config, m state.SlideMetadata) (image.Rectangle, []string) {
	var problems []string
	for _, rel := range []string{m.OriginalImage, m.ForegroundImage, m.BackgroundImage} {
		if !fileExists(resolve(cfg, rel)) {
			problems = append(problems, "нет файла "+rel)
		}
	}
	if len(problems) > 0 {
		return image.Rectangle{}, problems
	}

	fg := resolve(cfg, m.ForegroundImage)
	w, h, err := source.Dimensions(fg)
	if err != nil {
		return image.Rectangle{}, append(problems, err.Error())
	}
	if w != m.Dimensions.Width || h != m.Dimensions.Height {
		return image.Rectangle{}, append(problems, fmt.Sprintf("размер %dx%d, в записи %dx%d", w, h, m.Dimensions.Width, m.Dimensions.Height))
	}

	c, err := analyzer.FindCenter(fg)
	if err != nil {
		return image.Rectangle{}, append(problems, err.Error())
	}
	if math.Abs(c.X-m.Pivot.X) > pivotTolerance || math.Abs(c.Y-m.Pivot.Y) > pivotTolerance {
		problems = append(problems, fmt.Sprintf("центр объекта (%.1f, %.1f), в записи (%.1f, %.1f)", c.X, c.Y, m.Pivot.X, m.Pivot.Y))
	}
	return c.Box, problems
}

func resolve(cfg *config.Config, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(cfg.OutputDir, filepath.FromSlash(rel))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Write prints the report the way an operator reads it between runs.
func (r *Report) Write(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Статус подготовки материалов")
	fmt.Fprintln(w)

	if r.Host != nil {
		fmt.Fprintf(w, "Хост: %s\n\n", r.Host)
	}

	if !r.StateExists {
		fmt.Fprintln(w, "Подготовка еще не начиналась")
		fmt.Fprintln(w, "\nЗапустите: reelprep scenario")
		return
	}

	if r.Completed {
		fmt.Fprintln(w, "Изображения готовы.")
	} else {
		fmt.Fprintln(w, "Подготовка в процессе...")
	}

	if !r.HasScenario {
		fmt.Fprintln(w, "Сценарий: еще не сгенерирован")
		fmt.Fprintln(w, "\nЗапустите: reelprep scenario")
		return
	}
	fmt.Fprintf(w, "Сценарий: %d слайдов\n", len(r.Slides))

	fmt.Fprintln(w, "\nСлайды:")
	audio := 0
	for _, s := range r.Slides {
		mark := "[...]"
		if s.Status == pipeline.Completed {
			mark = "[OK]"
		}
		fmt.Fprintf(w, "  %s Слайд %d [%s]: %s\n", mark, s.Index+1, s.Type, s.Preview)
		if s.Status == pipeline.Completed {
			fmt.Fprintf(w, "     Pivot: (%.0f, %.0f)\n", s.Pivot.X, s.Pivot.Y)
			fmt.Fprintf(w, "     Размер: %dx%d\n", s.Dimensions.Width, s.Dimensions.Height)
			if !s.Box.Empty() {
				fmt.Fprintf(w, "     Объект: %dx%d в (%d, %d)\n", s.Box.Dx(), s.Box.Dy(), s.Box.Min.X, s.Box.Min.Y)
			}
		} else {
			fmt.Fprintf(w, "     Этап: %s\n", s.Status)
		}
		if s.HasAudio {
			audio++
			fmt.Fprintln(w, "     Аудио: есть")
		}
		for _, p := range s.Problems {
			fmt.Fprintf(w, "     [!] %s\n", p)
		}
	}

	fmt.Fprintf(w, "\nОзвучено: %d/%d\n", audio, len(r.Slides))
	switch {
	case !r.Completed:
		fmt.Fprintln(w, "\nЗапустите `reelprep images` чтобы продолжить")
	case audio < len(r.Slides):
		fmt.Fprintln(w, "\nЗапустите `reelprep speech` чтобы озвучить слайды")
	case r.TimelineExists:
		fmt.Fprintf(w, "\nДанные для рендера: %s\n", cfg.TimelineFile())
	}
}
