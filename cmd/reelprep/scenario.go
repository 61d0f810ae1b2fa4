package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/director"
	"github.com/ivlev/reelprep/internal/logger"
	"github.com/ivlev/reelprep/internal/state"
)

func newScenarioCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Сгенерировать сценарий через Gemini или импортировать из файла",
		Long: `Сохраняет сценарий в рабочее состояние (state.json) и копию для просмотра
(scenario.json). Если сценарий уже есть, команда только показывает его.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			log := logger.ForStage(a.log, "scenario")
			out := cmd.OutOrStdout()

			st, err := a.store.Load()
			if err != nil {
				return err
			}
			if st.Scenario != nil {
				fmt.Fprintln(out, "Сценарий уже существует:")
				printScenario(out, st.Scenario, 60)
				fmt.Fprintln(out, "\nЧтобы создать новый сценарий, запустите: reelprep clean")
				return nil
			}

			var scenario *state.Scenario
			if from != "" {
				log.Infof("[*] Импорт сценария: %s", from)
				scenario, err = director.ReadScenario(from)
			} else {
				log.Infof("[*] Генерация сценария через %s, тема: %s", a.cfg.Scenario.Model, a.cfg.Scenario.Theme)
				var author director.Author
				author, err = director.NewGeminiAuthor(cmd.Context(), a.cfg.Scenario.GeminiAPIKey, a.cfg.Scenario.Model, director.Brief{
					Theme:         a.cfg.Scenario.Theme,
					Slides:        a.cfg.Scenario.Slides,
					SlideDuration: a.cfg.SlideDuration,
				})
				if err != nil {
					return err
				}
				scenario, err = author.Author(cmd.Context())
			}
			if err != nil {
				return err
			}

			st.Scenario = scenario
			st.Completed = false
			if err := a.store.Save(st); err != nil {
				return err
			}
			if err := director.WriteScenario(scenario, a.cfg.ScenarioFile()); err != nil {
				return err
			}

			log.Infof("[+++] Сценарий сохранен: %d слайдов", len(scenario.Slides))
			fmt.Fprintf(out, "Файлы:\n   - %s (для просмотра)\n   - %s (рабочее состояние)\n\n", a.cfg.ScenarioFile(), a.store.Path())
			printScenario(out, scenario, 0)
			fmt.Fprintln(out, "\nСледующий шаг: reelprep images")
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Импортировать сценарий из YAML/JSON файла вместо генерации")
	return cmd
}

// printScenario lists slides, cutting narration to limit runes when limit > 0.
func printScenario(w io.Writer, s *state.Scenario, limit int) {
	for i, slide := range s.Slides {
		text := slide.NarrationText
		if limit > 0 {
			text = director.Excerpt(text, limit)
		}
		fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, slide.Type, text)
	}
}
