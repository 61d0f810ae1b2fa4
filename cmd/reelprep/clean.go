package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/logger"
)

func newCleanCmd() *cobra.Command {
	var keepAudio bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Удалить состояние, таймлайн и промежуточные файлы",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			log := logger.ForStage(a.log, "clean")

			targets := []string{a.cfg.StateFile(), a.cfg.TimelineFile(), a.cfg.ScenarioFile(), a.cfg.TempDir}
			if !keepAudio {
				targets = append(targets, a.cfg.AudioDir())
			}
			for _, path := range targets {
				if err := os.RemoveAll(path); err != nil {
					return err
				}
				log.Debugf("[-] %s", path)
			}
			log.Info("[+] Готово, можно начинать заново: reelprep scenario")
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepAudio, "keep-audio", false, "Не удалять output/audio")
	return cmd
}
