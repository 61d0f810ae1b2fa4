package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/generator"
	"github.com/ivlev/reelprep/internal/logger"
	"github.com/ivlev/reelprep/internal/pipeline"
)

func newSpeechCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "speech",
		Short: "Озвучить слайды и пересчитать таймлайн по длительности аудио",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			log := logger.ForStage(a.log, "speech")

			tts, err := generator.NewSynthesizer(a.cfg.Speech)
			if err != nil {
				return err
			}
			log.Infof("[*] Движок озвучки: %s", a.cfg.Speech.Engine)

			stage := pipeline.NewSpeechStage(a.cfg, a.store, tts, generator.NewFFProbe(a.cfg.ProbeCommand), log)
			return stage.Run(cmd.Context())
		},
	}
}
