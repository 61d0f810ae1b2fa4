package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/generator"
	"github.com/ivlev/reelprep/internal/logger"
	"github.com/ivlev/reelprep/internal/pipeline"
	"github.com/ivlev/reelprep/internal/system"
)

func newImagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "Сгенерировать изображения, отделить объект от фона и найти центр",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			log := logger.ForStage(a.log, "images")

			host, err := system.Host()
			if err != nil {
				log.Warnf("[!] %v", err)
			} else {
				log.Infof("[*] %s", host)
				if host.LowMemory(a.cfg.MinFreeMemoryMB) {
					log.Warnf("[!] Свободно %d MB, модели изображений нужно не меньше %d MB", host.AvailMemMB, a.cfg.MinFreeMemoryMB)
				}
			}

			stage := pipeline.NewImageStage(a.cfg, a.store,
				generator.NewSDCommand(a.cfg.Image.Command, a.cfg.Image.Width, a.cfg.Image.Height),
				generator.NewTransparentBackground(a.cfg.Segment.Command, a.cfg.Segment.Threshold),
				log,
			)
			return stage.Run(cmd.Context())
		},
	}
}
