package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/config"
	"github.com/ivlev/reelprep/internal/logger"
	"github.com/ivlev/reelprep/internal/state"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "reelprep",
		Short: "Подготовка материалов для вертикального ролика по слайдам",
		Long: `reelprep готовит материалы для рендера: сценарий, изображения с отделенным
объектом и фоном, озвучку и таймлайн. Каждый этап можно прервать и запустить
снова, уже готовые файлы не пересоздаются.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFile, "Путь к YAML-конфигу")

	root.AddCommand(
		newScenarioCmd(),
		newImagesCmd(),
		newSpeechCmd(),
		newStatusCmd(),
		newCleanCmd(),
	)
	return root
}

// app is what every command needs: configuration, logger and checkpoint.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	store *state.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	for _, dir := range []string{cfg.OutputDir, cfg.TempDir, cfg.AudioDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &app{cfg: cfg, log: log, store: state.NewStore(cfg.StateFile())}, nil
}
