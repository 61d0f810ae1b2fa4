package main

import (
	"github.com/spf13/cobra"

	"github.com/ivlev/reelprep/internal/report"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Показать прогресс подготовки",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			r, err := report.Build(cmd.Context(), a.cfg, a.store, a.cfg.StatusConcurrency)
			if err != nil {
				return err
			}
			r.Write(cmd.OutOrStdout(), a.cfg)
			return nil
		},
	}
}
