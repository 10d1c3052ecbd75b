package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/encore/internal/app"
	"github.com/llehouerou/encore/internal/settings"
)

func runTUI(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := startEngine(ctx, true)
	if err != nil {
		return err
	}
	defer e.Close()

	model := app.New(e.svc, app.Options{
		Stations: e.client,
		OnSettings: func(s settings.Settings) {
			if err := settings.Save(cfg.SettingsFile, s); err != nil {
				logger.Warn().Err(err).Msg("save settings")
			}
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	}
	return nil
}
