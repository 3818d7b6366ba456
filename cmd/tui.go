package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genresort/internal/shared"
	"github.com/desertthunder/genresort/internal/ui"
	"github.com/urfave/cli/v3"
)

// tuiLogPath places the TUI log beside the session database, so the command
// logs to the same place regardless of the working directory.
func tuiLogPath(config *shared.Config) string {
	return filepath.Join(filepath.Dir(config.Database.Path), "genresort-tui.log")
}

// TUI launches the interactive terminal UI for bucket selection and playlist creation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(tuiLogPath(r.config))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
