package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/sentix/internal/shared"
	"github.com/desertthunder/sentix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive import dashboard.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.session == nil {
		return fmt.Errorf("%w: session manager not initialized", shared.ErrServiceUnavailable)
	}
	if r.gateway == nil {
		return fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, logFile, err := shared.NewFileLogger("./tmp/sentix-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	defer logFile.Close()
	shared.SetLogLevel(fileLogger, r.config.Log.ParseLevel())
	r.SetLogger(fileLogger)

	r.session.Init(ctx)
	pipeline := r.newPipeline()

	model := ui.NewModel(ctx, r.session, pipeline)
	p := tea.NewProgram(model)
	cancel := model.Listen(p.Send)
	defer cancel()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
