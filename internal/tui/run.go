package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smokyabdulrahman/ramadan-compass/internal/shell"
)

// Run shows the countdown screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, sh *shell.Shell, opts Options) error {
	app := NewApp(ctx, sh, opts)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	app.out.set(p.Send)

	final, err := p.Run()
	if fa, ok := final.(App); ok {
		fa.stopPresenter()
	}
	app.out.set(nil)

	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
