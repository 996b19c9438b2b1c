package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the banking TUI and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts ...Option) error {
	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			cancelPending(final)
			return nil
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// cancelPending discards an action left awaiting verification when the
// program is killed rather than quit.
func cancelPending(final tea.Model) {
	m, ok := final.(Model)
	if !ok {
		return
	}
	if _, pending := m.flow().Pending(); pending {
		_ = m.flow().Cancel()
	}
}
