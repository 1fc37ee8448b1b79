// Package tui runs the desktop as a bubbletea program and hosts the
// interactive config wizard.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/retrodesk/internal/shell"
)

// ErrNotTerminal is returned when stdin or stdout is not a TTY.
var ErrNotTerminal = errors.New("the desktop requires an interactive terminal (stdin/stdout must be TTYs)")

// Run starts the desktop and blocks until the user exits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Scheduler == nil {
		return fmt.Errorf("tui: scheduler is required")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	// Ensure TERM is set
	if os.Getenv("TERM") == "" {
		_ = os.Setenv("TERM", "xterm-256color")
	}

	m := newModel(opts)
	m.sched.Post(shell.OpenTerminal{})

	program := tea.NewProgram(
		m,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err := program.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
