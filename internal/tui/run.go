// Package tui is the interactive terminal client. It drives an engine
// session and answers its confirmations and choices in dialogs.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/bankdash/internal/engine"
	"github.com/Veraticus/bankdash/internal/loader"
	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the TUI until the user quits. session must have been created
// with presenter. The returned page is set when the session ended, after
// logout or account deletion.
func Run(ctx context.Context, session *engine.Session, presenter *Presenter, opts ...Option) (*loader.Page, error) {
	if session == nil || presenter == nil {
		return nil, fmt.Errorf("session and presenter are required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cleanupTerminal := func() {
		// Best effort, the program may already have restored the terminal.
		_, _ = os.Stdout.Write([]byte("\033[?1049l")) // Exit alternate screen
		_, _ = os.Stdout.Write([]byte("\033[?25h"))   // Show cursor
		_, _ = os.Stdout.Write([]byte("\033[m"))      // Reset colors
	}
	defer cleanupTerminal()

	go func() {
		select {
		case <-sigChan:
			cleanupTerminal()
			cancel()
		case <-ctx.Done():
		}
	}()

	recorder := NewRecorder(cfg.Record)
	defer recorder.Close()

	m := newModel(ctx, session, cfg)
	m.recorder = recorder

	program := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	presenter.attach(program.Send)
	defer presenter.attach(nil)

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("tui error: %w", err)
	}
	if dir := recorder.Dir(); dir != "" {
		slog.Info("tui frames recorded", "dir", dir)
	}

	if fm, ok := final.(Model); ok {
		return fm.left, nil
	}
	return nil, nil
}
