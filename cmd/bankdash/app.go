package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/cli"
	"github.com/Veraticus/bankdash/internal/config"
	"github.com/Veraticus/bankdash/internal/engine"
	"github.com/Veraticus/bankdash/internal/settings"
	"github.com/Veraticus/bankdash/internal/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is one command's connection to the backend.
type app struct {
	session *engine.Session
	store   *state.Store
	out     io.Writer
}

// Close releases the state store.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close state store", "error", err)
	}
}

// print writes s and a newline to the command output.
func (a *app) print(s string) error {
	_, err := fmt.Fprintln(a.out, s)
	return err
}

// newApp connects to the configured backend. Banners and questions go to
// presenter, or to the terminal when presenter is nil.
func newApp(cmd *cobra.Command, presenter alert.Presenter) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	store, err := state.Open(ctx, cfg.StatePath)
	if err != nil {
		return nil, err
	}

	client, err := newClient(ctx, cfg, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if presenter == nil {
		p := cli.NewPresenter(cmd.InOrStdin(), cmd.OutOrStdout())
		p.Yes, _ = cmd.Flags().GetBool("yes")
		presenter = p
	}

	session := engine.NewWithConfig(ctx, client, store, presenter, engine.Config{
		Language:    cfg.UI.Language,
		PageSize:    cfg.UI.PageSize,
		BulkActions: true,
		Details:     true,
	}, settings.WithCountdown(cfg.UI.AlertCountdown))

	slog.Debug("Connected", "server", client.BaseURL(), "state", store.Path())
	return &app{session: session, store: store, out: cmd.OutOrStdout()}, nil
}

// newClient connects to the configured server. A session cookie from the
// config wins over the one stored by the last login.
func newClient(ctx context.Context, cfg *config.Config, store *state.Store) (*api.Client, error) {
	opts := cfg.ClientOptions()
	if cfg.Server.SessionCookie == "" {
		session, ok, err := store.Get(ctx, state.KeySession)
		if err != nil {
			slog.Warn("Failed to read stored session", "error", err)
		}
		if ok && session != "" {
			opts = append(opts, api.WithSession(cfg.Server.SessionName, session))
		}
	}
	return api.NewClient(cfg.Server.URL, opts...)
}

// openBank selects bank id on the backend. Zero keeps the current bank.
func (a *app) openBank(ctx context.Context, id int64) error {
	if id == 0 {
		return nil
	}
	_, err := a.session.Navigate(ctx, banks.Path(id))
	return err
}

// bankFlag adds the --bank flag to cmd.
func bankFlag(cmd *cobra.Command, target *int64) {
	cmd.Flags().Int64Var(target, "bank", 0, "bank to work on (default: the bank opened last)")
}
