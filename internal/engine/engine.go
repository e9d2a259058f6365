// Package engine wires the page controllers to the page loader and runs the
// operations that involve the user: confirmations before a request, the
// amount resolution choice and the result banners after it.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/contracts"
	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/settings"
	"github.com/Veraticus/bankdash/internal/table"
)

// Config holds the session options.
type Config struct {
	Language    i18n.Language
	PageSize    int
	BulkActions bool
	Details     bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Language: i18n.Default,
		PageSize: 50,
	}
}

// Session holds the state of every page for one logged in user.
type Session struct {
	presenter alert.Presenter
	fetcher   loader.Fetcher
	Loader    *loader.Loader
	Table     *table.Controller
	Contracts *contracts.List
	Dashboard *dashboard.Dashboard
	Banks     *banks.Tree
	Settings  *settings.Settings
}

// New creates a session with the default configuration.
func New(ctx context.Context, client Client, store Store, presenter alert.Presenter) *Session {
	return NewWithConfig(ctx, client, store, presenter, DefaultConfig())
}

// NewWithConfig creates a session and registers the page handlers with its
// loader.
func NewWithConfig(ctx context.Context, client Client, store Store, presenter alert.Presenter, cfg Config, opts ...settings.Option) *Session {
	st := settings.New(ctx, client, store, cfg.Language, opts...)
	s := &Session{
		presenter: presenter,
		fetcher:   client,
		Loader:    loader.New(client, store),
		Table: table.New(client,
			table.WithPageSize(cfg.PageSize),
			table.WithStrings(st.Strings()),
			table.WithBulkActions(cfg.BulkActions),
			table.WithDetails(cfg.Details),
		),
		Contracts: contracts.New(client),
		Dashboard: dashboard.New(client),
		Banks:     banks.New(client),
		Settings:  st,
	}

	s.Loader.Handle(loader.RouteTransactions, s.onTransactions(client))
	s.Loader.Handle(loader.RouteContracts, s.onContracts)
	s.Loader.Handle(loader.RouteDashboard, s.onDashboard)
	s.Loader.Handle(loader.RouteBank, s.onDashboard)
	return s
}

// Strings returns the strings of the current language.
func (s *Session) Strings() i18n.Strings {
	return s.Settings.Strings()
}

// Presenter returns the presenter banners and questions go to.
func (s *Session) Presenter() alert.Presenter {
	return s.presenter
}

func (s *Session) onTransactions(f table.Fetcher) loader.Handler {
	return func(ctx context.Context, p *loader.Page) error {
		if raw, ok := p.Islands[loader.IslandContracts]; ok {
			if err := s.Contracts.Load(raw); err != nil {
				slog.Warn("Ignoring contracts of transaction page", "error", err)
			}
		}
		s.Table.SetContracts(s.Contracts.Contracts())

		src := table.EndpointSource(f)
		if raw, ok := p.Islands[loader.IslandTransactions]; ok {
			src = table.IslandSource(raw)
		}
		return s.Table.Load(ctx, src)
	}
}

func (s *Session) onContracts(ctx context.Context, p *loader.Page) error {
	raw, err := p.Islands.Get(loader.IslandContracts)
	if err != nil {
		slog.Debug("Contract page has no data island, fetching", "path", p.Path)
		return s.Contracts.Reload(ctx)
	}
	return s.Contracts.Load(raw)
}

func (s *Session) onDashboard(ctx context.Context, p *loader.Page) error {
	s.Banks.Expand(p.BankID)
	s.Dashboard.SetBankScope(p.BankID != nil)
	s.Dashboard.SetFragment(p.HTML)
	raw, err := p.Islands.Get(loader.IslandGraph)
	if err != nil {
		return s.Dashboard.RefreshGraph(ctx)
	}
	return s.Dashboard.LoadGraph(raw)
}

// Navigate loads target and shows the banner of a response island. Errors
// are shown as banners and returned.
func (s *Session) Navigate(ctx context.Context, target string) (*loader.Page, error) {
	return s.navigated(s.Loader.Navigate(ctx, target))
}

// Restore navigates to the remembered page.
func (s *Session) Restore(ctx context.Context) (*loader.Page, error) {
	return s.navigated(s.Loader.Restore(ctx))
}

func (s *Session) navigated(page *loader.Page, err error) (*loader.Page, error) {
	if err != nil {
		s.fail(err)
		return page, err
	}
	if page.HTML != "" {
		s.Banks.Merge(banks.FromFragment(page.HTML))
	}
	if page.Response != nil {
		s.presenter.Show(alert.FromEnvelope(*page.Response, s.Strings()))
	}
	return page, nil
}

// RefreshBanks reads the bank buttons of the start page into the bank tree.
func (s *Session) RefreshBanks(ctx context.Context) error {
	fragment, err := s.fetcher.Fragment(ctx, loader.HomePath)
	if err != nil {
		return err
	}
	added := s.Banks.Merge(banks.FromFragment(fragment))
	slog.Debug("Read banks of start page", "added", added, "total", s.Banks.Len())
	return nil
}

// Logout ends the session on the backend.
func (s *Session) Logout(ctx context.Context) (*loader.Page, error) {
	page, err := s.Loader.Navigate(ctx, api.PathLogout)
	if err != nil {
		s.fail(err)
	}
	return page, err
}

// fail shows the banner for err. Selection and validation errors of the
// controllers get their own messages.
func (s *Session) fail(err error) {
	str := s.Strings()
	switch {
	case errors.Is(err, contracts.ErrMergeNeedsTwo):
		s.presenter.Show(alert.MergeNeedsTwo(str))
	case errors.Is(err, table.ErrNoSelection), errors.Is(err, contracts.ErrNoSelection):
		s.presenter.Show(alert.Error(str.Get(i18n.KeyErrorHeader), str.Get(i18n.KeyNoSelection)))
	case errors.Is(err, contracts.ErrEmptyName):
		s.presenter.Show(alert.Error(str.Get(i18n.KeyErrorHeader), str.Get(i18n.KeyEmptyContractName)))
	case errors.Is(err, common.ErrSessionInvalid):
		s.presenter.Show(alert.Error(str.Get(i18n.KeyLoginInvalidHeader), str.Get(i18n.KeyLoginAgain)))
	case errors.Is(err, alert.ErrCanceled):
	default:
		if a, ok := alert.FromError(err, str); ok {
			s.presenter.Show(a)
		}
	}
}
