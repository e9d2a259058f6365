package tui

import (
	"context"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/table"
	tea "github.com/charmbracelet/bubbletea"
)

// tickInterval is how often running countdowns are redrawn.
const tickInterval = time.Second

// navigate loads path. Logging out ends the program.
func (m Model) navigate(path string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		page, err := session.Navigate(ctx, path)
		if err == nil && page != nil && page.Route == loader.RouteLogout {
			return leftMsg{page: page}
		}
		return pageLoadedMsg{page: page, err: err}
	}
}

// start reads the banks of the start page and opens the first page.
func (m Model) start() tea.Cmd {
	session, ctx, path := m.session, m.ctx, m.config.StartPath
	return func() tea.Msg {
		if err := session.RefreshBanks(ctx); err != nil {
			common.LogFailure(ctx, err, "Failed to read bank list")
		}
		var (
			page *loader.Page
			err  error
		)
		if path != "" {
			page, err = session.Navigate(ctx, path)
		} else {
			page, err = session.Restore(ctx)
		}
		return pageLoadedMsg{page: page, err: err}
	}
}

// run executes an action in the background. The action shows its own banner.
func (m Model) run(name string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(ctx)}
	}
}

// runPage executes an action that ends on another page.
func (m Model) runPage(fn func(ctx context.Context) (*loader.Page, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		page, err := fn(ctx)
		return pageLoadedMsg{page: page, err: err}
	}
}

// deleteAccount deletes the account and ends the session.
func (m Model) deleteAccount() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		page, err := session.DeleteAccount(ctx)
		if err != nil {
			return actionDoneMsg{name: "delete account", err: err}
		}
		return leftMsg{page: page}
	}
}

// addContract asks which contract to link to txID and links it.
func (m Model) addContract(txID int64) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		str := session.Strings()
		options := session.Table.Contracts()
		if len(options) == 0 {
			session.Presenter().Show(alert.Error(str.Get(i18n.KeyNoContractsHeader), str.Get(i18n.KeyNoContractsBody)))
			return actionDoneMsg{name: "add contract"}
		}
		names := make([]string, len(options))
		for i, c := range options {
			names[i] = c.Name
		}
		i, err := session.Presenter().Choose(ctx, alert.Prompt{
			Header:  str.Get(i18n.KeyAddContractHeader),
			Body:    str.Get(i18n.KeyAddContractBody),
			Options: names,
		})
		if err != nil {
			return actionDoneMsg{name: "add contract", err: err}
		}
		return actionDoneMsg{
			name: "add contract",
			err:  session.AddContract(ctx, txID, options[i].ID, table.ResolutionNone),
		}
	}
}

// tick schedules the next countdown redraw.
func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
