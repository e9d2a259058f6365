package tui

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/engine"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/testutil"
	tuitesting "github.com/Veraticus/bankdash/internal/tui/testing"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// harness wires a model to a fake backend. Messages the presenter sends
// into the program arrive on sent.
type harness struct {
	backend *testutil.Backend
	session *engine.Session
	clock   *tuitesting.Clock
	driver  *tuitesting.Driver
	sent    chan tea.Msg
}

func newHarness(t *testing.T, b *testutil.Backend, start string) *harness {
	t.Helper()
	client, err := api.NewClient(b.URL())
	require.NoError(t, err)

	p := NewPresenter()
	sent := make(chan tea.Msg, 16)
	p.attach(func(msg tea.Msg) { sent <- msg })

	ctx := context.Background()
	session := engine.New(ctx, client, testutil.NewStateStore(t), p)
	clock := tuitesting.NewClock(testStart)

	cfg := defaultConfig()
	cfg.Theme = themes.Default
	cfg.Now = clock.Now
	cfg.StartPath = start
	cfg.ShowHelp = false
	cfg.Width = 120
	cfg.Height = 40

	m := newModel(ctx, session, cfg)
	h := &harness{
		backend: b,
		session: session,
		clock:   clock,
		driver:  tuitesting.NewDriver(m),
		sent:    sent,
	}
	h.driver.Exec(m.Init())
	return h
}

func (h *harness) model() Model {
	return h.driver.Model.(Model)
}

// deliver forwards one presenter message into the model.
func (h *harness) deliver(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-h.sent:
		h.driver.Send(msg)
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("presenter sent nothing")
		return nil
	}
}

// async runs cmd like the program would, off the update loop.
func async(cmd tea.Cmd) <-chan tea.Msg {
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	return done
}

func transactionsFragment(t *testing.T, rows ...model.TransactionWithContract) string {
	t.Helper()
	return fmt.Sprintf(`<div id="transactions"><script id="transactions-data" type="application/json">%s</script></div>`,
		testutil.Island(t, rows))
}

func contractsFragment(t *testing.T, contracts ...model.ContractWithHistory) string {
	t.Helper()
	return fmt.Sprintf(`<div id="contracts"><script id="contracts-data" type="application/json">%s</script></div>`,
		testutil.Island(t, contracts))
}

func transactionsBackend(t *testing.T) *testutil.Backend {
	t.Helper()
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", transactionsFragment(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Build(),
		testutil.NewRow(2, "Bakery", "-3.50", "2024-01-10").Build(),
	))
	return b
}

func TestModel_StartsOnConfiguredPage(t *testing.T) {
	h := newHarness(t, transactionsBackend(t), "/bank/transaction")

	m := h.model()
	assert.Equal(t, PageTransactions, m.page)
	assert.False(t, m.loading)
	assert.True(t, tuitesting.ContainsInOrder(h.driver.Plain(), "Netflix", "Bakery"))
}

func TestModel_HideCurrentRow(t *testing.T) {
	b := transactionsBackend(t)
	b.JSON(http.MethodPost, "/bank/transaction/hide", http.StatusOK, testutil.Success("Hidden", "1 transaction hidden"))
	h := newHarness(t, b, "/bank/transaction")

	cmd := h.driver.Press("h")
	require.NotNil(t, cmd)
	h.driver.Exec(cmd)
	h.deliver(t)

	reqs := b.Requests()
	require.NotEmpty(t, reqs)
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/bank/transaction/hide", last.Path)
	assert.JSONEq(t, `{"ids": [1]}`, string(last.Body))

	out := h.driver.Plain()
	assert.Contains(t, out, "1 transaction hidden")
	assert.NotContains(t, out, "Netflix")
}

func TestModel_ShowHiddenToggle(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", transactionsFragment(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Hidden().Build(),
	))
	h := newHarness(t, b, "/bank/transaction")
	assert.NotContains(t, h.driver.Plain(), "Netflix")

	h.driver.Press(".")
	out := h.driver.Plain()
	assert.Contains(t, out, "Netflix")
	assert.Contains(t, out, "hidden shown")
}

func TestModel_SearchFiltersRows(t *testing.T) {
	h := newHarness(t, transactionsBackend(t), "/bank/transaction")

	h.driver.Press("/")
	assert.Equal(t, StateSearching, h.model().state)
	h.driver.Type("bak")

	out := h.driver.Plain()
	assert.Contains(t, out, "Bakery")
	assert.NotContains(t, out, "Netflix")

	h.driver.Press("esc")
	assert.Equal(t, StateBrowsing, h.model().state)
	assert.Contains(t, h.driver.Plain(), "Netflix")
}

func TestModel_SelectionMarksRows(t *testing.T) {
	h := newHarness(t, transactionsBackend(t), "/bank/transaction")

	h.driver.Press("x")
	assert.Equal(t, []int64{1}, h.session.Table.Selected())
	assert.Contains(t, h.driver.Plain(), "1 selected")

	h.driver.Press("ctrl+d")
	assert.Empty(t, h.session.Table.Selected())
}

func TestModel_AddContractAsksForContract(t *testing.T) {
	streaming := testutil.NewContract(3, "Streaming", "-15.99")
	b := testutil.NewBackend(t)
	b.HTML("/bank/transaction", transactionsFragment(t,
		testutil.NewRow(1, "Netflix", "-15.99", "2024-01-15").Build(),
		testutil.NewRow(2, "Netflix", "-15.99", "2023-12-15").WithContract(streaming).Build(),
	))
	b.JSON(http.MethodGet, "/bank/transaction/add_contract/{tx}/{c}", http.StatusOK, testutil.Success("Contract", "Contract added"))
	h := newHarness(t, b, "/bank/transaction")

	done := async(h.driver.Press("c"))
	h.deliver(t)
	m := h.model()
	require.Equal(t, StateDialog, m.state)
	assert.Contains(t, h.driver.Plain(), "1. Streaming")

	h.driver.Press("1")
	assert.Equal(t, StateBrowsing, h.model().state)
	h.driver.Send(<-done)
	h.deliver(t)

	assert.Contains(t, b.Paths(), "GET /bank/transaction/add_contract/1/3")
	assert.Contains(t, h.driver.Plain(), "Contract added")
}

func TestModel_MergeConfirmation(t *testing.T) {
	for _, tc := range []struct {
		name   string
		key    string
		merged bool
	}{
		{name: "confirmed", key: "y", merged: true},
		{name: "declined", key: "n"},
		{name: "escaped", key: "esc"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			b := testutil.NewBackend(t)
			b.HTML("/bank/contract", contractsFragment(t,
				model.ContractWithHistory{Contract: testutil.NewContract(1, "Gym", "-30")},
				model.ContractWithHistory{Contract: testutil.NewContract(2, "Gym Berlin", "-30")},
			))
			b.JSON(http.MethodPost, "/bank/contract/merge", http.StatusOK, testutil.Success("Merged", "2 contracts merged"))
			b.JSON(http.MethodGet, "/bank/contract/data", http.StatusOK, []model.ContractWithHistory{
				{Contract: testutil.NewContract(1, "Gym", "-30")},
			})
			h := newHarness(t, b, "/bank/contract")
			require.Equal(t, PageContracts, h.model().page)

			h.driver.Press("x", "j", "x")
			require.Len(t, h.session.Contracts.Selected(), 2)

			done := async(h.driver.Press("M"))
			h.deliver(t)
			require.Equal(t, StateDialog, h.model().state)

			h.driver.Press(tc.key)
			h.driver.Send(<-done)

			merged := false
			for _, p := range b.Paths() {
				merged = merged || p == "/bank/contract/merge"
			}
			assert.Equal(t, tc.merged, merged)
			if tc.merged {
				h.deliver(t)
				assert.Equal(t, []string{"Gym"}, h.session.Contracts.Names())
				assert.Contains(t, h.driver.Plain(), "2 contracts merged")
			}
		})
	}
}

func TestModel_RenameContract(t *testing.T) {
	b := testutil.NewBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(1, "Gym", "-30")},
	))
	b.JSON(http.MethodGet, "/bank/contract/nameChanged/{id}/{name}", http.StatusOK, testutil.Success("Renamed", "Contract renamed"))
	h := newHarness(t, b, "/bank/contract")

	h.driver.Press("e")
	require.Equal(t, StateInput, h.model().state)
	assert.Equal(t, "Gym", h.model().input.Value())

	h.driver.Type(" Berlin")
	cmd := h.driver.Press("enter")
	require.NotNil(t, cmd)
	h.driver.Exec(cmd)
	h.deliver(t)

	assert.Equal(t, []string{"Gym Berlin"}, h.session.Contracts.Names())
}

func TestModel_DateRangeInput(t *testing.T) {
	t.Run("invalid input shows banner", func(t *testing.T) {
		b := testutil.NewBackend(t)
		b.HTML("/dashboard", `<div id="dashboard"></div>`)
		b.JSON(http.MethodGet, "/get/graph/data", http.StatusOK, map[string]any{})
		h := newHarness(t, b, "/dashboard")
		requests := len(b.Requests())

		h.driver.Press("t")
		h.driver.Type("yesterday")
		cmd := h.driver.Press("enter")

		assert.Nil(t, cmd)
		assert.Len(t, b.Requests(), requests)
		assert.Contains(t, h.driver.Plain(), "YYYY-MM-DD")
	})

	t.Run("range parses", func(t *testing.T) {
		start, end, err := parseRange("2024-01-01 2024-03-31")
		require.NoError(t, err)
		assert.Equal(t, 2024, start.Year())
		assert.Equal(t, time.March, end.Month())
	})
}

func alertWithCountdown(d time.Duration) alert.Alert {
	a := alert.Success("Account deleted", "Goodbye.")
	a.Button = "Close"
	a.Countdown = d
	return a
}

func TestModel_CountdownBannerCannotBeDismissedEarly(t *testing.T) {
	h := newHarness(t, transactionsBackend(t), "/bank/transaction")

	cmd := h.driver.Send(bannerMsg{alert: alertWithCountdown(5 * time.Second)})
	assert.NotNil(t, cmd, "a running countdown schedules a tick")
	assert.Contains(t, h.driver.Plain(), "in 5s")

	h.driver.Press("esc")
	assert.True(t, h.model().banner.Visible())

	h.clock.Advance(5 * time.Second)
	h.driver.Press("esc")
	assert.False(t, h.model().banner.Visible())
}

func TestModel_SwitchPagesWithTab(t *testing.T) {
	b := transactionsBackend(t)
	b.HTML("/bank/contract", contractsFragment(t,
		model.ContractWithHistory{Contract: testutil.NewContract(1, "Gym", "-30")},
	))
	h := newHarness(t, b, "/bank/transaction")

	cmd := h.driver.Press("tab")
	require.NotNil(t, cmd)
	assert.True(t, h.model().loading)
	h.driver.Exec(cmd)

	assert.Equal(t, PageContracts, h.model().page)
	assert.Contains(t, h.driver.Plain(), "Gym")
}

func TestModel_HelpView(t *testing.T) {
	h := newHarness(t, transactionsBackend(t), "/bank/transaction")

	h.driver.Press("?")
	assert.Equal(t, StateHelp, h.model().state)
	assert.Contains(t, h.driver.Plain(), "hide")

	h.driver.Press("?")
	assert.Equal(t, StateBrowsing, h.model().state)
}

func TestModel_LogoutEndsProgram(t *testing.T) {
	b := transactionsBackend(t)
	b.Raw(http.MethodGet, "/logout", http.StatusOK, "")
	h := newHarness(t, b, "/bank/transaction")

	msg := h.driver.Exec(h.model().navigate("/logout"))
	require.IsType(t, leftMsg{}, msg)
	assert.True(t, h.model().quitting)
	assert.Empty(t, h.driver.Output)
}
