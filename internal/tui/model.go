package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/engine"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/table"
	"github.com/Veraticus/bankdash/internal/tui/components"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Page is the tab shown.
type Page int

// Pages in tab order.
const (
	PageDashboard Page = iota
	PageBanks
	PageTransactions
	PageContracts
)

var pageNames = map[Page]string{
	PageDashboard:    "Dashboard",
	PageBanks:        "Banks",
	PageTransactions: "Transactions",
	PageContracts:    "Contracts",
}

func (p Page) String() string {
	return pageNames[p]
}

// path is the fragment of the page. The bank list needs none.
func (p Page) path() string {
	switch p {
	case PageDashboard:
		return api.PathDashboard
	case PageTransactions:
		return api.PathTransactions
	case PageContracts:
		return api.PathContracts
	default:
		return ""
	}
}

// pageFor maps a loaded route to its tab.
func pageFor(r loader.Route) (Page, bool) {
	switch r {
	case loader.RouteDashboard, loader.RouteBank:
		return PageDashboard, true
	case loader.RouteTransactions:
		return PageTransactions, true
	case loader.RouteContracts:
		return PageContracts, true
	default:
		return 0, false
	}
}

// State is what the keyboard currently drives.
type State int

const (
	StateBrowsing State = iota
	StateSearching
	StateInput
	StateDialog
	StateHelp
)

// inputKind is the purpose of the text input.
type inputKind int

const (
	inputRename inputKind = iota
	inputDateRange
)

// sortCycle is the order the sort key steps through.
var sortCycle = []table.SortKey{
	table.SortDate,
	table.SortAmount,
	table.SortCounterparty,
	table.SortBalance,
	table.SortContractName,
	table.SortID,
}

// Model holds the main TUI state.
type Model struct {
	ctx          context.Context
	session      *engine.Session
	recorder     *Recorder
	left         *loader.Page
	reply        chan<- dialogReply
	theme        themes.Theme
	config       Config
	keymap       KeyMap
	help         help.Model
	input        textinput.Model
	transactions components.TransactionListModel
	contracts    components.ContractListModel
	banner       components.BannerModel
	dialog       components.DialogModel
	renameID     int64
	inputKind    inputKind
	bankCursor   int
	width        int
	height       int
	page         Page
	state        State
	prevState    State
	loading      bool
	dialogChoice bool
	quitting     bool
}

// newModel creates a model driving session.
func newModel(ctx context.Context, session *engine.Session, cfg Config) Model {
	s := session.Strings()
	input := textinput.New()
	input.CharLimit = 120

	m := Model{
		ctx:          ctx,
		session:      session,
		config:       cfg,
		theme:        cfg.Theme,
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		input:        input,
		transactions: components.NewTransactionList(cfg.Theme),
		contracts: components.NewContractList(cfg.Theme,
			s.Get(i18n.KeyOpenContracts), s.Get(i18n.KeyClosedContracts), s.Get(i18n.KeyNoHistory)),
		banner:  components.NewBanner(cfg.Theme),
		width:   cfg.Width,
		height:  cfg.Height,
		page:    PageDashboard,
		loading: true,
	}
	m.handleResize()
	return m
}

// Init reads the bank list, then opens the configured page or the
// remembered one.
func (m Model) Init() tea.Cmd {
	return m.start()
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if next.recorder != nil {
		next.recorder.RecordState(next, msg)
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case bannerMsg:
		a := msg.alert
		if a.ShownAt.IsZero() {
			a.ShownAt = m.config.Now()
		}
		m.banner.Show(a)
		if m.banner.Counting(m.config.Now()) {
			return m, tick()
		}
		return m, nil

	case tickMsg:
		if m.banner.Counting(m.config.Now()) {
			return m, tick()
		}
		return m, nil

	case confirmRequestMsg:
		return m.openDialog(components.NewConfirmDialog(msg.dialog, m.theme), msg.reply, false), nil

	case chooseRequestMsg:
		return m.openDialog(components.NewChoiceDialog(msg.prompt, m.theme), msg.reply, true), nil

	case pageLoadedMsg:
		return m.handlePageLoaded(msg), nil

	case actionDoneMsg:
		m.loading = false
		m.sync()
		return m, nil

	case leftMsg:
		m.left = msg.page
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) openDialog(d components.DialogModel, reply chan<- dialogReply, choice bool) Model {
	if m.reply != nil {
		// Only one question is asked at a time.
		reply <- dialogReply{canceled: true}
		return m
	}
	m.dialog = d
	m.reply = reply
	m.dialogChoice = choice
	if m.state != StateDialog {
		m.prevState = m.state
	}
	m.state = StateDialog
	return m
}

func (m Model) closeDialog() Model {
	r := dialogReply{confirmed: m.dialog.Confirmed()}
	if m.dialogChoice {
		r.choice, r.confirmed = m.dialog.Choice()
	}
	r.canceled = !r.confirmed
	m.reply <- r
	m.reply = nil
	m.state = m.prevState
	return m
}

func (m Model) handlePageLoaded(msg pageLoadedMsg) Model {
	if errors.Is(msg.err, common.ErrSuperseded) {
		return m
	}
	m.loading = false
	if msg.err != nil || msg.page == nil {
		return m
	}
	if p, ok := pageFor(msg.page.Route); ok {
		m.page = p
	}
	if msg.page.BankID != nil {
		for i, n := range m.session.Banks.Nodes() {
			if n.ID == *msg.page.BankID {
				m.bankCursor = i
			}
		}
	}
	m.sync()
	return m
}

// sync copies the controller state into the list components.
func (m *Model) sync() {
	m.transactions.SetRows(m.session.Table.Rendered())
	m.contracts.SetCards(m.session.Contracts.Cards())
	if n := m.session.Banks.Len(); m.bankCursor >= n {
		m.bankCursor = max(0, n-1)
	}
}

func (m *Model) handleResize() {
	body := max(5, m.height-8)
	m.transactions.Resize(m.width, body)
	m.contracts.Resize(m.width, body)
	m.help.Width = m.width
	m.input.Width = max(10, m.width-20)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		if m.reply != nil {
			m.reply <- dialogReply{canceled: true}
			m.reply = nil
		}
		return m, tea.Quit
	}

	switch m.state {
	case StateDialog:
		m.dialog, _ = m.dialog.Update(msg)
		if m.dialog.Done() {
			m = m.closeDialog()
		}
		return m, nil
	case StateSearching:
		return m.handleSearchKey(msg)
	case StateInput:
		return m.handleInputKey(msg)
	case StateHelp:
		if key.Matches(msg, m.keymap.Help, m.keymap.Dismiss, m.keymap.Quit) {
			m.state = StateBrowsing
			m.help.ShowAll = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Help):
		m.state = StateHelp
		m.help.ShowAll = true
		return m, nil
	case key.Matches(msg, m.keymap.Dismiss):
		m.banner.Dismiss(m.config.Now())
		return m, nil
	case key.Matches(msg, m.keymap.NextPage):
		return m.switchPage(1)
	case key.Matches(msg, m.keymap.PrevPage):
		return m.switchPage(-1)
	case key.Matches(msg, m.keymap.Refresh):
		return m.reload()
	}

	switch m.page {
	case PageTransactions:
		return m.handleTransactionKey(msg)
	case PageContracts:
		return m.handleContractKey(msg)
	case PageDashboard:
		return m.handleDashboardKey(msg)
	default:
		return m.handleBankKey(msg)
	}
}

func (m Model) switchPage(delta int) (Model, tea.Cmd) {
	n := len(pageNames)
	m.page = Page((int(m.page) + delta + n) % n)
	path := m.page.path()
	if path == "" {
		return m, nil
	}
	m.loading = true
	return m, m.navigate(path)
}

func (m Model) reload() (Model, tea.Cmd) {
	if m.page == PageDashboard {
		m.loading = true
		return m, m.run("refresh", m.session.RefreshDashboard)
	}
	path := m.page.path()
	if path == "" {
		return m, nil
	}
	m.loading = true
	return m, m.navigate(path)
}

// targets returns the selected transactions, or the one under the cursor.
func (m Model) targets() []int64 {
	if sel := m.session.Table.Selected(); len(sel) > 0 {
		return sel
	}
	if r, ok := m.transactions.Current(); ok {
		return []int64{r.ID}
	}
	return nil
}

func (m Model) handleTransactionKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	t := m.session.Table
	k := m.keymap
	current, ok := m.transactions.Current()

	switch {
	case key.Matches(msg, k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End):
		var cmd tea.Cmd
		m.transactions, cmd = m.transactions.Update(msg)
		return m, cmd
	case key.Matches(msg, k.ToggleSelect):
		if ok {
			t.Toggle(current.ID)
		}
	case key.Matches(msg, k.SelectAll):
		t.SelectAll()
	case key.Matches(msg, k.DeselectAll):
		t.ClearSelection()
	case key.Matches(msg, k.Hide):
		ids := m.targets()
		return m, m.run("hide", func(ctx context.Context) error {
			return m.session.Hide(ctx, ids...)
		})
	case key.Matches(msg, k.Remove):
		ids := m.targets()
		return m, m.run("remove", func(ctx context.Context) error {
			return m.session.Remove(ctx, ids...)
		})
	case key.Matches(msg, k.Unhide, k.Allow, k.Disallow, k.RemoveContract, k.AddContract):
		if !ok {
			return m, nil
		}
		return m, m.rowAction(msg, current.ID)
	case key.Matches(msg, k.Search):
		m.state = StateSearching
		m.input.Prompt = "/ "
		m.input.SetValue(t.Filter().Query)
		m.input.Focus()
		return m, nil
	case key.Matches(msg, k.Sort):
		_ = t.SortBy(nextSortKey(t.Sort().Key))
	case key.Matches(msg, k.Reverse):
		cfg := t.Sort()
		cfg.Ascending = !cfg.Ascending
		_ = t.SetSort(cfg)
	case key.Matches(msg, k.ShowHidden):
		t.SetShowHidden(!t.Filter().ShowHidden)
	case key.Matches(msg, k.OnlyUnlinked):
		t.SetOnlyUnlinked(!t.Filter().OnlyUnlinked)
	case key.Matches(msg, k.LoadMore):
		t.LoadMore()
	default:
		return m, nil
	}
	m.sync()
	return m, nil
}

func (m Model) rowAction(msg tea.KeyMsg, id int64) tea.Cmd {
	k, s := m.keymap, m.session
	switch {
	case key.Matches(msg, k.Unhide):
		return m.run("show", func(ctx context.Context) error { return s.Show(ctx, id) })
	case key.Matches(msg, k.Allow):
		return m.run("allow contract", func(ctx context.Context) error { return s.AllowContract(ctx, id) })
	case key.Matches(msg, k.Disallow):
		return m.run("disallow contract", func(ctx context.Context) error { return s.DisallowContract(ctx, id) })
	case key.Matches(msg, k.RemoveContract):
		return m.run("remove contract", func(ctx context.Context) error { return s.RemoveContract(ctx, id) })
	default:
		return m.addContract(id)
	}
}

func nextSortKey(current table.SortKey) table.SortKey {
	for i, k := range sortCycle {
		if k == current {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.state = StateBrowsing
		m.input.Blur()
		return m, nil
	case tea.KeyEsc:
		m.state = StateBrowsing
		m.input.Blur()
		m.session.Table.SetQuery("")
		m.sync()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.session.Table.SetQuery(m.input.Value())
	m.sync()
	return m, cmd
}

func (m Model) handleContractKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	c := m.session.Contracts
	k := m.keymap
	current, ok := m.contracts.Current()

	switch {
	case key.Matches(msg, k.Up):
		m.contracts.Move(-1)
	case key.Matches(msg, k.Down):
		m.contracts.Move(1)
	case key.Matches(msg, k.PageUp):
		m.contracts.Move(-10)
	case key.Matches(msg, k.PageDown):
		m.contracts.Move(10)
	case key.Matches(msg, k.Home):
		m.contracts.Move(-m.contracts.Cursor())
	case key.Matches(msg, k.End):
		m.contracts.Move(len(c.All()))
	case key.Matches(msg, k.ToggleSelect):
		if ok {
			c.Toggle(current.ID)
			m.sync()
		}
	case key.Matches(msg, k.DeselectAll):
		c.ClearSelection()
		m.sync()
	case key.Matches(msg, k.Merge):
		return m, m.run("merge contracts", m.session.MergeContracts)
	case key.Matches(msg, k.Delete):
		return m, m.run("delete contracts", m.session.DeleteContracts)
	case key.Matches(msg, k.Scan):
		m.loading = true
		return m, m.run("scan contracts", m.session.ScanContracts)
	case key.Matches(msg, k.Rename):
		if !ok {
			return m, nil
		}
		m.renameID = current.ID
		return m.startInput(inputRename, "Name: ", current.Name), nil
	}
	return m, nil
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.DateRange) {
		return m.startInput(inputDateRange, "From To (YYYY-MM-DD YYYY-MM-DD): ", ""), nil
	}
	return m, nil
}

func (m Model) handleBankKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	nodes := m.session.Banks.Nodes()
	k := m.keymap

	switch {
	case key.Matches(msg, k.Up):
		m.bankCursor = max(0, m.bankCursor-1)
	case key.Matches(msg, k.Down):
		m.bankCursor = min(max(0, len(nodes)-1), m.bankCursor+1)
	case key.Matches(msg, k.Open):
		if m.bankCursor < len(nodes) {
			m.loading = true
			return m, m.navigate(banks.Path(nodes[m.bankCursor].ID))
		}
	case key.Matches(msg, k.DeleteBank):
		if _, ok := m.session.Banks.Expanded(); !ok {
			m.showBanner(alert.Error(m.session.Strings().Get(i18n.KeyErrorHeader), m.session.Strings().Get(i18n.KeyOpenBankFirst)))
			return m, nil
		}
		return m, m.runPage(m.session.DeleteBank)
	}
	return m, nil
}

func (m Model) startInput(kind inputKind, prompt, value string) Model {
	m.inputKind = kind
	m.prevState = m.state
	m.state = StateInput
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.state = StateBrowsing
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.state = StateBrowsing
		m.input.Blur()
		return m.submitInput(strings.TrimSpace(m.input.Value()))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitInput(value string) (Model, tea.Cmd) {
	s := m.session
	if m.inputKind == inputRename {
		id := m.renameID
		return m, m.run("rename contract", func(ctx context.Context) error {
			return s.RenameContract(ctx, id, value)
		})
	}

	start, end, err := parseRange(value)
	if err != nil {
		m.showBanner(alert.Error(s.Strings().Get(i18n.KeyErrorHeader), err.Error()))
		return m, nil
	}
	m.loading = true
	return m, m.run("update date range", func(ctx context.Context) error {
		return s.UpdateDateRange(ctx, start, end)
	})
}

var errRangeFormat = errors.New("enter the range as two dates: YYYY-MM-DD YYYY-MM-DD")

func parseRange(value string) (time.Time, time.Time, error) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, errRangeFormat
	}
	start, err := format.ParseInputDate(fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, errRangeFormat
	}
	end, err := format.ParseInputDate(fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, errRangeFormat
	}
	return start, end, nil
}

// showBanner shows a directly. The presenter must not be used from Update
// since it sends into the program's own loop.
func (m *Model) showBanner(a alert.Alert) {
	a.ShownAt = m.config.Now()
	m.banner.Show(a)
}
