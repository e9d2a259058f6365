package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Open     key.Binding

	// Selection
	ToggleSelect key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding

	// Transactions
	Hide           key.Binding
	Unhide         key.Binding
	Remove         key.Binding
	Allow          key.Binding
	Disallow       key.Binding
	RemoveContract key.Binding
	AddContract    key.Binding
	Search         key.Binding
	Sort           key.Binding
	Reverse        key.Binding
	ShowHidden     key.Binding
	OnlyUnlinked   key.Binding
	LoadMore       key.Binding

	// Contracts
	Merge  key.Binding
	Delete key.Binding
	Scan   key.Binding
	Rename key.Binding

	// Dashboard and banks
	DateRange  key.Binding
	DeleteBank key.Binding

	// Application
	Dismiss   key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("PgUp", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f"),
			key.WithHelp("PgDn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "go to start"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "go to end"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous page"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "open"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "toggle selection"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("Ctrl+A", "select all"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+D", "deselect all"),
		),

		Hide: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hide"),
		),
		Unhide: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "show"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "remove"),
		),
		Allow: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "allow contract"),
		),
		Disallow: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "disallow contract"),
		),
		RemoveContract: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "unlink contract"),
		),
		AddContract: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "link contract"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		Reverse: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reverse order"),
		),
		ShowHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "show hidden"),
		),
		OnlyUnlinked: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "only unlinked"),
		),
		LoadMore: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "load more"),
		),

		Merge: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "merge"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Scan: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "scan"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),

		DateRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "date range"),
		),
		DeleteBank: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete bank"),
		),

		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "close banner"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "reload"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// pageKeys shows the bindings of one page in the help view.
type pageKeys struct {
	KeyMap
	page Page
}

// ShortHelp returns key bindings for the short help view.
func (k pageKeys) ShortHelp() []key.Binding {
	switch k.page {
	case PageTransactions:
		return []key.Binding{k.ToggleSelect, k.Hide, k.Remove, k.AddContract, k.Search, k.Help, k.Quit}
	case PageContracts:
		return []key.Binding{k.ToggleSelect, k.Merge, k.Delete, k.Scan, k.Help, k.Quit}
	case PageDashboard:
		return []key.Binding{k.DateRange, k.Refresh, k.NextPage, k.Help, k.Quit}
	default:
		return []key.Binding{k.Open, k.DeleteBank, k.NextPage, k.Help, k.Quit}
	}
}

// FullHelp returns all key bindings of the page.
func (k pageKeys) FullHelp() [][]key.Binding {
	nav := []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End}
	app := []key.Binding{k.NextPage, k.PrevPage, k.Dismiss, k.Refresh, k.Help, k.Quit}
	switch k.page {
	case PageTransactions:
		return [][]key.Binding{
			nav,
			{k.ToggleSelect, k.SelectAll, k.DeselectAll, k.Hide, k.Unhide, k.Remove},
			{k.Allow, k.Disallow, k.RemoveContract, k.AddContract},
			{k.Search, k.Sort, k.Reverse, k.ShowHidden, k.OnlyUnlinked, k.LoadMore},
			app,
		}
	case PageContracts:
		return [][]key.Binding{
			nav,
			{k.ToggleSelect, k.DeselectAll, k.Merge, k.Delete, k.Scan, k.Rename},
			app,
		}
	case PageDashboard:
		return [][]key.Binding{{k.DateRange}, app}
	default:
		return [][]key.Binding{{k.Up, k.Down, k.Open, k.DeleteBank}, app}
	}
}
