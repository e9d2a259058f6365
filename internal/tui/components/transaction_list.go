// Package components holds the widgets the TUI pages are built from.
package components

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/bankdash/internal/render"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Row markers of the status column.
const (
	MarkSelected    = "●"
	MarkHidden      = "◌"
	MarkNotAllowed  = "⊘"
	noContractLabel = "-"
)

// TransactionListModel shows the page window of the transaction table.
type TransactionListModel struct {
	theme  themes.Theme
	rows   []render.Row
	table  table.Model
	width  int
	height int
}

// NewTransactionList creates an empty transaction list.
func NewTransactionList(theme themes.Theme) TransactionListModel {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(20),
	)

	s := table.DefaultStyles()
	s.Header = theme.Header
	s.Selected = theme.Highlighted
	t.SetStyles(s)

	l := TransactionListModel{
		theme:  theme,
		table:  t,
		width:  80,
		height: 24,
	}
	l.updateColumnWidths()
	return l
}

// SetRows replaces the rows and keeps the cursor in range.
func (l *TransactionListModel) SetRows(rows []render.Row) {
	l.rows = rows
	data := make([]table.Row, len(rows))
	for i, r := range rows {
		data[i] = table.Row{
			status(r),
			strconv.FormatInt(r.ID, 10),
			r.Date,
			r.Counterparty,
			r.Amount.Text,
			r.Balance.Text,
			contractLabel(r),
		}
	}
	l.table.SetRows(data)
	if c := l.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		l.table.SetCursor(len(rows) - 1)
	}
}

func status(r render.Row) string {
	mark := ""
	if r.Selected {
		mark += MarkSelected
	}
	if r.Hidden {
		mark += MarkHidden
	}
	if r.ContractNotAllowed {
		mark += MarkNotAllowed
	}
	return mark
}

func contractLabel(r render.Row) string {
	if r.ContractName == "" {
		return noContractLabel
	}
	return r.ContractName
}

// Len returns the number of rows.
func (l TransactionListModel) Len() int {
	return len(l.rows)
}

// Cursor returns the index of the row under the cursor.
func (l TransactionListModel) Cursor() int {
	return l.table.Cursor()
}

// Current returns the row under the cursor.
func (l TransactionListModel) Current() (render.Row, bool) {
	c := l.table.Cursor()
	if c < 0 || c >= len(l.rows) {
		return render.Row{}, false
	}
	return l.rows[c], true
}

// Update moves the cursor.
func (l TransactionListModel) Update(msg tea.Msg) (TransactionListModel, tea.Cmd) {
	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

// Resize sets the available space.
func (l *TransactionListModel) Resize(width, height int) {
	l.width = width
	l.height = height
	l.table.SetWidth(width)
	l.table.SetHeight(max(3, height-2))
	l.updateColumnWidths()
}

func (l *TransactionListModel) updateColumnWidths() {
	fixed := 3 + 6 + 10 + 12 + 12
	flex := max(20, l.width-fixed-14)
	counterparty := flex * 3 / 5
	l.table.SetColumns([]table.Column{
		{Title: "", Width: 3},
		{Title: "ID", Width: 6},
		{Title: "Date", Width: 10},
		{Title: "Counterparty", Width: counterparty},
		{Title: "Amount", Width: 12},
		{Title: "Balance after", Width: 12},
		{Title: "Contract", Width: flex - counterparty},
	})
}

// View renders the table and the detail line of the current row.
func (l TransactionListModel) View() string {
	if len(l.rows) == 0 {
		return l.theme.Faint.Render("No transactions.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, l.table.View(), l.detail())
}

func (l TransactionListModel) detail() string {
	r, ok := l.Current()
	if !ok {
		return ""
	}
	amount := l.tone(r.Amount)
	line := fmt.Sprintf("%s  %s  %s", l.theme.Bold.Render(r.Counterparty), amount, l.theme.Faint.Render(r.Date))
	if r.Contract != nil {
		line += l.theme.Faint.Render(fmt.Sprintf("  %s: %s every %d month(s)",
			r.Contract.Name, r.Contract.Amount.Text, r.Contract.MonthsBetweenPayment))
	}
	return line
}

func (l TransactionListModel) tone(m render.Money) string {
	return Toned(l.theme, m)
}
