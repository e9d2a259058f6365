package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/Veraticus/bankdash/internal/render"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderHeader(false).
		Headers(headers...)
}

// TransactionTable renders transaction rows. Selected rows are marked with
// an asterisk and hidden rows are dimmed.
func TransactionTable(rows []render.Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		mark := " "
		if r.Selected {
			mark = "*"
		}
		contract := r.ContractName
		if r.ContractNotAllowed {
			contract = "(no contract)"
		}
		data[i] = []string{
			mark,
			strconv.FormatInt(r.ID, 10),
			r.Counterparty,
			Toned(r.Amount.Text, r.Amount.Tone),
			Toned(r.Balance.Text, r.Balance.Tone),
			r.Date,
			contract,
		}
	}

	return newTable("", "ID", "Counterparty", "Amount", "Balance after", "Date", "Contract").
		Rows(data...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return TableHeaderStyle
			case rows[row].Selected:
				return SelectedStyle.PaddingRight(2)
			case rows[row].Hidden:
				return HiddenStyle.PaddingRight(2)
			default:
				return TableCellStyle
			}
		}).
		String()
}

// ContractCards renders contracts as boxes. History is left out when
// noHistory is empty; otherwise a card without history shows noHistory.
func ContractCards(cards []render.ContractCard, noHistory string) string {
	boxes := make([]string, len(cards))
	for i, c := range cards {
		lines := []string{
			fmt.Sprintf("ID: %d", c.ID),
			"Current amount: " + Toned(c.Current.Text, c.Current.Tone),
			"Total paid: " + Toned(c.TotalPaid.Text, c.TotalPaid.Tone),
			fmt.Sprintf("%s: %s", c.DateLabel, c.Date),
			fmt.Sprintf("Months between payment: %d", c.MonthsBetweenPayment),
		}
		if noHistory != "" {
			if len(c.History) == 0 {
				lines = append(lines, SubtleStyle.Render(noHistory))
			}
			for _, h := range c.History {
				lines = append(lines, fmt.Sprintf("  %s  %s → %s", h.ChangedAt,
					Toned(h.Old.Text, h.Old.Tone), Toned(h.New.Text, h.New.Tone)))
			}
		}

		accent := PrimaryColor
		switch {
		case c.Selected:
			accent = WarningColor
		case c.Closed:
			accent = SubtleColor
		}
		boxes[i] = RenderBox(c.Name, strings.Join(lines, "\n"), accent)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// BankTree renders the bank navigation with the expanded bank's sub pages.
func BankTree(nodes []banks.Node) string {
	var b strings.Builder
	for _, n := range nodes {
		label := fmt.Sprintf("%s %s %s", BankIcon, n.Label, SubtleStyle.Render(n.Path))
		if n.Expanded {
			label = BoldStyle.Render(label)
		}
		b.WriteString(label + "\n")
		for _, sub := range n.Sub {
			b.WriteString(fmt.Sprintf("   └ %s %s\n", sub.Label, SubtleStyle.Render(sub.Path)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// MetricTable renders the performance panel.
func MetricTable(metrics []dashboard.Metric) string {
	data := make([][]string, len(metrics))
	for i, m := range metrics {
		value := m.Value
		if m.Toned {
			value = Toned(value, m.Tone)
		}
		data[i] = []string{m.Label, value}
	}
	return newTable().
		Rows(data...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return SubtleStyle.PaddingRight(2)
			}
			return TableCellStyle
		}).
		String()
}
