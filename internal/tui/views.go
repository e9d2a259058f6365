package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/table"
	"github.com/charmbracelet/lipgloss"
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderTabs()}
	if b := m.banner.View(m.config.Now(), m.width); b != "" {
		sections = append(sections, b)
	}

	switch m.state {
	case StateDialog:
		sections = append(sections, lipgloss.Place(m.width, max(5, m.height-6),
			lipgloss.Center, lipgloss.Center, m.dialog.View()))
	case StateHelp:
		sections = append(sections, m.help.View(pageKeys{KeyMap: m.keymap, page: m.page}))
	default:
		sections = append(sections, m.renderPage())
		if m.state == StateSearching || m.state == StateInput {
			sections = append(sections, m.input.View())
		}
	}

	if m.config.ShowHelp && m.state != StateHelp {
		sections = append(sections, m.help.View(pageKeys{KeyMap: m.keymap, page: m.page}))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(pageNames))
	for p := PageDashboard; p <= PageContracts; p++ {
		if p == m.page {
			tabs = append(tabs, m.theme.ActiveTab.Render(p.String()))
			continue
		}
		tabs = append(tabs, m.theme.Tab.Render(p.String()))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.loading {
		row += "  " + m.theme.Faint.Render(m.session.Strings().Get(i18n.KeyLoading))
	}
	return row
}

func (m Model) renderPage() string {
	switch m.page {
	case PageTransactions:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderFilterLine(), m.transactions.View())
	case PageContracts:
		return m.contracts.View()
	case PageDashboard:
		return m.renderDashboard()
	default:
		return m.renderBanks()
	}
}

func (m Model) renderFilterLine() string {
	t := m.session.Table
	f := t.Filter()
	sort := t.Sort()

	arrow := "↓"
	if sort.Ascending {
		arrow = "↑"
	}
	parts := []string{fmt.Sprintf("sort: %s %s", sort.Key, arrow)}
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("search: %q", f.Query))
	}
	if f.ShowHidden {
		parts = append(parts, "hidden shown")
	}
	if f.OnlyUnlinked {
		parts = append(parts, "only unlinked")
	}
	if n := len(t.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, shownCount(t))
	return m.theme.Faint.Render(strings.Join(parts, " · "))
}

func shownCount(t *table.Controller) string {
	shown, matching := len(t.Rows()), len(t.Filtered())
	if t.HasMore() {
		return fmt.Sprintf("%d of %d (m for more)", shown, matching)
	}
	return fmt.Sprintf("%d of %d", shown, matching)
}

func (m Model) renderDashboard() string {
	d := m.session.Dashboard
	str := m.session.Strings()
	title := str.Get(i18n.KeyAllBanks)
	if b := d.Bank(); b != nil {
		title = b.Name
	}

	lines := []string{m.theme.Title.Render(title)}
	metrics := dashboard.Panel(d.Performance())
	if len(metrics) == 0 {
		lines = append(lines, m.theme.Faint.Render(str.Get(i18n.KeyNoPerformance)))
	}
	for _, metric := range metrics {
		value := metric.Value
		if metric.Toned {
			style := m.theme.Positive
			if metric.Tone == format.ToneNegative {
				style = m.theme.Negative
			}
			value = style.Render(value)
		}
		lines = append(lines, fmt.Sprintf("%-24s %s", metric.Label, value))
	}

	graph := d.Graph()
	if len(graph) > 0 {
		lines = append(lines, "", m.theme.Subtitle.Render("Balance"))
	}
	width := max(10, m.width-24)
	for _, trace := range graph {
		name := trace.Name
		if len([]rune(name)) > 20 {
			name = string([]rune(name)[:19]) + "…"
		}
		lines = append(lines, fmt.Sprintf("%-20s %s", name, m.theme.Sparkline.Render(dashboard.Sparkline(trace, width))))
	}
	return m.theme.RoundedBox.Render(strings.Join(lines, "\n"))
}

func (m Model) renderBanks() string {
	nodes := m.session.Banks.Nodes()
	if len(nodes) == 0 {
		return m.theme.Faint.Render("No banks. Add one with `bankdash bank add`.")
	}

	var lines []string
	for i, n := range nodes {
		label := "  " + n.Label
		switch {
		case i == m.bankCursor:
			label = m.theme.Highlighted.Render("› " + n.Label)
		case n.Expanded:
			label = m.theme.Bold.Render(label)
		default:
			label = m.theme.Normal.Render(label)
		}
		lines = append(lines, label)
		for _, sub := range n.Sub {
			lines = append(lines, m.theme.Faint.Render("    "+sub.Label+"  "+sub.Path))
		}
	}
	return strings.Join(lines, "\n")
}
