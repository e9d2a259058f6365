package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/render"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// Toned colors a formatted amount by its sign.
func Toned(theme themes.Theme, m render.Money) string {
	if m.Tone == format.ToneNegative {
		return theme.Negative.Render(m.Text)
	}
	return theme.Positive.Render(m.Text)
}

// ContractListModel lists the contract cards, open ones first, with the
// history of the card under the cursor.
type ContractListModel struct {
	theme     themes.Theme
	openLabel string
	closed    string
	noHistory string
	cards     []render.ContractCard
	cursor    int
	offset    int
	width     int
	height    int
}

// NewContractList creates an empty contract list. The labels head the open
// and closed sections and stand in for an empty history.
func NewContractList(theme themes.Theme, openLabel, closedLabel, noHistory string) ContractListModel {
	return ContractListModel{
		theme:     theme,
		openLabel: openLabel,
		closed:    closedLabel,
		noHistory: noHistory,
		width:     80,
		height:    20,
	}
}

// SetCards replaces the cards and keeps the cursor in range.
func (l *ContractListModel) SetCards(cards []render.ContractCard) {
	l.cards = cards
	l.cursor = min(l.cursor, max(0, len(cards)-1))
	l.clampOffset()
}

// Current returns the card under the cursor.
func (l ContractListModel) Current() (render.ContractCard, bool) {
	if l.cursor < 0 || l.cursor >= len(l.cards) {
		return render.ContractCard{}, false
	}
	return l.cards[l.cursor], true
}

// Cursor returns the index of the card under the cursor.
func (l ContractListModel) Cursor() int {
	return l.cursor
}

// Move moves the cursor by delta cards.
func (l *ContractListModel) Move(delta int) {
	if len(l.cards) == 0 {
		return
	}
	l.cursor = max(0, min(len(l.cards)-1, l.cursor+delta))
	l.clampOffset()
}

// Resize sets the available space.
func (l *ContractListModel) Resize(width, height int) {
	l.width = width
	l.height = height
	l.clampOffset()
}

func (l *ContractListModel) listHeight() int {
	return max(3, l.height/2)
}

func (l *ContractListModel) clampOffset() {
	h := l.listHeight()
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+h {
		l.offset = l.cursor - h + 1
	}
}

// View renders the list and the history panel.
func (l ContractListModel) View() string {
	if len(l.cards) == 0 {
		return l.theme.Faint.Render("No contracts.")
	}

	var lines []string
	section := ""
	end := min(len(l.cards), l.offset+l.listHeight())
	for i := l.offset; i < end; i++ {
		c := l.cards[i]
		heading := l.openLabel
		if c.Closed {
			heading = l.closed
		}
		if heading != section {
			section = heading
			lines = append(lines, l.theme.Subtitle.Render(heading))
		}
		lines = append(lines, l.line(i, c))
	}

	list := strings.Join(lines, "\n")
	current, _ := l.Current()
	return lipgloss.JoinVertical(lipgloss.Left, list, "", l.card(current))
}

func (l ContractListModel) line(i int, c render.ContractCard) string {
	mark := "  "
	if c.Selected {
		mark = MarkSelected + " "
	}
	text := fmt.Sprintf("%s%-30s %12s", mark, truncate(c.Name, 30), c.Current.Text)
	switch {
	case i == l.cursor:
		return l.theme.Highlighted.Render(text)
	case c.Closed:
		return l.theme.Faint.Render(text)
	default:
		return l.theme.Normal.Render(text)
	}
}

func (l ContractListModel) card(c render.ContractCard) string {
	lines := []string{
		l.theme.Bold.Render(c.Name),
		fmt.Sprintf("Current amount: %s", Toned(l.theme, c.Current)),
		fmt.Sprintf("Total paid: %s", Toned(l.theme, c.TotalPaid)),
		fmt.Sprintf("%s: %s", c.DateLabel, c.Date),
		fmt.Sprintf("Months between payment: %d", c.MonthsBetweenPayment),
	}
	if len(c.History) == 0 {
		lines = append(lines, l.theme.Faint.Render(l.noHistory))
	}
	for _, h := range c.History {
		lines = append(lines, fmt.Sprintf("  %s  %s → %s", h.ChangedAt, Toned(l.theme, h.Old), Toned(l.theme, h.New)))
	}
	return l.theme.RoundedBox.Width(max(20, l.width-4)).Render(strings.Join(lines, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
