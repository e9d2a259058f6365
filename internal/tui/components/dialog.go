package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogModel is a modal question: either confirm/cancel or a choice between
// several options.
type DialogModel struct {
	theme    themes.Theme
	header   string
	body     string
	options  []string
	cursor   int
	confirm  bool
	done     bool
	canceled bool
}

// NewConfirmDialog asks d. The cursor starts on the cancel action.
func NewConfirmDialog(d alert.Dialog, theme themes.Theme) DialogModel {
	return DialogModel{
		theme:   theme,
		header:  d.Header,
		body:    d.Body,
		options: []string{d.ConfirmLabel, d.CancelLabel},
		cursor:  1,
		confirm: true,
	}
}

// NewChoiceDialog asks the user to pick one of p's options.
func NewChoiceDialog(p alert.Prompt, theme themes.Theme) DialogModel {
	return DialogModel{
		theme:   theme,
		header:  p.Header,
		body:    p.Body,
		options: p.Options,
	}
}

// Done reports whether the user answered or canceled.
func (d DialogModel) Done() bool {
	return d.done
}

// Confirmed reports whether a confirm dialog was answered with its confirm
// action.
func (d DialogModel) Confirmed() bool {
	return d.done && !d.canceled && d.cursor == 0
}

// Choice returns the picked option. ok is false when the dialog was canceled.
func (d DialogModel) Choice() (index int, ok bool) {
	if !d.done || d.canceled {
		return 0, false
	}
	return d.cursor, true
}

// Update handles keys.
func (d DialogModel) Update(msg tea.Msg) (DialogModel, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok || d.done {
		return d, nil
	}

	switch k.String() {
	case "up", "k", "left", "h", "shift+tab":
		d.cursor = max(0, d.cursor-1)
	case "down", "j", "right", "l", "tab":
		d.cursor = min(len(d.options)-1, d.cursor+1)
	case "enter":
		d.done = true
	case "esc", "q":
		d.done = true
		d.canceled = true
	case "y":
		if d.confirm {
			d.cursor = 0
			d.done = true
		}
	case "n":
		if d.confirm {
			d.cursor = 1
			d.done = true
		}
	default:
		if n, ok := digit(k.String()); ok && !d.confirm && n >= 1 && n <= len(d.options) {
			d.cursor = n - 1
			d.done = true
		}
	}
	return d, nil
}

func digit(s string) (int, bool) {
	if len(s) != 1 || s[0] < '0' || s[0] > '9' {
		return 0, false
	}
	return int(s[0] - '0'), true
}

// View renders the dialog.
func (d DialogModel) View() string {
	lines := []string{d.theme.Title.Render(d.header), "", d.body, ""}
	if d.confirm {
		buttons := make([]string, len(d.options))
		for i, opt := range d.options {
			buttons[i] = d.button(i, opt)
		}
		lines = append(lines, strings.Join(buttons, "  "))
	} else {
		for i, opt := range d.options {
			lines = append(lines, d.button(i, fmt.Sprintf("%d. %s", i+1, opt)))
		}
	}
	return d.theme.Dialog.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (d DialogModel) button(i int, label string) string {
	if i == d.cursor {
		return d.theme.Selected.Render(" " + label + " ")
	}
	return d.theme.Normal.Render(" " + label + " ")
}
