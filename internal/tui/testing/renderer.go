// Package testing drives Bubble Tea models in tests without a terminal.
package testing

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Driver feeds messages to a model and keeps the last rendered view.
type Driver struct {
	Model tea.Model

	// Output contains the last rendered view.
	Output string

	// Commands contains the commands returned by Update calls, in order.
	Commands []tea.Cmd
}

// NewDriver wraps model.
func NewDriver(model tea.Model) *Driver {
	d := &Driver{Model: model}
	d.Output = model.View()
	return d
}

// Send passes msg to the model and returns the command it produced.
func (d *Driver) Send(msg tea.Msg) tea.Cmd {
	next, cmd := d.Model.Update(msg)
	d.Model = next
	if cmd != nil {
		d.Commands = append(d.Commands, cmd)
	}
	d.Output = next.View()
	return cmd
}

// Press sends each key in turn. See Key for the names understood.
func (d *Driver) Press(keys ...string) tea.Cmd {
	var last tea.Cmd
	for _, k := range keys {
		last = d.Send(Key(k))
	}
	return last
}

// Type sends text one rune at a time.
func (d *Driver) Type(text string) {
	for _, msg := range Runes(text) {
		d.Send(msg)
	}
}

// Exec runs cmd and sends its message back to the model. Commands that
// never return, like timers and cursor blinks, must not be passed here.
func (d *Driver) Exec(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		d.Send(msg)
	}
	return msg
}

// Plain returns the last view without ANSI codes.
func (d *Driver) Plain() string {
	return StripANSI(d.Output)
}

// Lines returns the plain view split by newlines.
func (d *Driver) Lines() []string {
	return strings.Split(d.Plain(), "\n")
}
