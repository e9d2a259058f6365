package tui

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Veraticus/bankdash/internal/alert"
	tea "github.com/charmbracelet/bubbletea"
)

// errNotRunning is returned by questions asked before the program started.
var errNotRunning = errors.New("tui is not running")

// Presenter shows banners and dialogs inside the running program. Questions
// block the calling action until the user answered in the UI.
type Presenter struct {
	send func(tea.Msg)
	mu   sync.RWMutex
}

// NewPresenter creates a presenter that is attached once the program runs.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// attach routes messages into the program.
func (p *Presenter) attach(send func(tea.Msg)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.send = send
}

func (p *Presenter) sender() func(tea.Msg) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.send
}

// Show displays a as the banner.
func (p *Presenter) Show(a alert.Alert) {
	send := p.sender()
	if send == nil {
		slog.Info("banner shown before tui started", "header", a.Header, "body", a.Body)
		return
	}
	send(bannerMsg{alert: a})
}

// Confirm shows d and waits for the answer.
func (p *Presenter) Confirm(ctx context.Context, d alert.Dialog) (bool, error) {
	send := p.sender()
	if send == nil {
		return false, errNotRunning
	}

	reply := make(chan dialogReply, 1)
	send(confirmRequestMsg{dialog: d, reply: reply})
	select {
	case r := <-reply:
		return r.confirmed, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Choose shows p and waits for the picked option.
func (p *Presenter) Choose(ctx context.Context, pr alert.Prompt) (int, error) {
	send := p.sender()
	if send == nil {
		return 0, errNotRunning
	}

	reply := make(chan dialogReply, 1)
	send(chooseRequestMsg{prompt: pr, reply: reply})
	select {
	case r := <-reply:
		if r.canceled {
			return 0, alert.ErrCanceled
		}
		return r.choice, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}
