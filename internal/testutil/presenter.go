package testutil

import (
	"context"
	"sync"

	"github.com/Veraticus/bankdash/internal/alert"
)

// Presenter records banners and answers dialogs with scripted replies.
type Presenter struct {
	ConfirmErr error
	ChooseErr  error
	shown      []alert.Alert
	dialogs    []alert.Dialog
	prompts    []alert.Prompt
	choice     int
	mu         sync.Mutex
	confirm    bool
}

// NewPresenter creates a presenter that answers every dialog with confirm and
// every prompt with choice.
func NewPresenter(confirm bool, choice int) *Presenter {
	return &Presenter{confirm: confirm, choice: choice}
}

// Show implements alert.Presenter.
func (p *Presenter) Show(a alert.Alert) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, a)
}

// Confirm implements alert.Presenter.
func (p *Presenter) Confirm(_ context.Context, d alert.Dialog) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dialogs = append(p.dialogs, d)
	if p.ConfirmErr != nil {
		return false, p.ConfirmErr
	}
	return p.confirm, nil
}

// Choose implements alert.Presenter.
func (p *Presenter) Choose(_ context.Context, pr alert.Prompt) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prompts = append(p.prompts, pr)
	if p.ChooseErr != nil {
		return 0, p.ChooseErr
	}
	return p.choice, nil
}

// Shown returns the banners in the order they were shown.
func (p *Presenter) Shown() []alert.Alert {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]alert.Alert(nil), p.shown...)
}

// Dialogs returns the confirmation dialogs that were asked.
func (p *Presenter) Dialogs() []alert.Dialog {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]alert.Dialog(nil), p.dialogs...)
}

// Prompts returns the choice prompts that were asked.
func (p *Presenter) Prompts() []alert.Prompt {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]alert.Prompt(nil), p.prompts...)
}
