package tui

import (
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/loader"
)

// bannerMsg replaces the banner.
type bannerMsg struct {
	alert alert.Alert
}

// dialogReply answers a confirm or choice request.
type dialogReply struct {
	choice    int
	confirmed bool
	canceled  bool
}

// confirmRequestMsg asks the user to confirm a dialog. The answer is sent on
// reply, which is buffered.
type confirmRequestMsg struct {
	reply  chan<- dialogReply
	dialog alert.Dialog
}

// chooseRequestMsg asks the user to pick an option.
type chooseRequestMsg struct {
	reply  chan<- dialogReply
	prompt alert.Prompt
}

// pageLoadedMsg is sent after a navigation finished.
type pageLoadedMsg struct {
	err  error
	page *loader.Page
}

// actionDoneMsg is sent after an action finished. The action reported its
// result through the presenter already.
type actionDoneMsg struct {
	err  error
	name string
}

// leftMsg is sent when the session ended, after logout or account deletion.
type leftMsg struct {
	page *loader.Page
}

// tickMsg redraws running banner countdowns.
type tickMsg time.Time
