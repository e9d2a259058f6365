// Package alert describes banners and confirm dialogs and maps backend
// results and errors onto them.
package alert

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
)

// Kind is the banner style.
type Kind int

// Banner kinds.
const (
	KindSuccess Kind = iota
	KindError
	KindInfo
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Alert is a transient banner. With a countdown the banner cannot be closed
// until the countdown ran out.
type Alert struct {
	ShownAt   time.Time
	Header    string
	Body      string
	Button    string
	Countdown time.Duration
	Kind      Kind
}

// Remaining returns how long the close action stays disabled.
func (a Alert) Remaining(now time.Time) time.Duration {
	if a.Countdown <= 0 || a.ShownAt.IsZero() {
		return 0
	}
	left := a.Countdown - now.Sub(a.ShownAt)
	if left < 0 {
		return 0
	}
	return left
}

// CanClose reports whether the banner may be dismissed at now.
func (a Alert) CanClose(now time.Time) bool {
	return a.Remaining(now) == 0
}

// Dialog is a blocking question with a confirm and a cancel action.
type Dialog struct {
	Header       string
	Body         string
	ConfirmLabel string
	CancelLabel  string
}

// Prompt asks the user to pick one of several options.
type Prompt struct {
	Header  string
	Body    string
	Options []string
}

// Presenter shows banners and asks questions.
type Presenter interface {
	Show(a Alert)
	Confirm(ctx context.Context, d Dialog) (bool, error)
	Choose(ctx context.Context, p Prompt) (int, error)
}

// ErrCanceled is returned when the user backs out of a prompt.
var ErrCanceled = errors.New("canceled")

// Success builds a success banner.
func Success(header, body string) Alert {
	return Alert{Kind: KindSuccess, Header: header, Body: body}
}

// Error builds an error banner.
func Error(header, body string) Alert {
	return Alert{Kind: KindError, Header: header, Body: body}
}

// FromEnvelope turns a backend result into a banner.
func FromEnvelope(env api.Envelope, s i18n.Strings) Alert {
	if env.Error != nil {
		return Error(headerOr(env.HeaderText(), s.Get(i18n.KeyErrorHeader)), *env.Error)
	}
	if env.Success != nil {
		return Success(headerOr(env.HeaderText(), s.Get(i18n.KeySuccessMessage)), *env.Success)
	}
	return Error(s.Get(i18n.KeyErrorHeader), s.Get(i18n.KeyParseError))
}

func headerOr(header, fallback string) string {
	if header == "" {
		return fallback
	}
	return header
}

// FromError maps an operation error to a banner. The second result is false
// for errors that are only logged: missing page data and superseded loads.
func FromError(err error, s i18n.Strings) (Alert, bool) {
	var appErr *common.AppError
	var userErr *common.UserError
	switch {
	case err == nil:
		return Alert{}, false
	case errors.Is(err, common.ErrMissingDataIsland):
		slog.Warn("Page data missing", "error", err)
		return Alert{}, false
	case errors.Is(err, common.ErrSuperseded), errors.Is(err, context.Canceled):
		return Alert{}, false
	case errors.As(err, &appErr):
		return Error(headerOr(appErr.Header, s.Get(i18n.KeyErrorHeader)), appErr.Message), true
	case errors.As(err, &userErr):
		return Error(s.Get(i18n.KeyErrorHeader), userErr.UserMessage), true
	case errors.Is(err, common.ErrMalformedResponse), errors.Is(err, common.ErrMalformedData):
		return Error(s.Get(i18n.KeyErrorHeader), s.Get(i18n.KeyParseError)), true
	default:
		return Error(s.Get(i18n.KeyErrorHeader), s.Get(i18n.KeyUnexpectedError)), true
	}
}

// Report shows the outcome of an operation: the error banner when err is
// set, otherwise the envelope. It returns err.
func Report(p Presenter, s i18n.Strings, env api.Envelope, err error) error {
	if err != nil {
		if a, ok := FromError(err, s); ok {
			p.Show(a)
		}
		return err
	}
	p.Show(FromEnvelope(env, s))
	return nil
}
