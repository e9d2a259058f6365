// Package settings implements the settings page: UI language, password change
// and account deletion.
package settings

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/state"
)

// Password form errors.
var (
	ErrEmptyPassword    = errors.New("password must not be empty")
	ErrPasswordMismatch = errors.New("new password and confirmation differ")
)

// Actions are the backend calls of the settings page. *api.Client satisfies it.
type Actions interface {
	SetLanguage(ctx context.Context, lang string) (api.Envelope, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (api.Envelope, error)
	DeleteAccount(ctx context.Context) (api.Envelope, error)
}

// Store persists the chosen language.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Leaver sends the client away from its pages. *loader.Loader satisfies it.
type Leaver interface {
	Leave(ctx context.Context, target string) *loader.Page
}

// Option configures Settings.
type Option func(*Settings)

// WithClock replaces the clock used for the account deletion countdown.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(s *Settings) {
		s.now = now
		s.after = after
	}
}

// WithCountdown sets how long the account deletion banner stays before the
// client leaves. Zero keeps the default.
func WithCountdown(d time.Duration) Option {
	return func(s *Settings) {
		if d > 0 {
			s.countdown = d
		}
	}
}

// Settings is the settings page state. It is safe for concurrent use.
type Settings struct {
	actions   Actions
	store     Store
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
	strings   i18n.Strings
	countdown time.Duration
	mu        sync.Mutex
}

// New creates the settings page with the persisted language, or fallback
// when none was stored.
func New(ctx context.Context, actions Actions, store Store, fallback i18n.Language, opts ...Option) *Settings {
	s := &Settings{
		actions:   actions,
		store:     store,
		now:       time.Now,
		after:     time.After,
		strings:   i18n.For(fallback),
		countdown: alert.AccountDeletedCountdown,
	}
	for _, opt := range opts {
		opt(s)
	}

	stored, ok, err := store.Get(ctx, state.KeyLanguage)
	switch {
	case err != nil:
		common.LogError(err, "Failed to read stored language")
	case ok:
		lang, parseErr := i18n.ParseLanguage(stored)
		if parseErr != nil {
			slog.Warn("Ignoring stored language", "language", stored, "error", parseErr)
			break
		}
		s.strings = i18n.For(lang)
	}
	return s
}

// Strings returns the string table of the current language.
func (s *Settings) Strings() i18n.Strings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.strings
}

// Language returns the current language.
func (s *Settings) Language() i18n.Language {
	return s.Strings().Language()
}

// SetLanguage changes the language on the user profile and, once the backend
// accepted it, locally.
func (s *Settings) SetLanguage(ctx context.Context, lang i18n.Language) (api.Envelope, error) {
	env, err := s.actions.SetLanguage(ctx, string(lang))
	if err != nil {
		return env, err
	}

	s.mu.Lock()
	s.strings = i18n.For(lang)
	s.mu.Unlock()

	if err := s.store.Set(ctx, state.KeyLanguage, string(lang)); err != nil {
		common.LogError(err, "Failed to store language", "language", lang)
	}
	slog.Info("Language changed", "language", lang)
	return env, nil
}

// LanguageAlert is the banner for the outcome of SetLanguage.
func (s *Settings) LanguageAlert(lang i18n.Language, err error) alert.Alert {
	str := s.Strings()
	var appErr *common.AppError
	switch {
	case errors.As(err, &appErr):
		a, _ := alert.FromError(err, str)
		return a
	case err != nil:
		return alert.Error(str.Get(i18n.KeyErrorHeader), str.Get(i18n.KeyLanguageSetError))
	}
	return alert.Success(str.Get(i18n.KeySuccessMessage), str.Get(i18n.KeyLanguageSetSuccess)+string(lang))
}

// ChangePassword submits the change password form.
func (s *Settings) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) (api.Envelope, error) {
	if oldPassword == "" || newPassword == "" {
		return api.Envelope{}, common.NewUserError("Please fill in all password fields.", ErrEmptyPassword)
	}
	if newPassword != confirmPassword {
		return api.Envelope{}, common.NewUserError("The new passwords do not match.", ErrPasswordMismatch)
	}
	return s.actions.ChangePassword(ctx, oldPassword, newPassword, confirmPassword)
}

// DeleteAccount asks for confirmation, deletes the account and shows the
// result. After a successful deletion the banner counts down before the
// client leaves for the start page. It returns alert.ErrCanceled when the
// user declines.
func (s *Settings) DeleteAccount(ctx context.Context, p alert.Presenter, leaver Leaver) (*loader.Page, error) {
	str := s.Strings()
	ok, err := p.Confirm(ctx, alert.DeleteAccount(str))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, alert.ErrCanceled
	}

	env, err := s.actions.DeleteAccount(ctx)
	if err != nil {
		return nil, alert.Report(p, str, env, err)
	}

	banner := alert.AccountDeleted(env.HeaderText(), env.SuccessText(), str, s.now())
	banner.Countdown = s.countdown
	p.Show(banner)
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.after(s.countdown):
	}
	return leaver.Leave(ctx, loader.HomePath), nil
}
