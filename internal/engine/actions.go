package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/contracts"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/loader"
	"github.com/Veraticus/bankdash/internal/table"
)

// report shows the outcome of a backend call and returns err.
func (s *Session) report(env api.Envelope, err error) error {
	if err != nil {
		s.fail(err)
		return err
	}
	s.presenter.Show(alert.FromEnvelope(env, s.Strings()))
	return nil
}

// Hide hides ids, or the selected transactions.
func (s *Session) Hide(ctx context.Context, ids ...int64) error {
	return s.report(s.Table.Hide(ctx, ids...))
}

// Remove deletes ids, or the selected transactions.
func (s *Session) Remove(ctx context.Context, ids ...int64) error {
	return s.report(s.Table.Remove(ctx, ids...))
}

// HideOne hides a single transaction.
func (s *Session) HideOne(ctx context.Context, id int64) error {
	return s.report(s.Table.HideOne(ctx, id))
}

// Show unhides a transaction.
func (s *Session) Show(ctx context.Context, id int64) error {
	return s.report(s.Table.Show(ctx, id))
}

// AllowContract lets a transaction be linked to contracts again.
func (s *Session) AllowContract(ctx context.Context, id int64) error {
	return s.report(s.Table.AllowContract(ctx, id))
}

// DisallowContract excludes a transaction from contract linkage.
func (s *Session) DisallowContract(ctx context.Context, id int64) error {
	return s.report(s.Table.DisallowContract(ctx, id))
}

// RemoveContract unlinks a transaction from its contract.
func (s *Session) RemoveContract(ctx context.Context, id int64) error {
	return s.report(s.Table.RemoveContract(ctx, id))
}

// AddContract links a transaction to a contract. When the amounts differ and
// res is table.ResolutionNone the user picks the resolution.
func (s *Session) AddContract(ctx context.Context, txID, contractID int64, res table.Resolution) error {
	plan, err := s.Table.PlanAddContract(txID, contractID)
	if err != nil {
		s.fail(err)
		return err
	}
	if plan.Mismatch && res == table.ResolutionNone {
		res, err = s.chooseResolution(ctx, plan)
		if err != nil {
			return err
		}
	}
	if err := s.report(s.Table.AddContract(ctx, txID, contractID, res)); err != nil {
		return err
	}
	if plan.Mismatch && (res == table.ResolutionNewAmount || res == table.ResolutionHistoricalAmount) {
		s.reloadContracts(ctx)
	}
	return nil
}

// reloadContracts fetches the contracts again after the backend changed an
// amount or its history.
func (s *Session) reloadContracts(ctx context.Context) {
	if err := s.Contracts.Reload(ctx); err != nil {
		common.LogFailure(ctx, err, "Failed to reload contracts after amount change")
		return
	}
	s.Table.SetContracts(s.Contracts.Contracts())
}

func (s *Session) chooseResolution(ctx context.Context, plan table.Plan) (table.Resolution, error) {
	str := s.Strings()
	header, body := plan.Prompt(str)
	choices := plan.Choices(str)
	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.Label
	}

	i, err := s.presenter.Choose(ctx, alert.Prompt{Header: header, Body: body, Options: labels})
	if err != nil {
		return table.ResolutionNone, err
	}
	if i < 0 || i >= len(choices) {
		return table.ResolutionNone, fmt.Errorf("choice %d out of range: %w", i, alert.ErrCanceled)
	}
	return choices[i].Resolution, nil
}

// confirm asks d and returns alert.ErrCanceled when the user declines.
func (s *Session) confirm(ctx context.Context, d alert.Dialog) error {
	ok, err := s.presenter.Confirm(ctx, d)
	if err != nil {
		return err
	}
	if !ok {
		return alert.ErrCanceled
	}
	return nil
}

// MergeContracts merges the selected contracts after confirmation.
func (s *Session) MergeContracts(ctx context.Context) error {
	n := len(s.Contracts.Selected())
	if n < 2 {
		s.presenter.Show(alert.MergeNeedsTwo(s.Strings()))
		return fmt.Errorf("%d selected: %w", n, contracts.ErrMergeNeedsTwo)
	}
	if err := s.confirm(ctx, alert.MergeContracts(s.Strings(), n)); err != nil {
		return err
	}
	err := s.report(s.Contracts.Merge(ctx))
	s.Table.SetContracts(s.Contracts.Contracts())
	return err
}

// DeleteContracts deletes the selected contracts after confirmation.
func (s *Session) DeleteContracts(ctx context.Context) error {
	n := len(s.Contracts.Selected())
	if n == 0 {
		str := s.Strings()
		s.presenter.Show(alert.Error(str.Get(i18n.KeyErrorHeader), str.Get(i18n.KeyNoSelection)))
		return contracts.ErrNoSelection
	}
	if err := s.confirm(ctx, alert.DeleteContracts(s.Strings(), n)); err != nil {
		return err
	}
	return s.report(s.Contracts.Delete(ctx))
}

// ScanContracts asks the backend to detect contracts.
func (s *Session) ScanContracts(ctx context.Context) error {
	err := s.report(s.Contracts.Scan(ctx))
	s.Table.SetContracts(s.Contracts.Contracts())
	return err
}

// RenameContract renames a contract.
func (s *Session) RenameContract(ctx context.Context, id int64, name string) error {
	return s.report(s.Contracts.Rename(ctx, id, name))
}

// UpdateDateRange recomputes the dashboard for [start, end].
func (s *Session) UpdateDateRange(ctx context.Context, start, end time.Time) error {
	err := s.Dashboard.UpdateDateRange(ctx, start, end)
	if err != nil {
		s.fail(err)
	}
	return err
}

// RefreshDashboard reloads the dashboard figures and graph.
func (s *Session) RefreshDashboard(ctx context.Context) error {
	err := s.Dashboard.Refresh(ctx)
	if err != nil {
		s.fail(err)
	}
	return err
}

// AddBank submits the add bank form. Banks in the response are added to the
// tree even when the backend rejected the form.
func (s *Session) AddBank(ctx context.Context, form api.AddBankForm) (banks.AddResult, error) {
	res, err := s.Banks.Add(ctx, form)
	return res, s.report(res.Envelope, err)
}

// UploadCSV sends a bank statement and refreshes the graph when the backend
// read it.
func (s *Session) UploadCSV(ctx context.Context, r io.Reader) error {
	env, refresh, err := s.Banks.Upload(ctx, r)
	if err := s.report(env, err); err != nil {
		return err
	}
	if refresh {
		if err := s.Dashboard.Refresh(ctx); err != nil {
			common.LogFailure(ctx, err, "Failed to refresh graph after upload")
		}
	}
	return nil
}

// DeleteBank deletes the expanded bank after confirmation and returns to the
// dashboard.
func (s *Session) DeleteBank(ctx context.Context) (*loader.Page, error) {
	env, err := s.Banks.Delete(ctx, s.presenter, s.Strings())
	if errors.Is(err, alert.ErrCanceled) {
		return nil, err
	}
	if err := s.report(env, err); err != nil {
		return nil, err
	}
	return s.Navigate(ctx, api.PathDashboard)
}

// SetLanguage switches the language and shows the outcome.
func (s *Session) SetLanguage(ctx context.Context, lang i18n.Language) error {
	_, err := s.Settings.SetLanguage(ctx, lang)
	s.presenter.Show(s.Settings.LanguageAlert(lang, err))
	return err
}

// ChangePassword submits the change password form.
func (s *Session) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	return s.report(s.Settings.ChangePassword(ctx, oldPassword, newPassword, confirmPassword))
}

// DeleteAccount deletes the account after confirmation. The returned page
// redirects to the start page.
func (s *Session) DeleteAccount(ctx context.Context) (*loader.Page, error) {
	return s.Settings.DeleteAccount(ctx, s.presenter, s.Loader)
}
