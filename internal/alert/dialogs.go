package alert

import (
	"time"

	"github.com/Veraticus/bankdash/internal/i18n"
)

// AccountDeletedCountdown is how long the account deletion banner stays
// before the client leaves for the start page.
const AccountDeletedCountdown = 5 * time.Second

// DeleteAccount is the account deletion dialog.
func DeleteAccount(s i18n.Strings) Dialog {
	return Dialog{
		Header:       s.Get(i18n.KeyDeleteAccountHeader),
		Body:         s.Get(i18n.KeyDeleteAccountConfirmation),
		ConfirmLabel: s.Get(i18n.KeyDeleteAccountButton),
		CancelLabel:  s.Get(i18n.KeyCancelButton),
	}
}

// DeleteBank is the bank deletion dialog.
func DeleteBank(s i18n.Strings) Dialog {
	return Dialog{
		Header:       s.Get(i18n.KeyDeleteBankHeader),
		Body:         s.Get(i18n.KeyDeleteBankConfirmation),
		ConfirmLabel: s.Get(i18n.KeyDeleteBankButton),
		CancelLabel:  s.Get(i18n.KeyCancelButton),
	}
}

// MergeContracts asks before merging n contracts.
func MergeContracts(s i18n.Strings, n int) Dialog {
	return Dialog{
		Header:       s.Get(i18n.KeyMergeContractsHeader),
		Body:         s.Format(i18n.KeyMergeContractsBody, n),
		ConfirmLabel: s.Get(i18n.KeyConfirmButton),
		CancelLabel:  s.Get(i18n.KeyCancelButton),
	}
}

// DeleteContracts asks before deleting n contracts.
func DeleteContracts(s i18n.Strings, n int) Dialog {
	return Dialog{
		Header:       s.Get(i18n.KeyDeleteContractsHeader),
		Body:         s.Format(i18n.KeyDeleteContractsBody, n),
		ConfirmLabel: s.Get(i18n.KeyConfirmButton),
		CancelLabel:  s.Get(i18n.KeyCancelButton),
	}
}

// MergeNeedsTwo is the banner shown when fewer than two contracts are selected.
func MergeNeedsTwo(s i18n.Strings) Alert {
	return Error(s.Get(i18n.KeyMergeContractsHeader), s.Get(i18n.KeyMergeNeedsTwo))
}

// AccountDeleted is the banner shown after the account was deleted. It
// cannot be closed until the countdown ran out.
func AccountDeleted(header, body string, s i18n.Strings, now time.Time) Alert {
	a := Success(header, body)
	a.Button = s.Get(i18n.KeyCloseButton)
	a.Countdown = AccountDeletedCountdown
	a.ShownAt = now
	return a
}
