// Package model defines the entities exchanged with the banking backend.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single bank ledger entry.
type Transaction struct {
	Date               string          `json:"date"`
	Counterparty       string          `json:"counterparty"`
	Amount             decimal.Decimal `json:"amount"`
	BankBalanceAfter   decimal.Decimal `json:"bank_balance_after"`
	ID                 int64           `json:"id"`
	IsHidden           bool            `json:"is_hidden"`
	ContractNotAllowed bool            `json:"contract_not_allowed"`
}

// Time parses the transaction date. The second result is false when the
// backend sent a date that cannot be parsed.
func (t Transaction) Time() (time.Time, bool) {
	return ParseDate(t.Date)
}

// TransactionWithContract pairs a transaction with the contract it is linked to.
// A nil Contract marks an unlinked row.
type TransactionWithContract struct {
	Contract    *Contract   `json:"contract"`
	Transaction Transaction `json:"transaction"`
}

// Linked reports whether the transaction belongs to a contract.
func (t TransactionWithContract) Linked() bool {
	return t.Contract != nil
}

// ContractName returns the linked contract's name or "" for unlinked rows.
func (t TransactionWithContract) ContractName() string {
	if t.Contract == nil {
		return ""
	}
	return t.Contract.Name
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// ParseDate accepts the date encodings the backend produces: plain ISO dates
// and RFC 3339 timestamps.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
