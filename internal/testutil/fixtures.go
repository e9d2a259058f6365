// Package testutil provides a fake backend and fixture builders for tests.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/Veraticus/bankdash/internal/model"
	"github.com/shopspring/decimal"
)

// RowBuilder builds a TransactionWithContract fluently.
//
// Example:
//
//	row := testutil.NewRow(1, "Netflix", "-12.99", "2024-01-15").
//		Hidden().
//		WithContract(testutil.NewContract(3, "Streaming", "-12.99")).
//		Build()
type RowBuilder struct {
	row model.TransactionWithContract
}

// NewRow starts a row with the given transaction fields. Balance defaults to 1000.
func NewRow(id int64, counterparty, amount, date string) *RowBuilder {
	return &RowBuilder{row: model.TransactionWithContract{
		Transaction: model.Transaction{
			ID:               id,
			Counterparty:     counterparty,
			Amount:           decimal.RequireFromString(amount),
			BankBalanceAfter: decimal.NewFromInt(1000),
			Date:             date,
		},
	}}
}

// Hidden marks the transaction hidden.
func (b *RowBuilder) Hidden() *RowBuilder {
	b.row.Transaction.IsHidden = true
	return b
}

// NotAllowed excludes the transaction from contract linkage.
func (b *RowBuilder) NotAllowed() *RowBuilder {
	b.row.Transaction.ContractNotAllowed = true
	return b
}

// Balance sets the balance after the transaction.
func (b *RowBuilder) Balance(balance string) *RowBuilder {
	b.row.Transaction.BankBalanceAfter = decimal.RequireFromString(balance)
	return b
}

// WithContract links the row to c.
func (b *RowBuilder) WithContract(c model.Contract) *RowBuilder {
	b.row.Contract = &c
	return b
}

// Build returns the row.
func (b *RowBuilder) Build() model.TransactionWithContract {
	return b.row
}

// NewContract returns an open contract paid monthly.
func NewContract(id int64, name, amount string) model.Contract {
	return model.Contract{
		ID:                   id,
		Name:                 name,
		CurrentAmount:        decimal.RequireFromString(amount),
		MonthsBetweenPayment: 1,
	}
}

// Island encodes v the way the backend embeds data islands.
func Island(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to encode data island: %v", err)
	}
	return data
}
