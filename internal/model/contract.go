package model

import "github.com/shopspring/decimal"

// Contract is a recurring payment agreement. A contract without an end date is open.
type Contract struct {
	EndDate              *string         `json:"end_date"`
	Name                 string          `json:"name"`
	CurrentAmount        decimal.Decimal `json:"current_amount"`
	ID                   int64           `json:"id"`
	MonthsBetweenPayment int             `json:"months_between_payment"`
}

// IsClosed reports whether the contract has ended.
func (c Contract) IsClosed() bool {
	return c.EndDate != nil
}

// ContractHistory records one change of a contract's amount.
type ContractHistory struct {
	ChangedAt string          `json:"changed_at"`
	OldAmount decimal.Decimal `json:"old_amount"`
	NewAmount decimal.Decimal `json:"new_amount"`
}

// ContractWithHistory is one element of the contracts page data.
type ContractWithHistory struct {
	LastPaymentDate string            `json:"last_payment_date"`
	History         []ContractHistory `json:"contract_history"`
	Contract        Contract          `json:"contract"`
	TotalAmountPaid decimal.Decimal   `json:"total_amount_paid"`
}
