package model

import "github.com/shopspring/decimal"

// PerformanceValue holds the summary figures shown on the dashboard and bank pages.
type PerformanceValue struct {
	NetGainLoss              decimal.Decimal `json:"net_gain_loss"`
	PerformancePercentage    decimal.Decimal `json:"performance_percentage"`
	AverageTransactionAmount decimal.Decimal `json:"average_transaction_amount"`
	TotalDiscrepancy         decimal.Decimal `json:"total_discrepancy"`
	TotalAmountPerYear       decimal.Decimal `json:"total_amount_per_year"`
	OneMonthContractAmount   decimal.Decimal `json:"one_month_contract_amount"`
	ThreeMonthContractAmount decimal.Decimal `json:"three_month_contract_amount"`
	SixMonthContractAmount   decimal.Decimal `json:"six_month_contract_amount"`
	TotalTransactions        int             `json:"total_transactions"`
	TotalContracts           int             `json:"total_contracts"`
}

// GraphTrace is one balance series of the dashboard graph.
type GraphTrace struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
}
