package cli

import (
	"strings"
	"testing"

	"github.com/Veraticus/bankdash/internal/banks"
	"github.com/Veraticus/bankdash/internal/dashboard"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/render"
	"github.com/stretchr/testify/assert"
)

func TestTransactionTable(t *testing.T) {
	rows := []render.Row{
		{ID: 1, Counterparty: "Landlord", Amount: render.Money{Text: "$-800.00", Tone: format.ToneNegative}, Date: "01.05.2024", ContractName: "Rent", Selected: true},
		{ID: 2, Counterparty: "Employer", Amount: render.Money{Text: "$3000.00"}, Date: "30.04.2024", ContractNotAllowed: true},
	}

	out := TransactionTable(rows)
	lines := strings.Split(out, "\n")

	assert.Contains(t, out, "Counterparty")
	assert.Contains(t, out, "Landlord")
	assert.Contains(t, out, "$-800.00")
	assert.Contains(t, out, "(no contract)")

	var landlord string
	for _, l := range lines {
		if strings.Contains(l, "Landlord") {
			landlord = l
		}
	}
	assert.Contains(t, landlord, "*")
	assert.Contains(t, landlord, "Rent")
}

func TestContractCards(t *testing.T) {
	cards := []render.ContractCard{
		{ID: 1, Name: "Rent", DateLabel: "Last payment date", Date: "01.05.2024",
			History: []render.HistoryEntry{{Old: render.Money{Text: "$-750.00"}, New: render.Money{Text: "$-800.00"}, ChangedAt: "01.01.2024"}}},
		{ID: 2, Name: "Gym", DateLabel: "End date", Date: "31.12.2023", Closed: true},
	}

	out := ContractCards(cards, "No history available.")
	assert.Contains(t, out, "Rent")
	assert.Contains(t, out, "$-750.00 → $-800.00")
	assert.Contains(t, out, "End date: 31.12.2023")
	assert.Equal(t, 1, strings.Count(out, "No history available."))

	assert.NotContains(t, ContractCards(cards, ""), "$-750.00")
}

func TestBankTree(t *testing.T) {
	out := BankTree([]banks.Node{
		{Entry: banks.Entry{Label: "DKB", Path: "/bank/1"}, ID: 1},
		{Entry: banks.Entry{Label: "ING", Path: "/bank/2"}, ID: 2, Expanded: true,
			Sub: []banks.Entry{{Label: "Contract", Path: "/bank/contract"}}},
	})

	assert.Contains(t, out, "DKB")
	assert.Contains(t, out, "└ Contract")
	assert.Equal(t, 3, len(strings.Split(out, "\n")))
}

func TestMetricTable(t *testing.T) {
	out := MetricTable([]dashboard.Metric{
		{Label: "Total transactions", Value: "12"},
		{Label: "Net gain/loss", Value: "-5.00 €", Tone: format.ToneNegative, Toned: true},
	})
	assert.Contains(t, out, "Total transactions")
	assert.Contains(t, out, "-5.00 €")
}
