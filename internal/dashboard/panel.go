package dashboard

import (
	"strconv"
	"strings"

	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/shopspring/decimal"
)

// Metric is one line of the performance panel.
type Metric struct {
	Label string
	Value string
	Tone  format.Tone
	// Toned is false for counts, which are not colored.
	Toned bool
}

func money(label string, d decimal.Decimal) Metric {
	return Metric{Label: label, Value: format.Euro(d), Tone: format.Sign(d), Toned: true}
}

func count(label string, n int) Metric {
	return Metric{Label: label, Value: strconv.Itoa(n)}
}

// Panel formats the performance figures.
func Panel(p *model.PerformanceValue) []Metric {
	if p == nil {
		return nil
	}
	return []Metric{
		count("Total transactions", p.TotalTransactions),
		money("Net gain/loss", p.NetGainLoss),
		{
			Label: "Performance",
			Value: format.Percent(p.PerformancePercentage),
			Tone:  format.Sign(p.PerformancePercentage),
			Toned: true,
		},
		money("Average transaction", p.AverageTransactionAmount),
		money("Total discrepancy", p.TotalDiscrepancy),
		count("Total contracts", p.TotalContracts),
		money("Contracts per year", p.TotalAmountPerYear),
		money("Monthly contracts", p.OneMonthContractAmount),
		money("Quarterly contracts", p.ThreeMonthContractAmount),
		money("Half-yearly contracts", p.SixMonthContractAmount),
	}
}

var sparks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws the trace's balances as a line of block characters at
// most width runes wide. Longer traces are sampled evenly.
func Sparkline(trace model.GraphTrace, width int) string {
	ys := trace.Y
	if len(ys) == 0 || width <= 0 {
		return ""
	}
	if len(ys) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = ys[i*(len(ys)-1)/max(1, width-1)]
		}
		ys = sampled
	}

	lo, hi := ys[0], ys[0]
	for _, y := range ys {
		lo = min(lo, y)
		hi = max(hi, y)
	}

	var sb strings.Builder
	for _, y := range ys {
		idx := 0
		if hi > lo {
			idx = int((y - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		sb.WriteRune(sparks[idx])
	}
	return sb.String()
}
