package render

import (
	"io"
	"strconv"

	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HistoryEntry is one formatted amount change.
type HistoryEntry struct {
	Old       Money
	New       Money
	ChangedAt string
}

// ContractCard is a rendered contract with its payment history.
type ContractCard struct {
	Name                 string
	DateLabel            string
	Date                 string
	History              []HistoryEntry
	Current              Money
	TotalPaid            Money
	ID                   int64
	Index                int
	MonthsBetweenPayment int
	Closed               bool
	Selected             bool
}

// BuildContract maps a contract with history to a card. Closed contracts
// show their end date, open ones the last payment date.
func BuildContract(cwh model.ContractWithHistory, index int, selected bool) ContractCard {
	card := ContractCard{
		ID:                   cwh.Contract.ID,
		Index:                index,
		Name:                 cwh.Contract.Name,
		Current:              money(cwh.Contract.CurrentAmount),
		TotalPaid:            money(cwh.TotalAmountPaid),
		MonthsBetweenPayment: cwh.Contract.MonthsBetweenPayment,
		Closed:               cwh.Contract.IsClosed(),
		Selected:             selected,
		DateLabel:            "Last payment date",
		Date:                 format.Date(cwh.LastPaymentDate),
	}
	if card.Closed {
		card.DateLabel = "End date"
		card.Date = format.OptionalDate(cwh.Contract.EndDate)
	}
	for _, h := range cwh.History {
		card.History = append(card.History, HistoryEntry{
			Old:       money(h.OldAmount),
			New:       money(h.NewAmount),
			ChangedAt: format.Date(h.ChangedAt),
		})
	}
	return card
}

// ContractHTML builds the card's node tree. noHistory is shown when the
// contract has no recorded amount changes.
func ContractHTML(card ContractCard, noHistory string) *html.Node {
	class := "display"
	if card.Selected {
		class += " selected"
	}
	idx := strconv.Itoa(card.Index)

	div := element(atom.Div,
		attr("class", class),
		attr("id", "display-"+idx),
		attr("data-id", strconv.FormatInt(card.ID, 10)),
	)

	date := withText(element(atom.P), card.DateLabel+": ")
	date.AppendChild(withText(element(atom.Span), card.Date))

	appendAll(div,
		withText(element(atom.H3), card.Name),
		tonedParagraph("Current amount: ", card.Current),
		tonedParagraph("Total amount over time: ", card.TotalPaid),
		paragraph("Months between Payment: ", strconv.Itoa(card.MonthsBetweenPayment)),
		date,
	)

	list := element(atom.Ul)
	if len(card.History) == 0 {
		list.AppendChild(withText(element(atom.Li), noHistory))
	}
	for _, h := range card.History {
		li := element(atom.Li)
		appendAll(li,
			tonedParagraph("Old Amount: ", h.Old),
			tonedParagraph("New Amount: ", h.New),
			paragraph("Changed At: ", h.ChangedAt),
		)
		list.AppendChild(li)
	}

	history := element(atom.Div,
		attr("id", "contract-history-"+idx),
		attr("class", "contract-history"),
	)
	appendAll(history, withText(element(atom.H4), "Contract History:"), list)
	div.AppendChild(history)

	return div
}

// RenderContracts writes the cards as HTML.
func RenderContracts(w io.Writer, cards []ContractCard, noHistory string) error {
	for _, c := range cards {
		if err := html.Render(w, ContractHTML(c, noHistory)); err != nil {
			return err
		}
	}
	return nil
}
