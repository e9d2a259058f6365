// Package render maps transactions and contracts to display rows and to
// escaped HTML node trees.
package render

import (
	"io"
	"strconv"

	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/shopspring/decimal"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Flags are the view flags that influence how a row is drawn.
type Flags struct {
	Selected bool
	// Details adds the linked contract's detail row.
	Details bool
}

// Money is a formatted amount with its sign tone.
type Money struct {
	Text string
	Tone format.Tone
}

func money(d decimal.Decimal) Money {
	return Money{Text: format.Dollar(d), Tone: format.Sign(d)}
}

// ContractDetail is the detail block shown under a linked row.
type ContractDetail struct {
	Name                 string
	Amount               Money
	EndDate              string
	MonthsBetweenPayment int
}

// Row is one rendered transaction row.
type Row struct {
	Contract           *ContractDetail
	Counterparty       string
	Date               string
	ContractName       string
	Amount             Money
	Balance            Money
	ID                 int64
	Index              int
	Hidden             bool
	Selected           bool
	Linked             bool
	ContractNotAllowed bool
}

// BuildRow maps a transaction and its optional contract to a Row.
func BuildRow(tx model.Transaction, c *model.Contract, index int, flags Flags) Row {
	r := Row{
		ID:                 tx.ID,
		Index:              index,
		Counterparty:       tx.Counterparty,
		Amount:             money(tx.Amount),
		Balance:            money(tx.BankBalanceAfter),
		Date:               format.Date(tx.Date),
		Hidden:             tx.IsHidden,
		Selected:           flags.Selected,
		ContractNotAllowed: tx.ContractNotAllowed,
	}
	if c != nil {
		r.Linked = true
		r.ContractName = c.Name
		if flags.Details {
			r.Contract = &ContractDetail{
				Name:                 c.Name,
				Amount:               money(c.CurrentAmount),
				MonthsBetweenPayment: c.MonthsBetweenPayment,
				EndDate:              format.OptionalDate(c.EndDate),
			}
		}
	}
	return r
}

// Cells returns the row's columns in table order.
func (r Row) Cells() []string {
	return []string{r.Counterparty, r.Amount.Text, r.Balance.Text, r.Date, r.ContractName}
}

// HTML builds the row's node tree: a transaction row followed by the
// contract detail row when present.
func HTML(r Row) []*html.Node {
	class := "transaction-row"
	if r.Hidden {
		class += " hidden_transaction"
	}
	if r.Selected {
		class += " selected"
	}

	tr := element(atom.Tr,
		attr("class", class),
		attr("data-index", strconv.Itoa(r.Index)),
		attr("data-id", strconv.FormatInt(r.ID, 10)),
	)
	appendAll(tr,
		withText(element(atom.Td), r.Counterparty),
		withText(element(atom.Td, attr("class", r.Amount.Tone.String())), r.Amount.Text),
		withText(element(atom.Td, attr("class", r.Balance.Tone.String())), r.Balance.Text),
		withText(element(atom.Td), r.Date),
	)

	nodes := []*html.Node{tr}
	if r.Contract == nil {
		return nodes
	}

	details := element(atom.Div, attr("class", "contract-details"))
	appendAll(details,
		paragraph("Contract Name: ", r.Contract.Name),
		tonedParagraph("Contract Current Amount: ", r.Contract.Amount),
		paragraph("Months Between Payment: ", strconv.Itoa(r.Contract.MonthsBetweenPayment)),
		paragraph("Contract End Date: ", r.Contract.EndDate),
	)
	td := element(atom.Td, attr("colspan", "4"))
	td.AppendChild(details)
	contractRow := element(atom.Tr, attr("class", "contract-row"))
	contractRow.AppendChild(td)

	return append(nodes, contractRow)
}

// RenderHTML writes the rows as HTML. All text is escaped.
func RenderHTML(w io.Writer, rows []Row) error {
	for _, r := range rows {
		for _, n := range HTML(r) {
			if err := html.Render(w, n); err != nil {
				return err
			}
		}
	}
	return nil
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     a.String(),
		DataAtom: a,
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	return n
}

func appendAll(parent *html.Node, children ...*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

func paragraph(label, value string) *html.Node {
	return withText(element(atom.P), label+value)
}

func tonedParagraph(label string, m Money) *html.Node {
	p := withText(element(atom.P), label)
	p.AppendChild(withText(element(atom.Span, attr("class", m.Tone.String())), m.Text))
	return p
}
