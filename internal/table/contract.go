package table

import (
	"context"
	"fmt"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/model"
)

// Resolution decides what happens to a contract's amount when a transaction
// with a different amount is linked to it.
type Resolution int

// Resolutions.
const (
	ResolutionNone Resolution = iota
	// ResolutionNewAmount makes the transaction amount the contract's current amount.
	ResolutionNewAmount
	// ResolutionHistoricalAmount records the transaction amount as a past amount.
	ResolutionHistoricalAmount
	// ResolutionJustAttach links the transaction and leaves the contract alone.
	ResolutionJustAttach
)

var resolutionNames = map[Resolution]string{
	ResolutionNone:             "none",
	ResolutionNewAmount:        "new-amount",
	ResolutionHistoricalAmount: "historical",
	ResolutionJustAttach:       "attach",
}

func (r Resolution) String() string {
	if name, ok := resolutionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Resolution(%d)", int(r))
}

// ParseResolution parses the names printed by Resolution.String.
func ParseResolution(s string) (Resolution, error) {
	for r, name := range resolutionNames {
		if name == s {
			return r, nil
		}
	}
	return ResolutionNone, fmt.Errorf("unknown resolution %q: use new-amount, historical or attach", s)
}

// Choice is one resolution offered to the user.
type Choice struct {
	Label      string
	Resolution Resolution
}

// Plan describes linking a transaction to a contract.
type Plan struct {
	Transaction model.Transaction
	Contract    model.Contract
	Mismatch    bool
}

// Prompt returns the header and body of the mismatch question.
func (p Plan) Prompt(s i18n.Strings) (string, string) {
	return s.Get(i18n.KeyAmountMismatchHeader),
		s.Format(i18n.KeyAmountMismatchBody, format.Dollar(p.Contract.CurrentAmount), format.Dollar(p.Transaction.Amount))
}

// Choices returns the resolutions for a mismatch in display order.
func (p Plan) Choices(s i18n.Strings) []Choice {
	return []Choice{
		{Resolution: ResolutionNewAmount, Label: s.Get(i18n.KeyResolutionNewAmount)},
		{Resolution: ResolutionHistoricalAmount, Label: s.Get(i18n.KeyResolutionHistorical)},
		{Resolution: ResolutionJustAttach, Label: s.Get(i18n.KeyResolutionJustAttach)},
	}
}

// PlanAddContract looks up the transaction and contract and reports whether
// their amounts differ.
func (c *Controller) PlanAddContract(txID, contractID int64) (Plan, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var plan Plan
	found := false
	for _, r := range c.dataset {
		if r.Transaction.ID == txID {
			plan.Transaction = r.Transaction
			found = true
			break
		}
	}
	if !found {
		return Plan{}, fmt.Errorf("%w: transaction %d", common.ErrNotFound, txID)
	}

	contract, ok := c.contracts[contractID]
	if !ok {
		return Plan{}, fmt.Errorf("%w: contract %d", common.ErrNotFound, contractID)
	}
	plan.Contract = contract
	plan.Mismatch = !contract.CurrentAmount.Equal(plan.Transaction.Amount)
	return plan, nil
}

// AddContract links a transaction to a contract. When the amounts differ a
// resolution other than ResolutionNone is required and no request is made
// without one. Matching amounts always take the plain attach path.
func (c *Controller) AddContract(ctx context.Context, txID, contractID int64, res Resolution) (api.Envelope, error) {
	plan, err := c.PlanAddContract(txID, contractID)
	if err != nil {
		return api.Envelope{}, err
	}
	if !plan.Mismatch {
		res = ResolutionJustAttach
	}

	var env api.Envelope
	switch res {
	case ResolutionJustAttach:
		env, err = c.actions.AddContract(ctx, txID, contractID)
	case ResolutionNewAmount:
		env, err = c.actions.UpdateContractAmount(ctx, txID, contractID)
	case ResolutionHistoricalAmount:
		env, err = c.actions.SetOldAmount(ctx, txID, contractID)
	default:
		return api.Envelope{}, ErrResolutionRequired
	}
	if err != nil {
		return env, err
	}

	contract := plan.Contract
	if res == ResolutionNewAmount {
		contract.CurrentAmount = plan.Transaction.Amount
	}
	c.link(txID, contract)
	return env, nil
}

// link attaches contract to the transaction and propagates the contract's
// current amount to every row and option that shares it.
func (c *Controller) link(txID int64, contract model.Contract) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.contracts[contract.ID] = contract
	for i := range c.dataset {
		r := &c.dataset[i]
		if r.Transaction.ID == txID {
			linked := contract
			r.Contract = &linked
			continue
		}
		if r.Contract != nil && r.Contract.ID == contract.ID {
			updated := *r.Contract
			updated.CurrentAmount = contract.CurrentAmount
			r.Contract = &updated
		}
	}

	known := false
	for i := range c.options {
		if c.options[i].ID == contract.ID {
			c.options[i].CurrentAmount = contract.CurrentAmount
			known = true
		} else if c.options[i].Name == contract.Name {
			known = true
		}
	}
	if !known {
		c.options = append(c.options, contract)
	}
	c.refresh()
}
