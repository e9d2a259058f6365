package table

import (
	"context"
	"slices"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/model"
)

// targets returns ids, or the selection when ids is empty.
func (c *Controller) targets(ids []int64) ([]int64, error) {
	if len(ids) > 0 {
		return ids, nil
	}
	sel := c.Selected()
	if len(sel) == 0 {
		return nil, ErrNoSelection
	}
	return sel, nil
}

// mutate applies fn to every dataset row whose id is in ids and re-derives
// the view.
func (c *Controller) mutate(ids []int64, fn func(r *model.TransactionWithContract)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.dataset {
		if slices.Contains(ids, c.dataset[i].Transaction.ID) {
			fn(&c.dataset[i])
		}
	}
	c.refresh()
}

func (c *Controller) deselect(ids []int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.selected, id)
	}
}

// Hide hides ids, or the selection when no ids are given, in one request.
func (c *Controller) Hide(ctx context.Context, ids ...int64) (api.Envelope, error) {
	ids, err := c.targets(ids)
	if err != nil {
		return api.Envelope{}, err
	}
	env, err := c.actions.HideTransactions(ctx, ids)
	if err != nil {
		return env, err
	}
	c.mutate(ids, func(r *model.TransactionWithContract) {
		r.Transaction.IsHidden = true
	})
	c.deselect(ids)
	return env, nil
}

// Remove deletes ids, or the selection when no ids are given, in one request.
func (c *Controller) Remove(ctx context.Context, ids ...int64) (api.Envelope, error) {
	ids, err := c.targets(ids)
	if err != nil {
		return api.Envelope{}, err
	}
	env, err := c.actions.RemoveTransactions(ctx, ids)
	if err != nil {
		return env, err
	}

	c.mu.Lock()
	c.dataset = slices.DeleteFunc(c.dataset, func(r model.TransactionWithContract) bool {
		return slices.Contains(ids, r.Transaction.ID)
	})
	for _, id := range ids {
		delete(c.selected, id)
	}
	c.refresh()
	c.mu.Unlock()

	return env, nil
}

// HideOne hides a single transaction.
func (c *Controller) HideOne(ctx context.Context, id int64) (api.Envelope, error) {
	env, err := c.actions.HideTransaction(ctx, id)
	if err != nil {
		return env, err
	}
	c.mutate([]int64{id}, func(r *model.TransactionWithContract) {
		r.Transaction.IsHidden = true
	})
	return env, nil
}

// Show makes a hidden transaction visible.
func (c *Controller) Show(ctx context.Context, id int64) (api.Envelope, error) {
	env, err := c.actions.ShowTransaction(ctx, id)
	if err != nil {
		return env, err
	}
	c.mutate([]int64{id}, func(r *model.TransactionWithContract) {
		r.Transaction.IsHidden = false
	})
	return env, nil
}

// AllowContract lets the transaction be linked to contracts again.
func (c *Controller) AllowContract(ctx context.Context, id int64) (api.Envelope, error) {
	env, err := c.actions.AllowContract(ctx, id)
	if err != nil {
		return env, err
	}
	c.mutate([]int64{id}, func(r *model.TransactionWithContract) {
		r.Transaction.ContractNotAllowed = false
	})
	return env, nil
}

// DisallowContract excludes the transaction from contract linkage.
func (c *Controller) DisallowContract(ctx context.Context, id int64) (api.Envelope, error) {
	env, err := c.actions.DisallowContract(ctx, id)
	if err != nil {
		return env, err
	}
	c.mutate([]int64{id}, func(r *model.TransactionWithContract) {
		r.Transaction.ContractNotAllowed = true
	})
	return env, nil
}

// RemoveContract unlinks the transaction from its contract.
func (c *Controller) RemoveContract(ctx context.Context, id int64) (api.Envelope, error) {
	env, err := c.actions.RemoveContract(ctx, id)
	if err != nil {
		return env, err
	}
	c.mutate([]int64{id}, func(r *model.TransactionWithContract) {
		r.Contract = nil
	})
	return env, nil
}
