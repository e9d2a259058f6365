// Package contracts holds the contract list page state: the open and closed
// contracts, the selection and the merge, delete, scan and rename actions.
package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/render"
)

// Contract list errors.
var (
	ErrMergeNeedsTwo = errors.New("please select at least 2 contracts to merge")
	ErrNoSelection   = errors.New("no contracts selected")
	ErrEmptyName     = errors.New("contract name must not be empty")
)

// Actions are the backend calls of the contract page. *api.Client satisfies it.
type Actions interface {
	ContractData(ctx context.Context) ([]byte, error)
	MergeContracts(ctx context.Context, ids []int64) (api.Envelope, error)
	DeleteContracts(ctx context.Context, ids []int64) (api.Envelope, error)
	ScanContracts(ctx context.Context) (api.Envelope, error)
	RenameContract(ctx context.Context, contractID int64, name string) (api.Envelope, error)
}

// List is the contract list. It is safe for concurrent use.
type List struct {
	actions  Actions
	selected map[int64]struct{}
	items    []model.ContractWithHistory
	mu       sync.Mutex
}

// New creates an empty list.
func New(actions Actions) *List {
	return &List{
		actions:  actions,
		selected: make(map[int64]struct{}),
	}
}

// Parse decodes a contracts data island.
func Parse(raw []byte) ([]model.ContractWithHistory, error) {
	var items []model.ContractWithHistory
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: contracts: %v", common.ErrMalformedData, err)
	}
	return items, nil
}

// Load replaces the list with the contracts in raw.
func (l *List) Load(raw []byte) error {
	items, err := Parse(raw)
	if err != nil {
		slog.Error("Failed to load contracts", "error", err)
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = items
	for id := range l.selected {
		if !l.has(id) {
			delete(l.selected, id)
		}
	}
	return nil
}

// Reload fetches the contracts from the data endpoint.
func (l *List) Reload(ctx context.Context) error {
	raw, err := l.actions.ContractData(ctx)
	if err != nil {
		return err
	}
	return l.Load(raw)
}

func (l *List) has(id int64) bool {
	return slices.ContainsFunc(l.items, func(c model.ContractWithHistory) bool {
		return c.Contract.ID == id
	})
}

// All returns every contract, open ones first.
func (l *List) All() []model.ContractWithHistory {
	return append(l.Open(), l.Closed()...)
}

// Open returns the contracts without an end date.
func (l *List) Open() []model.ContractWithHistory {
	return l.where(func(c model.ContractWithHistory) bool { return !c.Contract.IsClosed() })
}

// Closed returns the contracts with an end date.
func (l *List) Closed() []model.ContractWithHistory {
	return l.where(func(c model.ContractWithHistory) bool { return c.Contract.IsClosed() })
}

func (l *List) where(keep func(model.ContractWithHistory) bool) []model.ContractWithHistory {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []model.ContractWithHistory
	for _, c := range l.items {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the contract with id.
func (l *List) Get(id int64) (model.ContractWithHistory, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.items {
		if c.Contract.ID == id {
			return c, true
		}
	}
	return model.ContractWithHistory{}, false
}

// Contracts returns the plain contracts, for linking transactions.
func (l *List) Contracts() []model.Contract {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Contract, len(l.items))
	for i, c := range l.items {
		out[i] = c.Contract
	}
	return out
}

// Names returns the contract names in list order.
func (l *List) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.items))
	for i, c := range l.items {
		out[i] = c.Contract.Name
	}
	return out
}

// Cards renders the open contracts followed by the closed ones.
func (l *List) Cards() []render.ContractCard {
	all := l.All()
	cards := make([]render.ContractCard, len(all))
	for i, c := range all {
		cards[i] = render.BuildContract(c, i, l.IsSelected(c.Contract.ID))
	}
	return cards
}

// Toggle flips the selection of a contract.
func (l *List) Toggle(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.selected[id]; ok {
		delete(l.selected, id)
		return
	}
	l.selected[id] = struct{}{}
}

// IsSelected reports whether id is selected.
func (l *List) IsSelected(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.selected[id]
	return ok
}

// Selected returns the selected ids in ascending order.
func (l *List) Selected() []int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	ids := make([]int64, 0, len(l.selected))
	for id := range l.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// ClearSelection deselects everything.
func (l *List) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = make(map[int64]struct{})
}

// Merge merges the selected contracts into one and reloads the list.
func (l *List) Merge(ctx context.Context) (api.Envelope, error) {
	ids := l.Selected()
	if len(ids) < 2 {
		return api.Envelope{}, ErrMergeNeedsTwo
	}
	env, err := l.actions.MergeContracts(ctx, ids)
	if err != nil {
		return env, err
	}
	l.ClearSelection()
	return env, l.Reload(ctx)
}

// Delete deletes the selected contracts.
func (l *List) Delete(ctx context.Context) (api.Envelope, error) {
	ids := l.Selected()
	if len(ids) == 0 {
		return api.Envelope{}, ErrNoSelection
	}
	env, err := l.actions.DeleteContracts(ctx, ids)
	if err != nil {
		return env, err
	}

	l.mu.Lock()
	l.items = slices.DeleteFunc(l.items, func(c model.ContractWithHistory) bool {
		return slices.Contains(ids, c.Contract.ID)
	})
	l.selected = make(map[int64]struct{})
	l.mu.Unlock()

	return env, nil
}

// Scan asks the backend to detect contracts and reloads the list.
func (l *List) Scan(ctx context.Context) (api.Envelope, error) {
	env, err := l.actions.ScanContracts(ctx)
	if err != nil {
		return env, err
	}
	return env, l.Reload(ctx)
}

// Rename changes a contract's name.
func (l *List) Rename(ctx context.Context, id int64, name string) (api.Envelope, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.Envelope{}, ErrEmptyName
	}
	if _, ok := l.Get(id); !ok {
		return api.Envelope{}, fmt.Errorf("%w: contract %d", common.ErrNotFound, id)
	}
	env, err := l.actions.RenameContract(ctx, id, name)
	if err != nil {
		return env, err
	}

	l.mu.Lock()
	for i := range l.items {
		if l.items[i].Contract.ID == id {
			l.items[i].Contract.Name = name
		}
	}
	l.mu.Unlock()

	return env, nil
}
