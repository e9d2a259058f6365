// Package table holds the transaction table state: the full dataset, the
// filtered and sorted view, the selection and the row actions that keep the
// dataset in sync with the backend.
package table

import (
	"cmp"
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
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/Veraticus/bankdash/internal/render"
)

// Table errors.
var (
	ErrNoSelection        = errors.New("no transactions selected")
	ErrResolutionRequired = errors.New("contract amount differs from transaction amount")
	ErrUnknownSortKey     = errors.New("unknown sort key")
)

// Actions are the backend calls behind the row actions. *api.Client satisfies it.
type Actions interface {
	HideTransactions(ctx context.Context, ids []int64) (api.Envelope, error)
	RemoveTransactions(ctx context.Context, ids []int64) (api.Envelope, error)
	HideTransaction(ctx context.Context, txID int64) (api.Envelope, error)
	ShowTransaction(ctx context.Context, txID int64) (api.Envelope, error)
	AllowContract(ctx context.Context, txID int64) (api.Envelope, error)
	DisallowContract(ctx context.Context, txID int64) (api.Envelope, error)
	RemoveContract(ctx context.Context, txID int64) (api.Envelope, error)
	AddContract(ctx context.Context, txID, contractID int64) (api.Envelope, error)
	UpdateContractAmount(ctx context.Context, txID, contractID int64) (api.Envelope, error)
	SetOldAmount(ctx context.Context, txID, contractID int64) (api.Envelope, error)
}

// Source produces the raw transactions JSON.
type Source func(ctx context.Context) ([]byte, error)

// IslandSource serves JSON that was embedded in a page fragment.
func IslandSource(raw []byte) Source {
	return func(context.Context) ([]byte, error) {
		return raw, nil
	}
}

// Fetcher loads the transactions JSON from the backend.
type Fetcher interface {
	TransactionData(ctx context.Context) ([]byte, error)
}

// EndpointSource fetches the transactions from the data endpoint.
func EndpointSource(f Fetcher) Source {
	return f.TransactionData
}

// Generation identifies one load. A load only applies while its generation
// is the newest one started.
type Generation uint64

// Option configures a Controller.
type Option func(*Controller)

// WithPageSize turns on pagination with n rows per page.
func WithPageSize(n int) Option {
	return func(c *Controller) {
		c.pageSize = max(0, n)
	}
}

// WithStrings sets the localized strings used in prompts.
func WithStrings(s i18n.Strings) Option {
	return func(c *Controller) {
		c.strings = s
	}
}

// WithBulkActions makes hide and remove act on the selection instead of the
// row under the cursor.
func WithBulkActions(on bool) Option {
	return func(c *Controller) {
		c.bulk = on
	}
}

// WithDetails renders the contract detail row under linked transactions.
func WithDetails(on bool) Option {
	return func(c *Controller) {
		c.details = on
	}
}

// Controller owns the transaction dataset and its view. Its methods are safe
// for concurrent use; backend calls are made without holding the lock.
type Controller struct {
	actions   Actions
	selected  map[int64]struct{}
	contracts map[int64]model.Contract
	strings   i18n.Strings
	filter    Filter
	dataset   []model.TransactionWithContract
	filtered  []model.TransactionWithContract
	options   []model.Contract
	sort      SortConfig
	gen       Generation
	pageSize  int
	window    int
	mu        sync.Mutex
	bulk      bool
	details   bool
}

// New creates an empty controller.
func New(actions Actions, opts ...Option) *Controller {
	c := &Controller{
		actions:   actions,
		selected:  make(map[int64]struct{}),
		contracts: make(map[int64]model.Contract),
		strings:   i18n.For(i18n.Default),
		sort:      DefaultSort,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.window = c.pageSize
	return c
}

// Load replaces the dataset with the transactions produced by src. A load
// that was overtaken by a newer one returns common.ErrSuperseded and changes
// nothing.
func (c *Controller) Load(ctx context.Context, src Source) error {
	gen := c.StartLoad()
	raw, err := src(ctx)
	if err != nil {
		return err
	}
	return c.Apply(gen, raw)
}

// StartLoad begins a load and returns its generation.
func (c *Controller) StartLoad() Generation {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Apply installs raw as the dataset if gen is still the newest load.
func (c *Controller) Apply(gen Generation, raw []byte) error {
	rows, err := Parse(raw)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		slog.Debug("Dropping superseded transaction load", "generation", gen, "current", c.gen)
		return common.ErrSuperseded
	}
	if err != nil {
		slog.Error("Failed to load transactions", "error", err)
		c.dataset = nil
		c.options = nil
		c.selected = make(map[int64]struct{})
		c.refresh()
		c.window = c.pageSize
		return err
	}

	c.dataset = rows
	c.options = contractOptions(rows)
	for _, opt := range c.options {
		c.contracts[opt.ID] = opt
	}
	c.selected = make(map[int64]struct{})
	c.refresh()
	c.window = c.pageSize
	return nil
}

// Parse decodes a transactions data island. Every element must carry a
// transaction object with an id.
func Parse(raw []byte) ([]model.TransactionWithContract, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: transactions are not an array: %v", common.ErrMalformedData, err)
	}

	rows := make([]model.TransactionWithContract, 0, len(elems))
	for i, elem := range elems {
		var shape struct {
			Transaction *struct {
				ID *int64 `json:"id"`
			} `json:"transaction"`
		}
		if err := json.Unmarshal(elem, &shape); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", common.ErrMalformedData, i, err)
		}
		if shape.Transaction == nil || shape.Transaction.ID == nil {
			return nil, fmt.Errorf("%w: element %d has no transaction id", common.ErrMalformedData, i)
		}

		var row model.TransactionWithContract
		if err := json.Unmarshal(elem, &row); err != nil {
			return nil, fmt.Errorf("%w: element %d: %v", common.ErrMalformedData, i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// contractOptions returns the distinct contracts by name, keeping the first
// occurrence.
func contractOptions(rows []model.TransactionWithContract) []model.Contract {
	seen := make(map[string]struct{})
	var out []model.Contract
	for _, r := range rows {
		if r.Contract == nil {
			continue
		}
		if _, ok := seen[r.Contract.Name]; ok {
			continue
		}
		seen[r.Contract.Name] = struct{}{}
		out = append(out, *r.Contract)
	}
	return out
}

// SetContracts registers contracts that rows can be linked to even when no
// loaded transaction references them yet.
func (c *Controller) SetContracts(contracts []model.Contract) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ct := range contracts {
		c.contracts[ct.ID] = ct
	}
}

// ContractOptions returns the contract filter choices.
func (c *Controller) ContractOptions() []model.Contract {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.options)
}

// Contracts returns every known contract ordered by name.
func (c *Controller) Contracts() []model.Contract {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Contract, 0, len(c.contracts))
	for _, ct := range c.contracts {
		out = append(out, ct)
	}
	slices.SortFunc(out, func(a, b model.Contract) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// Len returns the size of the full dataset.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.dataset)
}

// Filtered returns the whole filtered and sorted view.
func (c *Controller) Filtered() []model.TransactionWithContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.filtered)
}

// Rows returns the current page window of the view.
func (c *Controller) Rows() []model.TransactionWithContract {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.visible())
}

func (c *Controller) visible() []model.TransactionWithContract {
	if c.pageSize <= 0 || c.window >= len(c.filtered) {
		return c.filtered
	}
	return c.filtered[:c.window]
}

// Rendered returns the page window as display rows.
func (c *Controller) Rendered() []render.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	vis := c.visible()
	rows := make([]render.Row, len(vis))
	for i, r := range vis {
		_, sel := c.selected[r.Transaction.ID]
		rows[i] = render.BuildRow(r.Transaction, r.Contract, i, render.Flags{Selected: sel, Details: c.details})
	}
	return rows
}

// At resolves a view index through the current view.
func (c *Controller) At(i int) (model.TransactionWithContract, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.filtered) {
		return model.TransactionWithContract{}, false
	}
	return c.filtered[i], true
}

// LoadMore extends the window by one page. It reports whether rows were added.
func (c *Controller) LoadMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pageSize <= 0 || c.window >= len(c.filtered) {
		return false
	}
	c.window += c.pageSize
	return true
}

// HasMore reports whether rows are left outside the window.
func (c *Controller) HasMore() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize > 0 && c.window < len(c.filtered)
}

// ResetWindow collapses the window back to the first page.
func (c *Controller) ResetWindow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = c.pageSize
}

// Bulk reports whether hide and remove act on the selection.
func (c *Controller) Bulk() bool {
	return c.bulk
}

// Strings returns the controller's localized strings.
func (c *Controller) Strings() i18n.Strings {
	return c.strings
}

// Toggle flips the selection of a transaction.
func (c *Controller) Toggle(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
		return
	}
	c.selected[id] = struct{}{}
}

// SelectAll selects every row of the view.
func (c *Controller) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.filtered {
		c.selected[r.Transaction.ID] = struct{}{}
	}
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = make(map[int64]struct{})
}

// IsSelected reports whether id is selected.
func (c *Controller) IsSelected(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// Selected returns the selected ids in ascending order.
func (c *Controller) Selected() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
