// Package dashboard holds the performance figures and balance graph of the
// dashboard and bank pages.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/model"
	"golang.org/x/sync/errgroup"
)

// Fetcher loads dashboard data. *api.Client satisfies it.
type Fetcher interface {
	Fragment(ctx context.Context, path string) (string, error)
	GraphDataForCurrent(ctx context.Context) (api.Performance, error)
	UpdateDateRange(ctx context.Context, start, end time.Time) (api.Performance, error)
}

// Dashboard is the state of the performance panel and graph.
type Dashboard struct {
	fetcher     Fetcher
	performance *model.PerformanceValue
	bank        *model.Bank
	fragment    string
	graph       []model.GraphTrace
	gen         uint64
	bankScoped  bool
	mu          sync.Mutex
}

// New creates an empty dashboard.
func New(f Fetcher) *Dashboard {
	return &Dashboard{fetcher: f}
}

// LoadGraph installs the traces of a graph data island.
func (d *Dashboard) LoadGraph(raw []byte) error {
	var traces api.GraphData
	if err := json.Unmarshal(raw, &traces); err != nil {
		return fmt.Errorf("%w: graph data: %v", common.ErrMalformedData, err)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.graph = traces
	return nil
}

func (d *Dashboard) begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	return d.gen
}

// apply installs p if gen is still the newest request.
func (d *Dashboard) apply(gen uint64, p api.Performance) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return common.ErrSuperseded
	}
	d.performance = p.PerformanceValue
	d.graph = p.GraphData
	if p.Bank != nil {
		d.bank = p.Bank
	}
	return nil
}

// SetBankScope records whether the backend has a bank selected. GET
// /dashboard clears the selection, so a scoped dashboard never fetches it.
func (d *Dashboard) SetBankScope(scoped bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bankScoped = scoped
}

// BankScoped reports whether the figures belong to the selected bank.
func (d *Dashboard) BankScoped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bankScoped
}

// SetFragment stores a dashboard fragment fetched elsewhere.
func (d *Dashboard) SetFragment(fragment string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fragment = fragment
}

// RefreshGraph fetches the figures and graph of the current selection.
func (d *Dashboard) RefreshGraph(ctx context.Context) error {
	gen := d.begin()
	perf, err := d.fetcher.GraphDataForCurrent(ctx)
	if err != nil {
		return err
	}
	return d.apply(gen, perf)
}

// Refresh reloads the graph data. Without a selected bank the all banks
// fragment is fetched concurrently.
func (d *Dashboard) Refresh(ctx context.Context) error {
	if d.BankScoped() {
		return d.RefreshGraph(ctx)
	}
	gen := d.begin()

	var (
		fragment string
		perf     api.Performance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fragment, err = d.fetcher.Fragment(gctx, api.PathDashboard)
		return err
	})
	g.Go(func() error {
		var err error
		perf, err = d.fetcher.GraphDataForCurrent(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := d.apply(gen, perf); err != nil {
		return err
	}
	d.SetFragment(fragment)
	return nil
}

// UpdateDateRange recomputes the figures and graph for [start, end].
func (d *Dashboard) UpdateDateRange(ctx context.Context, start, end time.Time) error {
	gen := d.begin()
	perf, err := d.fetcher.UpdateDateRange(ctx, start, end)
	if err != nil {
		return err
	}
	return d.apply(gen, perf)
}

// Performance returns the current figures, nil before the first load.
func (d *Dashboard) Performance() *model.PerformanceValue {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.performance
}

// Graph returns the balance traces.
func (d *Dashboard) Graph() []model.GraphTrace {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.graph)
}

// Bank returns the bank the figures belong to, nil for all banks.
func (d *Dashboard) Bank() *model.Bank {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bank
}

// Fragment returns the last fetched dashboard fragment.
func (d *Dashboard) Fragment() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fragment
}
