// Package banks holds the bank navigation tree and the add, upload and delete
// bank actions.
package banks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/Veraticus/bankdash/internal/alert"
	"github.com/Veraticus/bankdash/internal/api"
	"github.com/Veraticus/bankdash/internal/common"
	"github.com/Veraticus/bankdash/internal/i18n"
	"github.com/Veraticus/bankdash/internal/model"
)

// Bank errors.
var (
	ErrEmptyName   = errors.New("bank name must not be empty")
	ErrCSVTooLarge = fmt.Errorf("csv file exceeds %d bytes", api.MaxCSVSize)
)

// csvReadHeaders are the success headers after which the graph is stale.
var csvReadHeaders = []string{
	"Successfully read the CSV file",
	"CSV-Datei erfolgreich gelesen",
	"Succesfully parsed the CSV file",
}

// Actions are the backend calls of the bank forms. *api.Client satisfies it.
type Actions interface {
	AddBank(ctx context.Context, f api.AddBankForm) (api.AddBankResult, error)
	UploadCSV(ctx context.Context, csv io.Reader) (api.Envelope, error)
	DeleteBank(ctx context.Context) (api.Envelope, error)
}

// Entry is one navigation button.
type Entry struct {
	Label string
	Path  string
}

// Node is a bank with its sub pages. Sub entries are only listed for the
// expanded bank.
type Node struct {
	Entry
	Sub      []Entry
	ID       int64
	Expanded bool
}

// Tree is the ordered list of banks with at most one expanded bank. It is safe
// for concurrent use.
type Tree struct {
	actions  Actions
	expanded *int64
	banks    []model.Bank
	mu       sync.Mutex
}

// New creates a tree with the given banks.
func New(actions Actions, banks ...model.Bank) *Tree {
	t := &Tree{actions: actions}
	t.Merge(banks)
	return t
}

// Path returns the page of a bank.
func Path(id int64) string {
	return "/bank/" + strconv.FormatInt(id, 10)
}

// Merge adds the banks that are not in the tree yet. Known ids are left as
// they are and the order of the tree is kept.
func (t *Tree) Merge(banks []model.Bank) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	added := 0
	for _, b := range banks {
		if t.indexOf(b.ID) >= 0 {
			continue
		}
		t.banks = append(t.banks, b)
		added++
	}
	return added
}

func (t *Tree) indexOf(id int64) int {
	return slices.IndexFunc(t.banks, func(b model.Bank) bool { return b.ID == id })
}

// Banks returns the banks in tree order.
func (t *Tree) Banks() []model.Bank {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.banks)
}

// Len returns the number of banks.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.banks)
}

// Expand shows the sub pages of bank id. A nil id collapses the tree, as
// every page that is not a bank page does.
func (t *Tree) Expand(id *int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id == nil || t.indexOf(*id) < 0 {
		t.expanded = nil
		return
	}
	v := *id
	t.expanded = &v
}

// Expanded returns the expanded bank.
func (t *Tree) Expanded() (model.Bank, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.expanded == nil {
		return model.Bank{}, false
	}
	return t.banks[t.indexOf(*t.expanded)], true
}

// Nodes returns the navigation entries of the tree.
func (t *Tree) Nodes() []Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	nodes := make([]Node, len(t.banks))
	for i, b := range t.banks {
		nodes[i] = Node{
			Entry: Entry{Label: b.Name, Path: Path(b.ID)},
			ID:    b.ID,
		}
		if t.expanded != nil && *t.expanded == b.ID {
			nodes[i].Expanded = true
			nodes[i].Sub = []Entry{
				{Label: "Contract", Path: api.PathContracts},
				{Label: "Transaction", Path: api.PathTransactions},
			}
		}
	}
	return nodes
}

// AddResult is the outcome of the add bank form.
type AddResult struct {
	Envelope api.Envelope
	Added    int
}

// Add submits the add bank form and merges the returned banks.
func (t *Tree) Add(ctx context.Context, f api.AddBankForm) (AddResult, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Link = strings.TrimSpace(f.Link)
	if f.Name == "" {
		return AddResult{}, ErrEmptyName
	}

	res, err := t.actions.AddBank(ctx, f)
	// Banks are merged even when the backend reports an error.
	added := t.Merge(res.Banks)
	if err != nil {
		return AddResult{Envelope: res.Envelope, Added: added}, err
	}
	slog.Info("Bank added", "name", f.Name, "new_banks", added)
	return AddResult{Envelope: res.Envelope, Added: added}, nil
}

// Upload sends a CSV statement for the expanded bank. The second result
// reports whether the graph data has to be reloaded.
func (t *Tree) Upload(ctx context.Context, csv io.Reader) (api.Envelope, bool, error) {
	data, err := io.ReadAll(io.LimitReader(csv, api.MaxCSVSize+1))
	if err != nil {
		return api.Envelope{}, false, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(data) > api.MaxCSVSize {
		return api.Envelope{}, false, common.NewUserError(
			fmt.Sprintf("The CSV file must not be larger than %d KiB.", api.MaxCSVSize>>10), ErrCSVTooLarge)
	}

	env, err := t.actions.UploadCSV(ctx, bytes.NewReader(data))
	if err != nil {
		return env, false, err
	}
	return env, RefreshesGraph(env), nil
}

// RefreshesGraph reports whether a form result means new transactions were
// read.
func RefreshesGraph(env api.Envelope) bool {
	return env.Success != nil && slices.Contains(csvReadHeaders, env.HeaderText())
}

// Delete asks for confirmation and deletes the expanded bank. It returns
// alert.ErrCanceled when the user declines.
func (t *Tree) Delete(ctx context.Context, p alert.Presenter, s i18n.Strings) (api.Envelope, error) {
	ok, err := p.Confirm(ctx, alert.DeleteBank(s))
	if err != nil {
		return api.Envelope{}, err
	}
	if !ok {
		return api.Envelope{}, alert.ErrCanceled
	}

	env, err := t.actions.DeleteBank(ctx)
	if err != nil {
		return env, err
	}

	t.mu.Lock()
	if t.expanded != nil {
		i := t.indexOf(*t.expanded)
		if i >= 0 {
			t.banks = slices.Delete(t.banks, i, i+1)
		}
		t.expanded = nil
	}
	t.mu.Unlock()
	return env, nil
}
