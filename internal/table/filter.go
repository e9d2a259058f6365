package table

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/bankdash/internal/format"
	"github.com/Veraticus/bankdash/internal/model"
	"github.com/shopspring/decimal"
)

// Filter is the predicate state of the view. All active predicates must hold
// for a row to be shown.
type Filter struct {
	Start        *time.Time
	End          *time.Time
	Query        string
	ContractName string
	ShowHidden   bool
	OnlyUnlinked bool
}

// Matches reports whether row satisfies every active predicate.
func (f Filter) Matches(row model.TransactionWithContract) bool {
	tx := row.Transaction
	if tx.IsHidden && !f.ShowHidden {
		return false
	}
	if f.OnlyUnlinked && row.Linked() {
		return false
	}
	if f.ContractName != "" && row.ContractName() != f.ContractName {
		return false
	}
	if f.Start != nil && f.End != nil {
		t, ok := tx.Time()
		if !ok {
			return false
		}
		day := dayOf(t)
		if day.Before(dayOf(*f.Start)) || day.After(dayOf(*f.End)) {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		haystack := []string{
			tx.Counterparty,
			format.Date(tx.Date),
			format.Fixed2(tx.Amount),
			row.ContractName(),
		}
		found := false
		for _, h := range haystack {
			if strings.Contains(strings.ToLower(h), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SortKey names a transaction or contract field.
type SortKey string

// Sort keys. Transaction fields are resolved before contract fields.
const (
	SortID                   SortKey = "id"
	SortCounterparty         SortKey = "counterparty"
	SortAmount               SortKey = "amount"
	SortBalance              SortKey = "bank_balance_after"
	SortDate                 SortKey = "date"
	SortHidden               SortKey = "is_hidden"
	SortContractNotAllowed   SortKey = "contract_not_allowed"
	SortContractName         SortKey = "name"
	SortCurrentAmount        SortKey = "current_amount"
	SortMonthsBetweenPayment SortKey = "months_between_payment"
	SortEndDate              SortKey = "end_date"
)

var sortKeys = []SortKey{
	SortID, SortCounterparty, SortAmount, SortBalance, SortDate, SortHidden,
	SortContractNotAllowed, SortContractName, SortCurrentAmount,
	SortMonthsBetweenPayment, SortEndDate,
}

// ParseSortKey validates a sort key.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if !slices.Contains(sortKeys, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
	return k, nil
}

// SortConfig is the sort key and direction.
type SortConfig struct {
	Key       SortKey
	Ascending bool
}

// DefaultSort shows the newest transactions first.
var DefaultSort = SortConfig{Key: SortDate, Ascending: false}

// value extracts the sort value of key from row. nil means the row has no
// value for the key.
func value(row model.TransactionWithContract, key SortKey) any {
	tx := row.Transaction
	switch key {
	case SortID:
		return tx.ID
	case SortCounterparty:
		return tx.Counterparty
	case SortAmount:
		return tx.Amount
	case SortBalance:
		return tx.BankBalanceAfter
	case SortDate:
		if t, ok := tx.Time(); ok {
			return t
		}
		return nil
	case SortHidden:
		return tx.IsHidden
	case SortContractNotAllowed:
		return tx.ContractNotAllowed
	}

	if row.Contract == nil {
		return nil
	}
	c := row.Contract
	switch key {
	case SortContractName:
		return c.Name
	case SortCurrentAmount:
		return c.CurrentAmount
	case SortMonthsBetweenPayment:
		return int64(c.MonthsBetweenPayment)
	case SortEndDate:
		if c.EndDate == nil {
			return nil
		}
		if t, ok := model.ParseDate(*c.EndDate); ok {
			return t
		}
	}
	return nil
}

func compareValues(a, b any) int {
	switch av := a.(type) {
	case int64:
		return cmp.Compare(av, b.(int64))
	case string:
		return strings.Compare(strings.ToLower(av), strings.ToLower(b.(string)))
	case decimal.Decimal:
		return av.Cmp(b.(decimal.Decimal))
	case time.Time:
		return av.Compare(b.(time.Time))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		default:
			return 1
		}
	}
	return 0
}

// sortRows stably sorts rows by cfg. Rows without a value trail in both
// directions.
func sortRows(rows []model.TransactionWithContract, cfg SortConfig) {
	slices.SortStableFunc(rows, func(a, b model.TransactionWithContract) int {
		va, vb := value(a, cfg.Key), value(b, cfg.Key)
		switch {
		case va == nil && vb == nil:
			return 0
		case va == nil:
			return 1
		case vb == nil:
			return -1
		}
		n := compareValues(va, vb)
		if !cfg.Ascending {
			n = -n
		}
		return n
	})
}

// refresh re-derives the view from the dataset. Callers hold the lock.
func (c *Controller) refresh() {
	filtered := make([]model.TransactionWithContract, 0, len(c.dataset))
	for _, r := range c.dataset {
		if c.filter.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	sortRows(filtered, c.sort)
	c.filtered = filtered
}

func (c *Controller) update(fn func(f *Filter)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(&c.filter)
	c.refresh()
	c.window = c.pageSize
}

// SetQuery sets the free text search.
func (c *Controller) SetQuery(text string) {
	c.update(func(f *Filter) { f.Query = strings.TrimSpace(text) })
}

// SetContractFilter limits the view to one contract's rows. "" clears it.
func (c *Controller) SetContractFilter(name string) {
	c.update(func(f *Filter) { f.ContractName = name })
}

// SetDateRange sets the inclusive date range. The range is only applied
// when both bounds are set.
func (c *Controller) SetDateRange(start, end *time.Time) {
	c.update(func(f *Filter) {
		f.Start = start
		f.End = end
	})
}

// SetShowHidden toggles whether hidden rows are shown.
func (c *Controller) SetShowHidden(show bool) {
	c.update(func(f *Filter) { f.ShowHidden = show })
}

// SetOnlyUnlinked limits the view to rows without a contract.
func (c *Controller) SetOnlyUnlinked(only bool) {
	c.update(func(f *Filter) { f.OnlyUnlinked = only })
}

// Filter returns the current predicate state.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SortBy sorts by key. Sorting by the current key again flips the
// direction; a new key starts ascending.
func (c *Controller) SortBy(key SortKey) error {
	if _, err := ParseSortKey(string(key)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sort.Key == key {
		c.sort.Ascending = !c.sort.Ascending
	} else {
		c.sort = SortConfig{Key: key, Ascending: true}
	}
	c.refresh()
	c.window = c.pageSize
	return nil
}

// SetSort sets key and direction directly.
func (c *Controller) SetSort(cfg SortConfig) error {
	if _, err := ParseSortKey(string(cfg.Key)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = cfg
	c.refresh()
	c.window = c.pageSize
	return nil
}

// Sort returns the current sort.
func (c *Controller) Sort() SortConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}
