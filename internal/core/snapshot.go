package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// SnapshotData is the raw material for a Snapshot, as loaded by a data
// source. It is mutable; Snapshot is not.
type SnapshotData struct {
	UserID             string            `toml:"user_id"`
	TotalIncome        Money             `toml:"total_income"`
	TotalExpenses      Money             `toml:"total_expenses"`
	Balance            Money             `toml:"balance"`
	Categories         []CategorySpend   `toml:"categories"`
	Investments        []Investment      `toml:"investments"`
	SIPContributions   []SIPContribution `toml:"sip_contributions"`
	RecentTransactions []Transaction     `toml:"recent_transactions"`
}

// Snapshot is a read-only view of one user's finances for the current
// month. Accessors return copies.
type Snapshot struct {
	data  SnapshotData
	index map[string]int // canonical category name -> position in data.Categories
}

// NewSnapshot validates d and freezes a copy of it.
func NewSnapshot(d SnapshotData) (Snapshot, error) {
	if strings.TrimSpace(d.UserID) == "" {
		return Snapshot{}, ErrEmptyUserID
	}
	idx := make(map[string]int, len(d.Categories))
	for i, c := range d.Categories {
		if err := c.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("category %d: %w", i, err)
		}
		if _, dup := idx[c.Name]; dup {
			return Snapshot{}, fmt.Errorf("%w: %s", ErrDuplicateCategory, c.Name)
		}
		idx[c.Name] = i
	}
	for i, t := range d.RecentTransactions {
		if err := t.Validate(); err != nil {
			return Snapshot{}, fmt.Errorf("transaction %d: %w", i, err)
		}
	}

	frozen := SnapshotData{
		UserID:             d.UserID,
		TotalIncome:        d.TotalIncome,
		TotalExpenses:      d.TotalExpenses,
		Balance:            d.Balance,
		Categories:         append([]CategorySpend(nil), d.Categories...),
		Investments:        append([]Investment(nil), d.Investments...),
		SIPContributions:   append([]SIPContribution(nil), d.SIPContributions...),
		RecentTransactions: append([]Transaction(nil), d.RecentTransactions...),
	}
	return Snapshot{data: frozen, index: idx}, nil
}

// MustSnapshot is NewSnapshot for fixtures known to be valid.
func MustSnapshot(d SnapshotData) Snapshot {
	s, err := NewSnapshot(d)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Snapshot) UserID() string      { return s.data.UserID }
func (s Snapshot) TotalIncome() Money   { return s.data.TotalIncome }
func (s Snapshot) TotalExpenses() Money { return s.data.TotalExpenses }
func (s Snapshot) Balance() Money       { return s.data.Balance }

func (s Snapshot) Categories() []CategorySpend {
	return append([]CategorySpend(nil), s.data.Categories...)
}

func (s Snapshot) Investments() []Investment {
	return append([]Investment(nil), s.data.Investments...)
}

func (s Snapshot) SIPContributions() []SIPContribution {
	return append([]SIPContribution(nil), s.data.SIPContributions...)
}

func (s Snapshot) RecentTransactions() []Transaction {
	return append([]Transaction(nil), s.data.RecentTransactions...)
}

// Data returns a mutable copy of the underlying data, for storage adapters.
func (s Snapshot) Data() SnapshotData {
	d := s.data
	d.Categories = s.Categories()
	d.Investments = s.Investments()
	d.SIPContributions = s.SIPContributions()
	d.RecentTransactions = s.RecentTransactions()
	return d
}

// Category returns the amount spent on the canonical category name.
func (s Snapshot) Category(name string) (Money, bool) {
	i, ok := s.index[name]
	if !ok {
		return Money{}, false
	}
	return s.data.Categories[i].Amount, true
}

// CategoryNames returns canonical category names in declaration order.
func (s Snapshot) CategoryNames() []string {
	names := make([]string, len(s.data.Categories))
	for i, c := range s.data.Categories {
		names[i] = c.Name
	}
	return names
}

// CategoryTotal is the sum of all category amounts, i.e. total expenses
// this month as far as percentage breakdowns are concerned.
func (s Snapshot) CategoryTotal() Money {
	total := Money{Decimal: decimal.Zero}
	for _, c := range s.data.Categories {
		total = total.Add(c.Amount)
	}
	return total
}

// CategoryShare is amount as a percentage of CategoryTotal. It is 0 when
// nothing was spent.
func (s Snapshot) CategoryShare(amount Money) Percent {
	return PercentOf(amount.Decimal, s.CategoryTotal().Decimal)
}

// HighestCategory returns the category with the largest amount. Ties keep
// the earliest declared category.
func (s Snapshot) HighestCategory() (CategorySpend, bool) {
	if len(s.data.Categories) == 0 {
		return CategorySpend{}, false
	}
	best := s.data.Categories[0]
	for _, c := range s.data.Categories[1:] {
		if c.Amount.GreaterThan(best.Amount.Decimal) {
			best = c
		}
	}
	return best, true
}

// SavingsRate is (income - CategoryTotal) / income * 100. ok is false when
// income is zero and the rate is undefined.
func (s Snapshot) SavingsRate() (rate Percent, ok bool) {
	income := s.data.TotalIncome.Decimal
	if income.IsZero() {
		return Percent{Decimal: decimal.Zero}, false
	}
	return PercentOf(income.Sub(s.CategoryTotal().Decimal), income), true
}
