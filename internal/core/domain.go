package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

type (
	TransactionType string

	// CategorySpend is the amount spent on one canonical category this month.
	CategorySpend struct {
		Name   string `toml:"name"`
		Amount Money  `toml:"amount"`
	}

	Investment struct {
		Name         string `toml:"name"`
		Invested     Money  `toml:"invested"`
		CurrentValue Money  `toml:"current_value"`
	}

	// SIPContribution is a recurring monthly investment plan.
	SIPContribution struct {
		Fund             string `toml:"fund"`
		MonthlyAmount    Money  `toml:"monthly_amount"`
		TotalContributed Money  `toml:"total_contributed"`
	}

	Transaction struct {
		Title    string          `toml:"title"`
		Amount   Money           `toml:"amount"`
		Type     TransactionType `toml:"type"`
		Category string          `toml:"category"`
		Date     time.Time       `toml:"date"`
	}

	// User identifies an authenticated session.
	User struct {
		UserID string
		Name   string
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyUserID        = errors.New("empty user id")
	ErrEmptyCategory      = errors.New("empty category name")
	ErrDuplicateCategory  = errors.New("duplicate category")
	ErrInvalidTransaction = errors.New("invalid transaction type")
)

// UnmarshalText lets seed files and spreadsheet cells carry amounts as
// strings ("8,500", "₹1,200.50").
func (m *Money) UnmarshalText(b []byte) error {
	v, err := ParseAmount(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidTransaction
	}
}

func (c CategorySpend) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if c.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Type.Validate(); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}
