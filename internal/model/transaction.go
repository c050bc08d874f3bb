package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one canonical statement row, independent of the bank format.
type Transaction struct {
	Date          time.Time       // calendar date, midnight UTC
	DateText      string          // dd/mm/yyyy
	Payee         string          // counterpart name as written in the statement
	Amount        decimal.Decimal // negative = outflow, positive = inflow
	AmountText    string          // normalized display form, e.g. "-1500.14"
	Category      string          // empty until categorized
	Memo          string          // free-text message
	TargetAccount string          // counterpart account description, format-dependent
}

// IsOutflow reports whether money left the account.
func (t Transaction) IsOutflow() bool {
	return t.Amount.IsNegative()
}
