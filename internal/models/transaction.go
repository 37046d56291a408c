package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionKind is derived from the sign of the amount: positive amounts are
// income, negative amounts are expenses. Zero is never stored.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

type Transaction struct {
	ID           int64           `db:"id"`
	Description  string          `db:"description"`
	Amount       decimal.Decimal `db:"amount"`
	Date         time.Time       `db:"date"`
	CategoryID   int64           `db:"category_id"`
	CategoryName string          `db:"category_name"` // filled by the join, not stored
	RecurrenceID *uuid.UUID      `db:"recurrence_id"`
	Paid         bool            `db:"paid"`
	PaidAt       *time.Time      `db:"paid_at"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (t *Transaction) Kind() TransactionKind {
	if t.Amount.IsNegative() {
		return KindExpense
	}
	return KindIncome
}

// SetPaid records the payment state of an expense. paidAt is kept only while
// the transaction is paid.
func (t *Transaction) SetPaid(paid bool, paidAt time.Time) {
	t.Paid = paid
	t.PaidAt = nil
	if paid {
		t.PaidAt = &paidAt
	}
}

// TransactionChanges holds the fields of a partial transaction update.
type TransactionChanges struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	CategoryID  *int64
}

func (c TransactionChanges) Empty() bool {
	return c.Description == nil && c.Amount == nil && c.Date == nil && c.CategoryID == nil
}

func (t *Transaction) Apply(ch TransactionChanges) {
	if ch.Description != nil {
		t.Description = *ch.Description
	}
	if ch.Amount != nil {
		t.Amount = *ch.Amount
	}
	if ch.Date != nil {
		t.Date = *ch.Date
	}
	if ch.CategoryID != nil {
		t.CategoryID = *ch.CategoryID
	}
	// income carries no payment state
	if t.Kind() == KindIncome {
		t.Paid = false
		t.PaidAt = nil
	}
}

// PaymentStatus selects expenses by payment state.
type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "paid"
	StatusUnpaid PaymentStatus = "unpaid"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no constraint".
// From and To are inclusive. Status implies expenses only.
type TransactionFilter struct {
	CategoryID   *int64
	From         *time.Time
	To           *time.Time
	Kind         TransactionKind
	Status       PaymentStatus
	RecurrenceID *uuid.UUID
	Limit        uint64
	Offset       uint64
}

type YearRange struct {
	MinYear int
	MaxYear int
}

// Overview totals one month. Expenses counts paid expenses only; unpaid
// ones are reported as Pending and do not reduce the balance.
type Overview struct {
	Year     int
	Month    int
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Pending  decimal.Decimal
}

func (o Overview) Balance() decimal.Decimal {
	return o.Income.Sub(o.Expenses)
}
