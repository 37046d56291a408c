package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2024-01-10", 0, "2024-01-10"},
		{"2024-01-10", 1, "2024-02-10"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-01-31", 2, "2024-03-31"},
		{"2024-08-31", 1, "2024-09-30"},
		{"2024-11-15", 3, "2025-02-15"},
		{"2024-12-31", 14, "2026-02-28"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := AddMonths(date(tt.start), tt.n)
			assert.Equal(t, tt.want, got.Format(DateLayout))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(2024, 2)
	assert.Equal(t, "2024-02-01", first.Format(DateLayout))
	assert.Equal(t, "2024-02-29", last.Format(DateLayout))

	first, last = MonthBounds(2023, 12)
	assert.Equal(t, "2023-12-01", first.Format(DateLayout))
	assert.Equal(t, "2023-12-31", last.Format(DateLayout))
}

func TestTransactionKind(t *testing.T) {
	tx := Transaction{Amount: decimal.RequireFromString("-5.50")}
	assert.Equal(t, KindExpense, tx.Kind())

	tx.Amount = decimal.RequireFromString("1200")
	assert.Equal(t, KindIncome, tx.Kind())
}

func TestTransactionApply(t *testing.T) {
	tx := Transaction{Description: "Milk", Amount: decimal.RequireFromString("-5.50"), CategoryID: 1}
	desc := "Oat milk"
	cat := int64(2)
	tx.Apply(TransactionChanges{Description: &desc, CategoryID: &cat})

	assert.Equal(t, "Oat milk", tx.Description)
	assert.Equal(t, int64(2), tx.CategoryID)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("-5.5")))
	assert.True(t, TransactionChanges{}.Empty())
}
