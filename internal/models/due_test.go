package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDueStatus(t *testing.T) {
	today := date("2024-03-10")
	tests := []struct {
		date string
		want DueStatus
	}{
		{"2024-03-01", DueOverdue},
		{"2024-03-09", DueOverdue},
		{"2024-03-10", DueToday},
		{"2024-03-11", DueTomorrow},
		{"2024-03-12", "due_in_2_days"},
		{"2024-03-13", "due_in_3_days"},
		{"2024-03-14", DueUpcoming},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			tx := Transaction{Amount: decimal.NewFromInt(-50), Date: date(tt.date)}
			assert.Equal(t, tt.want, tx.DueStatus(today))
		})
	}
}

func TestDueStatus_PaidAndIncome(t *testing.T) {
	today := date("2024-03-10")

	paid := Transaction{Amount: decimal.NewFromInt(-50), Date: date("2024-01-01"), Paid: true}
	assert.Equal(t, DuePaid, paid.DueStatus(today))

	income := Transaction{Amount: decimal.NewFromInt(3000), Date: date("2024-01-01")}
	assert.Equal(t, DueStatus(""), income.DueStatus(today))
}

func TestToday_UsesLocation(t *testing.T) {
	now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*60*60)
	saoPaulo := time.FixedZone("BRT", -3*60*60)

	assert.Equal(t, "2024-03-10", Today(now, time.UTC).Format(DateLayout))
	assert.Equal(t, "2024-03-11", Today(now, tokyo).Format(DateLayout))
	assert.Equal(t, "2024-03-10", Today(now, saoPaulo).Format(DateLayout))
}

func TestSetPaidAndIncomeClearsPayment(t *testing.T) {
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	tx := Transaction{Amount: decimal.NewFromInt(-80)}

	tx.SetPaid(true, at)
	assert.True(t, tx.Paid)
	assert.Equal(t, &at, tx.PaidAt)

	amount := decimal.NewFromInt(80)
	tx.Apply(TransactionChanges{Amount: &amount})
	assert.False(t, tx.Paid)
	assert.Nil(t, tx.PaidAt)

	tx.SetPaid(false, at)
	assert.Nil(t, tx.PaidAt)
}
