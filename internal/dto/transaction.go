package dto

import "github.com/shopspring/decimal"

type CreateTransactionRequest struct {
	Description *string          `json:"description" validate:"required,min=1,max=200" example:"Milk"`
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number" example:"-5.50"`
	Date        *string          `json:"date" validate:"required,datetime=2006-01-02" example:"2024-01-10"`
	CategoryID  *int64           `json:"category_id" validate:"required,gt=0" example:"1"`
	Paid        *bool            `json:"paid" example:"false"`
}

type UpdateTransactionRequest struct {
	Description *string          `json:"description" validate:"omitempty,min=1,max=200" example:"Oat milk"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"-6.20"`
	Date        *string          `json:"date" validate:"omitempty,datetime=2006-01-02" example:"2024-01-11"`
	CategoryID  *int64           `json:"category_id" validate:"omitempty,gt=0" example:"1"`
}

type TransactionResponse struct {
	ID           int64   `json:"id" example:"1"`
	Description  string  `json:"description" example:"Milk"`
	Amount       float64 `json:"amount" example:"-5.5"`
	Kind         string  `json:"kind" example:"expense"`
	Date         string  `json:"date" example:"2024-01-10"`
	CategoryID   int64   `json:"category_id" example:"1"`
	CategoryName string  `json:"category_name" example:"Groceries"`
	RecurrenceID string  `json:"recurrence_id,omitempty" example:"8f14e45f-ceea-467f-a0e6-0a1b2c3d4e5f"`
	Paid         bool    `json:"paid" example:"false"`
	PaidAt       string  `json:"paid_at,omitempty" example:"2024-01-10T18:02:11Z"`
	DueStatus    string  `json:"due_status,omitempty" example:"due_in_2_days"`
	CreatedAt    string  `json:"created_at" example:"2024-01-10T09:30:00Z"`
	UpdatedAt    string  `json:"updated_at" example:"2024-01-10T09:30:00Z"`
}

// TransactionQuery is bound from the query string of GET /transactions.
type TransactionQuery struct {
	CategoryID   int64  `query:"category_id" validate:"omitempty,gt=0"`
	From         string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `query:"to" validate:"omitempty,datetime=2006-01-02"`
	Year         int    `query:"year" validate:"omitempty,min=1900,max=9999"`
	Month        int    `query:"month" validate:"omitempty,min=1,max=12"`
	Kind         string `query:"kind" validate:"omitempty,oneof=income expense"`
	Status       string `query:"status" validate:"omitempty,oneof=paid unpaid"`
	RecurrenceID string `query:"recurrence_id" validate:"omitempty,uuid"`
	Limit        int    `query:"limit" validate:"omitempty,min=0,max=1000"`
	Offset       int    `query:"offset" validate:"omitempty,min=0"`
}

type OverviewQuery struct {
	Year  int `query:"year" validate:"required,min=1900,max=9999"`
	Month int `query:"month" validate:"required,min=1,max=12"`
}

type YearRangeResponse struct {
	MinYear int `json:"min_year" example:"2023"`
	MaxYear int `json:"max_year" example:"2024"`
}

type OverviewResponse struct {
	Year     int     `json:"year" example:"2024"`
	Month    int     `json:"month" example:"1"`
	Income   float64 `json:"income" example:"3200"`
	Expenses float64 `json:"expenses" example:"1875.4"`
	Pending  float64 `json:"pending_expenses" example:"420"`
	Balance  float64 `json:"balance" example:"1324.6"`
}

// UpdateStatusRequest marks an expense as paid or unpaid.
type UpdateStatusRequest struct {
	Paid *bool `json:"paid" validate:"required" example:"true"`
}
