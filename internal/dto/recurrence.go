package dto

import "github.com/shopspring/decimal"

type CreateRecurringRequest struct {
	Description *string          `json:"description" validate:"required,min=1,max=200" example:"Rent"`
	Amount      *decimal.Decimal `json:"amount" validate:"required" swaggertype:"number" example:"-1200"`
	Date        *string          `json:"date" validate:"required,datetime=2006-01-02" example:"2024-01-05"`
	CategoryID  *int64           `json:"category_id" validate:"required,gt=0" example:"1"`
	Months      *int             `json:"months" validate:"omitempty,min=1,max=120" example:"12"`
}

type DeletedResponse struct {
	Deleted int64 `json:"deleted" example:"10"`
}
