package dto

type CreateCategoryRequest struct {
	Name      *string `json:"name" validate:"required,min=1,max=80" example:"Groceries"`
	IsDefault *bool   `json:"is_default" example:"false"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=80" example:"Supermarket"`
	IsDefault *bool   `json:"is_default" example:"false"`
}

type CategoryResponse struct {
	ID        int64  `json:"id" example:"1"`
	Name      string `json:"name" example:"Groceries"`
	IsDefault bool   `json:"is_default" example:"false"`
}
