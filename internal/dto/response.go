package dto

// DataResponse is the success envelope of every endpoint that returns a body.
type DataResponse struct {
	Data  any  `json:"data"`
	Count *int `json:"count,omitempty"`
}

func Data(v any) DataResponse {
	return DataResponse{Data: v}
}

func List[T any](items []T) DataResponse {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return DataResponse{Data: items, Count: &n}
}

type FieldError struct {
	Field   string `json:"field" example:"name"`
	Message string `json:"message" example:"is required"`
}

type ErrorBody struct {
	Type     string       `json:"type" example:"validation_error"`
	Message  string       `json:"message" example:"validation failed: name: is required"`
	Fields   []FieldError `json:"fields,omitempty"`
	Relation string       `json:"relation,omitempty" example:"transactions.category_id -> categories.id"`
}

// ErrorResponse is the failure envelope of every endpoint.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
