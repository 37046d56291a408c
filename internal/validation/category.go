package validation

import (
	"granabox/internal/apperr"
	"granabox/internal/dto"
	"granabox/internal/models"
)

// NewCategory validates a create payload.
func NewCategory(req dto.CreateCategoryRequest) (models.Category, error) {
	req.Name = trimmed(req.Name)

	verr := &apperr.ValidationError{}
	check(req, verr)
	if err := verr.OrNil(); err != nil {
		return models.Category{}, err
	}

	return models.Category{
		Name:      *req.Name,
		IsDefault: req.IsDefault != nil && *req.IsDefault,
	}, nil
}

// CategoryChanges validates a partial update payload.
func CategoryChanges(req dto.UpdateCategoryRequest) (models.CategoryChanges, error) {
	req.Name = trimmed(req.Name)

	verr := &apperr.ValidationError{}
	check(req, verr)
	if req.Name != nil && *req.Name == "" && !verr.Has("name") {
		verr.Add("name", "must not be empty")
	}
	if err := verr.OrNil(); err != nil {
		return models.CategoryChanges{}, err
	}

	return models.CategoryChanges{Name: req.Name, IsDefault: req.IsDefault}, nil
}
