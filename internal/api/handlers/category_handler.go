package handlers

import (
	"context"

	"granabox/internal/dto"
	"granabox/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryService interface {
	Create(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, id int64) (*dto.CategoryResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
}

type CategoryHandler struct {
	categoryService CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create a category
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} dto.DataResponse{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := bindBody(c, &req, func() error {
		_, err := validation.NewCategory(req)
		return err
	}); err != nil {
		return err
	}

	category, err := h.categoryService.Create(c.Context(), &req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.Data(category))
}

// List godoc
// @Summary List categories
// @Description All categories ordered by id
// @Tags categories
// @Produce json
// @Success 200 {object} dto.DataResponse{data=[]dto.CategoryResponse}
// @Router /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	categories, err := h.categoryService.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.List(categories))
}

// Get godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} dto.DataResponse{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [get]
func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	category, err := h.categoryService.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(category))
}

// Update godoc
// @Summary Update a category
// @Description Partial update, absent fields are left untouched. Served for PUT and PATCH.
// @Tags categories
// @Accept json
// @Produce json
// @Param id path int true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Success 200 {object} dto.DataResponse{data=dto.CategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [put]
// @Router /categories/{id} [patch]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateCategoryRequest
	if err := bindBody(c, &req, func() error {
		_, err := validation.CategoryChanges(req)
		return err
	}); err != nil {
		return err
	}

	category, err := h.categoryService.Update(c.Context(), id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(category))
}

// Delete godoc
// @Summary Delete a category
// @Description Refused with 409 while transactions still reference the category
// @Tags categories
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.categoryService.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
