package handlers

import (
	"context"

	"granabox/internal/dto"
	"granabox/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RecurrenceService interface {
	Create(ctx context.Context, req *dto.CreateRecurringRequest) ([]dto.TransactionResponse, error)
	List(ctx context.Context, recurrenceID string) ([]dto.TransactionResponse, error)
	UpdateFrom(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) ([]dto.TransactionResponse, error)
	DeleteFrom(ctx context.Context, id int64) (*dto.DeletedResponse, error)
}

type RecurrenceHandler struct {
	recurrenceService RecurrenceService
	logger            *zap.Logger
}

func NewRecurrenceHandler(recurrenceService RecurrenceService, logger *zap.Logger) *RecurrenceHandler {
	return &RecurrenceHandler{
		recurrenceService: recurrenceService,
		logger:            logger,
	}
}

// Create godoc
// @Summary Create a monthly series
// @Description Creates one transaction per month (12 by default) sharing a recurrence_id
// @Tags recurrences
// @Accept json
// @Produce json
// @Param request body dto.CreateRecurringRequest true "Series"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Success 201 {object} dto.DataResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /recurrences [post]
func (h *RecurrenceHandler) Create(c *fiber.Ctx) error {
	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateRecurringRequest
	if err := bindBody(c, &req, func() error {
		_, _, err := validation.NewSeries(req)
		return err
	}); err != nil {
		return err
	}

	items, err := h.recurrenceService.Create(ctx, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.List(items))
}

// List godoc
// @Summary List a series
// @Tags recurrences
// @Produce json
// @Param recurrenceId path string true "Series ID"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Success 200 {object} dto.DataResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /recurrences/{recurrenceId} [get]
func (h *RecurrenceHandler) List(c *fiber.Ctx) error {
	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	items, err := h.recurrenceService.List(ctx, c.Params("recurrenceId"))
	if err != nil {
		return err
	}
	return c.JSON(dto.List(items))
}

// UpdateFrom godoc
// @Summary Update a series from a transaction on
// @Description Applies the changes to the transaction and every later item of its series
// @Tags recurrences
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Success 200 {object} dto.DataResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /transactions/{id}/series [put]
func (h *RecurrenceHandler) UpdateFrom(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTransactionRequest
	if err := bindBody(c, &req, func() error {
		_, err := validation.SeriesChanges(req)
		return err
	}); err != nil {
		return err
	}

	items, err := h.recurrenceService.UpdateFrom(ctx, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.List(items))
}

// DeleteFrom godoc
// @Summary Delete a series from a transaction on
// @Tags recurrences
// @Produce json
// @Param id path int true "Transaction ID"
// @Success 200 {object} dto.DataResponse{data=dto.DeletedResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id}/series [delete]
func (h *RecurrenceHandler) DeleteFrom(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	deleted, err := h.recurrenceService.DeleteFrom(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(deleted))
}
