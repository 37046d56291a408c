package handlers

import (
	"context"

	"granabox/internal/dto"
	"granabox/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type TransactionService interface {
	Create(ctx context.Context, req *dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	List(ctx context.Context, query *dto.TransactionQuery) ([]dto.TransactionResponse, error)
	Get(ctx context.Context, id int64) (*dto.TransactionResponse, error)
	Update(ctx context.Context, id int64, req *dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	Delete(ctx context.Context, id int64) error
	Years(ctx context.Context) (*dto.YearRangeResponse, error)
	Overview(ctx context.Context, query *dto.OverviewQuery) (*dto.OverviewResponse, error)
	SetStatus(ctx context.Context, id int64, req *dto.UpdateStatusRequest) (*dto.TransactionResponse, error)
}

type TransactionHandler struct {
	txService TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// Create godoc
// @Summary Create a transaction
// @Description Positive amounts are income, negative amounts are expenses
// @Tags transactions
// @Accept json
// @Produce json
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.DataResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	var req dto.CreateTransactionRequest
	if err := bindBody(c, &req, func() error {
		_, err := validation.NewTransaction(req)
		return err
	}); err != nil {
		return err
	}

	tx, err := h.txService.Create(ctx, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Data(tx))
}

// List godoc
// @Summary List transactions
// @Description Ordered by id. year/month narrow the from/to range.
// @Tags transactions
// @Produce json
// @Param category_id query int false "Category ID"
// @Param from query string false "First date, YYYY-MM-DD"
// @Param to query string false "Last date, YYYY-MM-DD"
// @Param year query int false "Year"
// @Param month query int false "Month, requires year"
// @Param kind query string false "income or expense"
// @Param status query string false "paid or unpaid, expenses only"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Param recurrence_id query string false "Series ID"
// @Param limit query int false "Limit, 0 for all" default(0)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} dto.DataResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	var query dto.TransactionQuery
	if err := parseQuery(c, &query); err != nil {
		return err
	}

	transactions, err := h.txService.List(ctx, &query)
	if err != nil {
		return err
	}
	return c.JSON(dto.List(transactions))
}

// Years godoc
// @Summary First and last year with transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} dto.DataResponse{data=dto.YearRangeResponse}
// @Router /transactions/years [get]
func (h *TransactionHandler) Years(c *fiber.Ctx) error {
	years, err := h.txService.Years(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(years))
}

// Overview godoc
// @Summary Monthly income, expenses and balance
// @Description Only paid expenses reduce the balance. Unpaid ones are reported as pending_expenses.
// @Tags transactions
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month"
// @Success 200 {object} dto.DataResponse{data=dto.OverviewResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /transactions/overview [get]
func (h *TransactionHandler) Overview(c *fiber.Ctx) error {
	var query dto.OverviewQuery
	if err := parseQuery(c, &query); err != nil {
		return err
	}

	overview, err := h.txService.Overview(c.Context(), &query)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(overview))
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path int true "Transaction ID"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Success 200 {object} dto.DataResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	tx, err := h.txService.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(tx))
}

// Update godoc
// @Summary Update a transaction
// @Description Partial update, absent fields are left untouched. Served for PUT and PATCH.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} dto.DataResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /transactions/{id} [put]
// @Router /transactions/{id} [patch]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
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
		_, err := validation.TransactionChanges(req)
		return err
	}); err != nil {
		return err
	}

	tx, err := h.txService.Update(ctx, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(tx))
}

// Status godoc
// @Summary Mark an expense as paid or unpaid
// @Description Income has no payment status. Paying stamps paid_at.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path int true "Transaction ID"
// @Param TimeZone header string false "IANA time zone for due_status" default(UTC)
// @Param request body dto.UpdateStatusRequest true "Payment status"
// @Success 200 {object} dto.DataResponse{data=dto.TransactionResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id}/status [patch]
func (h *TransactionHandler) Status(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx, err := requestContext(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := bindBody(c, &req, func() error {
		_, err := validation.PaymentStatus(req)
		return err
	}); err != nil {
		return err
	}

	tx, err := h.txService.SetStatus(ctx, id, &req)
	if err != nil {
		return err
	}
	return c.JSON(dto.Data(tx))
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Param id path int true "Transaction ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.txService.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
