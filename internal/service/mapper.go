package service

import (
	"time"

	"granabox/internal/dto"
	"granabox/internal/models"
)

func toCategoryResponse(c *models.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		IsDefault: c.IsDefault,
	}
}

// toTransactionResponse renders tx with its due status as of today.
func toTransactionResponse(tx *models.Transaction, today time.Time) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:           tx.ID,
		Description:  tx.Description,
		Amount:       tx.Amount.InexactFloat64(),
		Kind:         string(tx.Kind()),
		Date:         tx.Date.Format(models.DateLayout),
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		Paid:         tx.Paid,
		DueStatus:    string(tx.DueStatus(today)),
		CreatedAt:    tx.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    tx.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if tx.RecurrenceID != nil {
		resp.RecurrenceID = tx.RecurrenceID.String()
	}
	if tx.PaidAt != nil {
		resp.PaidAt = tx.PaidAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toTransactionResponses(transactions []*models.Transaction, today time.Time) []dto.TransactionResponse {
	responses := make([]dto.TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, *toTransactionResponse(tx, today))
	}
	return responses
}
