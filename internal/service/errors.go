package service

import (
	"errors"
	"fmt"

	"granabox/internal/apperr"
	"granabox/internal/repository"

	"go.uber.org/zap"
)

// categoryRelation names the reference that ties transactions to categories.
const categoryRelation = "transactions.category_id -> categories.id"

func missingCategory(id int64) *apperr.IntegrityError {
	return &apperr.IntegrityError{
		Relation: categoryRelation,
		Message:  fmt.Sprintf("category %d does not exist", id),
	}
}

func categoryInUse(id int64) *apperr.IntegrityError {
	return &apperr.IntegrityError{
		Relation: categoryRelation,
		Message:  fmt.Sprintf("category %d is still referenced by transactions", id),
	}
}

func categoryNotFound(id int64) *apperr.NotFoundError {
	return apperr.NotFound("category", id)
}

func transactionNotFound(id int64) *apperr.NotFoundError {
	return apperr.NotFound("transaction", id)
}

func duplicateName(name string) *apperr.ValidationError {
	return apperr.NewValidationError("name", fmt.Sprintf("category %q already exists", name))
}

// storageError passes errors of the application taxonomy through and wraps
// anything else as a StorageError after logging it.
func storageError(logger *zap.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if apperr.IsValidation(err) || apperr.IsNotFound(err) || apperr.IsIntegrity(err) || apperr.IsStorage(err) {
		return err
	}
	logger.Error("Storage operation failed", zap.String("op", op), zap.Error(err))
	return apperr.Storage(op, err)
}

func incomeHasNoStatus() *apperr.ValidationError {
	return apperr.NewValidationError("paid", "only expenses have a payment status")
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
