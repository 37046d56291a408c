package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_CollectsAllFields(t *testing.T) {
	verr := &ValidationError{}
	assert.NoError(t, verr.OrNil())

	verr.Add("name", "is required")
	verr.Add("amount", "must not be zero")

	err := verr.OrNil()
	assert.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.True(t, verr.Has("amount"))
	assert.False(t, verr.Has("date"))
	assert.Equal(t, "validation failed: name: is required; amount: must not be zero", err.Error())
}

func TestTaxonomy_SurvivesWrapping(t *testing.T) {
	wrapped := fmt.Errorf("create transaction: %w", &IntegrityError{
		Relation: "transactions.category_id -> categories.id",
		Message:  "category 7 does not exist",
	})
	assert.True(t, IsIntegrity(wrapped))
	assert.False(t, IsNotFound(wrapped))

	nf := fmt.Errorf("get: %w", NotFound("category", int64(3)))
	assert.True(t, IsNotFound(nf))
	assert.Equal(t, "get: category 3 not found", nf.Error())
}

func TestStorageError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Storage("list categories", cause)
	assert.True(t, IsStorage(err))
	assert.ErrorIs(t, err, cause)
}
