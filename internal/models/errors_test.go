package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		code     string
	}{
		{"email taken", EmailTaken("a@example.com"), ErrEmailTaken, CodeEmailTaken},
		{"invalid phone", InvalidPhone("12345"), ErrInvalidPhone, CodeInvalidPhone},
		{"invalid price", InvalidPrice(), ErrInvalidPrice, CodeInvalidPrice},
		{"price format", InvalidPriceFormat("0.001"), ErrInvalidPrice, CodeInvalidPrice},
		{"invalid stock", InvalidStock(), ErrInvalidStock, CodeInvalidStock},
		{"stock too large", StockTooLarge(1 << 40), ErrInvalidStock, CodeInvalidStock},
		{"customer not found", CustomerNotFound(7), ErrCustomerNotFound, CodeCustomerNotFound},
		{"empty product list", EmptyProductList(), ErrEmptyProductList, CodeEmptyProductList},
		{"invalid product ids", InvalidProductIDs(), ErrInvalidProductIDs, CodeInvalidProductIDs},
		{"not found", ErrNotFoundWithMsg("missing"), ErrNotFound, CodeNotFound},
		{"invalid input", ErrInvalidInput("name is required"), ErrInvalid, CodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)

			var appErr *AppError
			require.ErrorAs(t, tt.err, &appErr)
			assert.Equal(t, tt.code, appErr.Code)
			assert.False(t, IsStorageFailure(tt.err))
		})
	}
}

func TestAppError_Messages(t *testing.T) {
	assert.Equal(t, "Email already exists: a@example.com", EmailTaken("a@example.com").Error())
	assert.Equal(t, "Invalid customer ID: 42", CustomerNotFound(42).Error())
}

func TestStorageFailure_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := StorageFailure("failed to create customer", cause)

	assert.True(t, IsStorageFailure(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to create customer")
	assert.Contains(t, err.Error(), "connection reset")

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsStorageFailure(wrapped))
}
