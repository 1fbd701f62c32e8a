package models

import (
	"errors"
	"fmt"
)

// Common error types
var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")
	ErrConflict      = errors.New("operation conflicts with current state")
	ErrInvalid       = errors.New("invalid input")
)

// Business rule violations
var (
	ErrEmailTaken        = errors.New("email already exists")
	ErrInvalidPhone      = errors.New("invalid phone format")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStock      = errors.New("stock cannot be negative")
	ErrCustomerNotFound  = errors.New("invalid customer ID")
	ErrEmptyProductList  = errors.New("at least one product must be selected")
	ErrInvalidProductIDs = errors.New("one or more invalid product IDs")
	ErrStorageFailure    = errors.New("storage failure")
)

// Error codes carried by AppError
const (
	CodeInvalidInput      = "INVALID_INPUT"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeEmailTaken        = "EMAIL_TAKEN"
	CodeInvalidPhone      = "INVALID_PHONE"
	CodeInvalidPrice      = "INVALID_PRICE"
	CodeInvalidStock      = "INVALID_STOCK"
	CodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	CodeEmptyProductList  = "EMPTY_PRODUCT_LIST"
	CodeInvalidProductIDs = "INVALID_PRODUCT_IDS"
	CodeStorageFailure    = "STORAGE_FAILURE"
)

// AppError represents an application-level error with context
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Code == CodeStorageFailure {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ErrInvalidInput creates a validation error
func ErrInvalidInput(message string) error {
	return &AppError{
		Code:    CodeInvalidInput,
		Message: message,
		Err:     ErrInvalid,
	}
}

// ErrNotFoundWithMsg creates a not found error with custom message
func ErrNotFoundWithMsg(message string) error {
	return &AppError{
		Code:    CodeNotFound,
		Message: message,
		Err:     ErrNotFound,
	}
}

// EmailTaken reports that a customer with the given email already exists.
func EmailTaken(email string) error {
	return &AppError{
		Code:    CodeEmailTaken,
		Message: fmt.Sprintf("Email already exists: %s", email),
		Err:     ErrEmailTaken,
	}
}

// InvalidPhone reports a phone number matching neither accepted shape.
func InvalidPhone(phone string) error {
	return &AppError{
		Code:    CodeInvalidPhone,
		Message: fmt.Sprintf("Invalid phone: %s. Use +1234567890 or 123-456-7890", phone),
		Err:     ErrInvalidPhone,
	}
}

// InvalidPrice reports a non-positive price.
func InvalidPrice() error {
	return &AppError{
		Code:    CodeInvalidPrice,
		Message: "Price must be positive",
		Err:     ErrInvalidPrice,
	}
}

// InvalidPriceFormat reports a price with more than two decimal places or
// one too large to store.
func InvalidPriceFormat(price string) error {
	return &AppError{
		Code:    CodeInvalidPrice,
		Message: fmt.Sprintf("Invalid price: %s. Use at most 2 decimal places and stay below 100000000", price),
		Err:     ErrInvalidPrice,
	}
}

// StockTooLarge reports a stock level beyond the storable range.
func StockTooLarge(stock int) error {
	return &AppError{
		Code:    CodeInvalidStock,
		Message: fmt.Sprintf("Stock too large: %d", stock),
		Err:     ErrInvalidStock,
	}
}

// InvalidStock reports a negative stock level.
func InvalidStock() error {
	return &AppError{
		Code:    CodeInvalidStock,
		Message: "Stock cannot be negative",
		Err:     ErrInvalidStock,
	}
}

// CustomerNotFound reports an order referencing an unknown customer.
func CustomerNotFound(id int64) error {
	return &AppError{
		Code:    CodeCustomerNotFound,
		Message: fmt.Sprintf("Invalid customer ID: %d", id),
		Err:     ErrCustomerNotFound,
	}
}

// EmptyProductList reports an order request without products.
func EmptyProductList() error {
	return &AppError{
		Code:    CodeEmptyProductList,
		Message: "At least one product must be selected",
		Err:     ErrEmptyProductList,
	}
}

// InvalidProductIDs reports an order request naming unknown or repeated products.
func InvalidProductIDs() error {
	return &AppError{
		Code:    CodeInvalidProductIDs,
		Message: "One or more invalid product IDs",
		Err:     ErrInvalidProductIDs,
	}
}

// StorageFailure wraps a persistence error. Both ErrStorageFailure and the
// cause stay reachable through errors.Is.
func StorageFailure(op string, err error) error {
	return &AppError{
		Code:    CodeStorageFailure,
		Message: op,
		Err:     fmt.Errorf("%w: %w", ErrStorageFailure, err),
	}
}

// IsStorageFailure reports whether err is an opaque persistence error.
func IsStorageFailure(err error) bool {
	return errors.Is(err, ErrStorageFailure)
}
