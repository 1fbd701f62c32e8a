package service

import (
	"errors"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// asAppError passes typed errors through and wraps anything else as an
// opaque storage failure.
func asAppError(op string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return models.StorageFailure(op, err)
}
