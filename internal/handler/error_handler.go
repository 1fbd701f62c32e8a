package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	// Check for custom AppError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status == http.StatusInternalServerError {
			logger.Error("internal server error",
				slog.String("code", appErr.Code),
				slog.String("error", err.Error()),
			)
			respondInternalError(w, appErr.Code)
			return
		}
		respondError(w, status, appErr.Code, appErr.Message)
		return
	}

	// Check for common errors
	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, models.CodeNotFound, err.Error())

	case errors.Is(err, models.ErrConflict):
		respondError(w, http.StatusConflict, models.CodeConflict, err.Error())

	default:
		// Log internal errors but don't expose details to client
		logger.Error("internal server error",
			slog.String("error", err.Error()),
		)
		respondInternalError(w, CodeInternalError)
	}
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case models.CodeInvalidInput,
		models.CodeInvalidPhone,
		models.CodeInvalidPrice,
		models.CodeInvalidStock,
		models.CodeEmptyProductList,
		models.CodeInvalidProductIDs:
		return http.StatusBadRequest
	case models.CodeNotFound, models.CodeCustomerNotFound:
		return http.StatusNotFound
	case models.CodeConflict, models.CodeEmailTaken:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
