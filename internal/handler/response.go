package handler

import (
	"encoding/json"
	"net/http"
)

// maxBodyBytes caps request bodies; a bulk import of a few thousand
// customers fits comfortably.
const maxBodyBytes = 1 << 20

// Codes produced by the transport itself rather than the services
const (
	CodeInvalidJSON   = "INVALID_JSON"
	CodeInvalidID     = "INVALID_ID"
	CodeInternalError = "INTERNAL_ERROR"

	internalErrorMessage = "An unexpected error occurred"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// decodeJSON reads the request body into dst. On failure it writes an
// INVALID_JSON response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, CodeInvalidJSON, "Invalid JSON format")
		return false
	}
	return true
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// headers are already sent; nothing useful to report on failure
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a standard error response
func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// respondInternalError hides the cause behind a generic message
func respondInternalError(w http.ResponseWriter, code string) {
	respondError(w, http.StatusInternalServerError, code, internalErrorMessage)
}

// respondSuccess writes a 200 OK response
func respondSuccess(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusOK, data)
}

// respondCreated writes a 201 Created response
func respondCreated(w http.ResponseWriter, data any) {
	respondJSON(w, http.StatusCreated, data)
}
