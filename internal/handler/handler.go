// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/nonnoweb/nonnoweb/internal/handler/dto"
)

// Version is reported by the service info endpoint.
const Version = "1.0.0"

// Handler serves the service-level endpoints.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello reports service info.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"message": "Hello from NonnoWeb!",
		"version": Version,
	}
	writeJSON(w, http.StatusOK, response)
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already sent; an encode error can only be a
	// broken connection.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: dto.ErrorDetail{Code: code, Message: message},
	})
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// errBadRequestBody is returned by decodeJSON when the body was written
// back as an error response.
var errBadRequestBody = errors.New("bad request body")

// decodeJSON decodes and validates the request body. On failure it writes
// the error response itself.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeBody(w, r, dst); err != nil {
		return err
	}

	if err := validate.Struct(dst); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			writeError(w, http.StatusBadRequest, "INVALID_REQUEST",
				fmt.Sprintf("Invalid field %s", invalid[0].Field()))
			return errBadRequestBody
		}
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return errBadRequestBody
	}
	return nil
}

// decodeBody decodes the request body without validating it.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
			return errBadRequestBody
		}
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return errBadRequestBody
	}

	return nil
}
