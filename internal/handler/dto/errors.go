// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable code and a message fit for the user.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
