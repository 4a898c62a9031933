package model

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Validation errors.
var (
	// ErrInvalidRecord marks a stored or to-be-stored record that fails its schema.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidRequest marks a malformed generation request.
	ErrInvalidRequest = errors.New("invalid request")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("membership", func(fl validator.FieldLevel) bool {
		return MembershipID(fl.Field().String()).IsValid()
	})
	return v
}
