package service

import (
	"net/http"

	"github.com/smallbiznis/orgspace-auth/internal/validation"
)

// Error is an expected request failure the HTTP layer maps straight onto the
// response envelope.
type Error struct {
	Status  string
	Message string
	Code    int
}

func (e *Error) Error() string {
	return e.Message
}

func newError(status, message string, code int) *Error {
	return &Error{Status: status, Message: message, Code: code}
}

// ValidationError carries the full ordered list of field failures.
type ValidationError struct {
	Fields []validation.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func errAuthFailed() *Error {
	return newError("Bad request", "Authentication failed", http.StatusUnauthorized)
}

func errEmailTaken() *Error {
	return newError("Bad request", "Registration unsuccessful Email already exists", http.StatusUnprocessableEntity)
}

func errForbidden() *Error {
	return newError("error", "Access denied", http.StatusForbidden)
}

func errOrgNotFound() *Error {
	return newError("error", "Organisation not found", http.StatusNotFound)
}

func errUserNotFound() *Error {
	return newError("error", "User not found", http.StatusNotFound)
}

func errClientError() *Error {
	return newError("Bad Request", "Client error", http.StatusBadRequest)
}
