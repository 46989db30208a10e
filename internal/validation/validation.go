// Package validation implements the stateless request-shape checks. Each
// validator collects every failure instead of stopping at the first one and
// never consults persistence; uniqueness violations are surfaced by the
// repository layer instead.
package validation

import "strings"

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RegistrationInput carries the registration payload.
type RegistrationInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OrganisationInput carries the organisation-creation payload. Description is
// decoded as any so a non-textual value can be rejected rather than silently
// coerced.
type OrganisationInput struct {
	Name        string `json:"name"`
	Description any    `json:"description"`
}

// DescriptionText returns the description when it is textual.
func (in OrganisationInput) DescriptionText() string {
	if s, ok := in.Description.(string); ok {
		return s
	}
	return ""
}

// ValidateRegistration checks required registration fields in order.
func ValidateRegistration(in RegistrationInput) []FieldError {
	var errs []FieldError
	if blank(in.FirstName) {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name is required"})
	}
	if blank(in.LastName) {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name is required"})
	}
	if blank(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if blank(in.Password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// ValidateLogin checks required login fields.
func ValidateLogin(in LoginInput) []FieldError {
	var errs []FieldError
	if blank(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Email is required"})
	}
	if blank(in.Password) {
		errs = append(errs, FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

// ValidateOrganisation checks the organisation-creation payload.
func ValidateOrganisation(in OrganisationInput) []FieldError {
	var errs []FieldError
	if blank(in.Name) {
		errs = append(errs, FieldError{Field: "name", Message: "Name is required"})
	}
	if in.Description != nil {
		if _, ok := in.Description.(string); !ok {
			errs = append(errs, FieldError{Field: "description", Message: "Description must be a string"})
		}
	}
	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
