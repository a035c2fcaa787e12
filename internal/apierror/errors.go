// Package apierror defines client-visible errors and the HTTP status they map to.
package apierror

import (
	"fmt"
	"net/http"
)

// Detail messages returned to clients.
const (
	DetailUserExists           = "User already exists."
	DetailUserNotFound         = "User does not exist."
	DetailUserDeleted          = "User deleted."
	DetailInvalidCredentials   = "Invalid username or password."
	DetailIncorrectCredentials = "Incorrect username or password."
	DetailCouldNotValidate     = "Could not validate credentials"
	DetailInternalServerError  = "Internal Server Error"
	bearerChallenge            = "Bearer"
	headerWWWAuthenticate      = "WWW-Authenticate"
)

// APIError is an error that is safe to show to the client.
type APIError struct {
	Status  int
	Detail  string
	Headers map[string]string
	// Err is the underlying cause. It is logged, never sent.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Detail, e.Err)
	}
	return e.Detail
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewErrUserAlreadyExists is returned when username or email is taken.
func NewErrUserAlreadyExists() *APIError {
	return &APIError{Status: http.StatusConflict, Detail: DetailUserExists}
}

// NewErrUserNotFound is returned when a user is absent or not owned by the caller.
func NewErrUserNotFound() *APIError {
	return &APIError{Status: http.StatusNotFound, Detail: DetailUserNotFound}
}

// NewErrInvalidCredentials is returned by the authentication flow for any credential mismatch.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Detail: DetailInvalidCredentials}
}

// NewErrIncorrectCredentials is returned by the login endpoint when authentication yields no user.
func NewErrIncorrectCredentials() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Detail:  DetailIncorrectCredentials,
		Headers: map[string]string{headerWWWAuthenticate: bearerChallenge},
	}
}

// NewErrCouldNotValidateCredentials is returned for any bearer token failure.
func NewErrCouldNotValidateCredentials() *APIError {
	return &APIError{
		Status:  http.StatusUnauthorized,
		Detail:  DetailCouldNotValidate,
		Headers: map[string]string{headerWWWAuthenticate: bearerChallenge},
	}
}

// NewErrValidation wraps a payload validation failure.
func NewErrValidation(err error) *APIError {
	return &APIError{Status: http.StatusUnprocessableEntity, Detail: err.Error(), Err: err}
}

// NewErrInternalServerError hides err behind a generic message.
func NewErrInternalServerError(err error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Detail: DetailInternalServerError, Err: err}
}
