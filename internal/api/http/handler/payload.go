package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/dtroode/accounts-server/internal/model"
)

var errMalformedBody = errors.New("request body is not valid JSON")

// UserCreateRequest is the body of POST /users and PUT /users/{id}.
type UserCreateRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r UserCreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r UserCreateRequest) params() model.UserParams {
	return model.UserParams{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// UserPatchRequest is the body of PATCH /users/{id}. Absent and null fields are left unchanged.
type UserPatchRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Validate will validate the payload
func (r UserPatchRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.NilOrNotEmpty),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Password, validation.NilOrNotEmpty),
	)
}

func (r UserPatchRequest) changes() model.UserChanges {
	return model.UserChanges{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
	}
}

// TokenRequest is the form body of POST /auth/token.
type TokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r TokenRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// UserPublic is the client-visible view of a user. It never carries the password hash.
type UserPublic struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserPublic(user model.User) UserPublic {
	return UserPublic{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// TokenResponse is the body returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
