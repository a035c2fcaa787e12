package model

import "time"

// TokenTypeBearer is the token_type returned with every access token.
const TokenTypeBearer = "bearer"

// TokenManager generates and validates signed access tokens.
type TokenManager interface {
	GenerateAccessToken(subject string) (AccessToken, error)
	ParseAccessToken(token string) (subject string, err error)
}

// AccessToken is an issued bearer token with its expiry.
type AccessToken struct {
	Token     string
	Type      string
	ExpiresAt time.Time
}
