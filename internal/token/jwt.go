package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dtroode/accounts-server/internal/model"
)

var (
	// ErrInvalidToken covers malformed, badly signed and expired tokens alike.
	ErrInvalidToken = errors.New("access token is invalid")
	// ErrMissingSubject is returned for a valid token without a sub claim.
	ErrMissingSubject = errors.New("access token has no subject")
)

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager backed by symmetric HMAC.
type JWT struct {
	secretKey []byte
	method    jwt.SigningMethod
	ttl       time.Duration
	now       func() time.Time
}

// NewJWT creates a token manager signing with the named HMAC algorithm.
func NewJWT(secretKey, algorithm string, ttl time.Duration) (*JWT, error) {
	if secretKey == "" {
		return nil, errors.New("secret key is empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %s", ttl)
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}

	return &JWT{
		secretKey: []byte(secretKey),
		method:    method,
		ttl:       ttl,
		now:       time.Now,
	}, nil
}

// GenerateAccessToken creates a token for subject valid for the configured lifetime.
func (j *JWT) GenerateAccessToken(subject string) (model.AccessToken, error) {
	now := j.now()
	expiresAt := jwt.NewNumericDate(now.Add(j.ttl))

	token := jwt.NewWithClaims(j.method, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: expiresAt,
	})

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return model.AccessToken{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	return model.AccessToken{
		Token:     tokenString,
		Type:      model.TokenTypeBearer,
		ExpiresAt: expiresAt.Time,
	}, nil
}

// ParseAccessToken validates signature, algorithm and expiry and returns the subject.
func (j *JWT) ParseAccessToken(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, ErrMissingSubject)
	}

	return claims.Subject, nil
}
