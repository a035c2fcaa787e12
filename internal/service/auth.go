package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// Auth authenticates users by password and resolves them from bearer tokens.
type Auth struct {
	userStore    model.UserStore
	hasher       model.PasswordHasher
	tokenManager model.TokenManager
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenManager: tokenManager,
		logger:       logger,
	}
}

// Authenticate returns the user whose username or email equals login and whose
// password matches. Unknown login and wrong password yield the same error.
func (a *Auth) Authenticate(ctx context.Context, login, password string) (model.User, error) {
	a.logger.Debug("Auth service: authenticating user",
		"login", login)

	user, err := a.userStore.GetByLogin(ctx, login)
	if errors.Is(err, model.ErrNotFound) {
		// keep response time independent of whether the login exists
		a.hasher.DummyVerify(password)
		a.logger.Info("Auth service: unknown login",
			"login", login)
		return model.User{}, apierror.NewErrInvalidCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by login",
			"login", login,
			"error", err.Error())
		return model.User{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to get user by login: %w", err))
	}

	ok, err := a.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		a.logger.Error("Auth service: failed to verify password",
			"user_id", user.ID,
			"error", err.Error())
		return model.User{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to verify password: %w", err))
	}
	if !ok {
		a.logger.Info("Auth service: password mismatch",
			"user_id", user.ID)
		return model.User{}, apierror.NewErrInvalidCredentials()
	}

	a.logger.Info("Auth service: user authenticated",
		"user_id", user.ID)

	return user, nil
}

// IssueToken creates an access token whose subject is the user's email.
func (a *Auth) IssueToken(user model.User) (model.AccessToken, error) {
	token, err := a.tokenManager.GenerateAccessToken(user.Email)
	if err != nil {
		a.logger.Error("Auth service: failed to generate access token",
			"user_id", user.ID,
			"error", err.Error())
		return model.AccessToken{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to generate access token: %w", err))
	}

	a.logger.Info("Auth service: access token issued",
		"user_id", user.ID,
		"expires_at", token.ExpiresAt)

	return token, nil
}

// ResolveUser validates token and returns the user named by its subject.
// Every failure is reported as the same unauthorized error.
func (a *Auth) ResolveUser(ctx context.Context, token string) (model.User, error) {
	email, err := a.tokenManager.ParseAccessToken(token)
	if err != nil {
		a.logger.Debug("Auth service: rejected access token",
			"error", err.Error())
		return model.User{}, apierror.NewErrCouldNotValidateCredentials()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		a.logger.Debug("Auth service: token subject does not exist",
			"email", email)
		return model.User{}, apierror.NewErrCouldNotValidateCredentials()
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to get user by email: %w", err))
	}

	return user, nil
}
