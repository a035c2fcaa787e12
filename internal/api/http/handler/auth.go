package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// AuthService defines password login and token issuance.
type AuthService interface {
	Authenticate(ctx context.Context, login, password string) (model.User, error)
	IssueToken(user model.User) (model.AccessToken, error)
}

// Auth handles the login endpoint.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

// Token exchanges form credentials for a bearer access token.
func (h *Auth) Token(c *fiber.Ctx) error {
	req := TokenRequest{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
	}
	if err := req.Validate(); err != nil {
		return apierror.NewErrValidation(err)
	}

	h.logger.Debug("Auth handler: processing token request",
		"login", req.Username)

	user, err := h.authService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return handleError(err)
	}
	if user.ID == "" {
		return apierror.NewErrIncorrectCredentials()
	}

	token, err := h.authService.IssueToken(user)
	if err != nil {
		return handleError(err)
	}

	h.logger.Info("Auth handler: token issued",
		"user_id", user.ID)

	return c.JSON(TokenResponse{
		AccessToken: token.Token,
		TokenType:   token.Type,
	})
}

// Health reports that the service is up.
func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
