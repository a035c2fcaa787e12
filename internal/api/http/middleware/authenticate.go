package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// UserResolver resolves the user named by a bearer token.
type UserResolver interface {
	ResolveUser(ctx context.Context, token string) (model.User, error)
}

// Authenticate validates bearer tokens and injects the current user into the request context.
type Authenticate struct {
	resolver       UserResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(resolver UserResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{resolver: resolver, contextManager: contextManager, logger: logger}
}

// Handle rejects the request with 401 unless it carries a valid bearer token.
func (m *Authenticate) Handle(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		m.logger.Debug("Authenticate middleware: missing bearer token",
			"path", c.Path())
		return apierror.NewErrCouldNotValidateCredentials()
	}

	user, err := m.resolver.ResolveUser(c.UserContext(), token)
	if err != nil {
		return err
	}
	if user.ID == "" {
		return apierror.NewErrCouldNotValidateCredentials()
	}

	c.SetUserContext(m.contextManager.SetUserToContext(c.UserContext(), user))

	return c.Next()
}

// bearerToken extracts the credentials of an "Authorization: Bearer <token>" header.
// The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}

	return token, true
}
