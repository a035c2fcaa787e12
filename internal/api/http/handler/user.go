package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// UserService defines registration and self-service profile operations.
type UserService interface {
	Create(ctx context.Context, params model.UserParams) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Get(ctx context.Context, id string) (model.User, error)
	Update(ctx context.Context, caller model.User, id string, params model.UserParams) (model.User, error)
	Patch(ctx context.Context, caller model.User, id string, params model.UserChanges) (model.User, error)
	Delete(ctx context.Context, caller model.User, id string) error
}

// User handles the /users endpoints.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Create registers a new user.
func (h *User) Create(c *fiber.Ctx) error {
	var req UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation(errMalformedBody)
	}
	if err := req.Validate(); err != nil {
		return apierror.NewErrValidation(err)
	}

	h.logger.Debug("User handler: processing create request",
		"username", req.Username)

	user, err := h.userService.Create(c.UserContext(), req.params())
	if err != nil {
		return handleError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserPublic(user))
}

// List returns every user.
func (h *User) List(c *fiber.Ctx) error {
	users, err := h.userService.List(c.UserContext())
	if err != nil {
		return handleError(err)
	}

	resp := make([]UserPublic, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserPublic(user))
	}

	return c.JSON(resp)
}

// Me returns the authenticated caller.
func (h *User) Me(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	return c.JSON(toUserPublic(caller))
}

// Get returns one user by id.
func (h *User) Get(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(err)
	}

	return c.JSON(toUserPublic(user))
}

// Update replaces every field of the caller's own record.
func (h *User) Update(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var req UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation(errMalformedBody)
	}
	if err := req.Validate(); err != nil {
		return apierror.NewErrValidation(err)
	}

	user, err := h.userService.Update(c.UserContext(), caller, c.Params("id"), req.params())
	if err != nil {
		return handleError(err)
	}

	return c.JSON(toUserPublic(user))
}

// Patch changes the given fields of the caller's own record.
func (h *User) Patch(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	var req UserPatchRequest
	if err := c.BodyParser(&req); err != nil {
		return apierror.NewErrValidation(errMalformedBody)
	}
	if err := req.Validate(); err != nil {
		return apierror.NewErrValidation(err)
	}

	user, err := h.userService.Patch(c.UserContext(), caller, c.Params("id"), req.changes())
	if err != nil {
		return handleError(err)
	}

	return c.JSON(toUserPublic(user))
}

// Delete removes the caller's own record.
func (h *User) Delete(c *fiber.Ctx) error {
	caller, err := h.caller(c)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := h.userService.Delete(c.UserContext(), caller, id); err != nil {
		return handleError(err)
	}

	h.logger.Info("User handler: user deleted",
		"user_id", id)

	return c.JSON(DetailResponse{Detail: apierror.DetailUserDeleted})
}

func (h *User) caller(c *fiber.Ctx) (model.User, error) {
	user, ok := h.contextManager.GetUserFromContext(c.UserContext())
	if !ok {
		return model.User{}, apierror.NewErrCouldNotValidateCredentials()
	}
	return user, nil
}
