package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/logger"
	"github.com/dtroode/accounts-server/internal/model"
)

// Users implements registration and self-service profile management.
type Users struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	logger    *logger.Logger
	now       func() time.Time
}

func NewUsers(userStore model.UserStore, hasher model.PasswordHasher, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		hasher:    hasher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Users) Create(ctx context.Context, params model.UserParams) (model.User, error) {
	s.logger.Debug("Users service: creating user",
		"username", params.Username,
		"email", params.Email)

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		s.logger.Error("Users service: failed to hash password",
			"username", params.Username,
			"error", err.Error())
		return model.User{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to hash password: %w", err))
	}

	now := s.now().UTC()
	user, err := s.userStore.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return model.User{}, s.storeError("create user", err)
	}

	s.logger.Info("Users service: user created",
		"user_id", user.ID)

	return user, nil
}

func (s *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		return nil, s.storeError("list users", err)
	}

	return users, nil
}

func (s *Users) Get(ctx context.Context, id string) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if err != nil {
		return model.User{}, s.storeError("get user", err)
	}

	return user, nil
}

// Update replaces username, email and password of the caller's own record.
func (s *Users) Update(ctx context.Context, caller model.User, id string, params model.UserParams) (model.User, error) {
	return s.Patch(ctx, caller, id, model.UserChanges{
		Username: &params.Username,
		Email:    &params.Email,
		Password: &params.Password,
	})
}

// Patch changes the given fields of the caller's own record. A record owned by
// someone else is reported as not found.
func (s *Users) Patch(ctx context.Context, caller model.User, id string, params model.UserChanges) (model.User, error) {
	s.logger.Debug("Users service: updating user",
		"user_id", id,
		"caller_id", caller.ID)

	if caller.ID != id {
		s.logger.Info("Users service: caller does not own user",
			"user_id", id,
			"caller_id", caller.ID)
		return model.User{}, apierror.NewErrUserNotFound()
	}

	patch := model.UserPatch{
		Username:  params.Username,
		Email:     params.Email,
		UpdatedAt: s.now().UTC(),
	}
	if params.Password != nil {
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			s.logger.Error("Users service: failed to hash password",
				"user_id", id,
				"error", err.Error())
			return model.User{}, apierror.NewErrInternalServerError(fmt.Errorf("failed to hash password: %w", err))
		}
		patch.PasswordHash = &hash
	}

	user, err := s.userStore.Update(ctx, id, patch)
	if err != nil {
		return model.User{}, s.storeError("update user", err)
	}

	s.logger.Info("Users service: user updated",
		"user_id", user.ID)

	return user, nil
}

// Delete removes the caller's own record.
func (s *Users) Delete(ctx context.Context, caller model.User, id string) error {
	if caller.ID != id {
		s.logger.Info("Users service: caller does not own user",
			"user_id", id,
			"caller_id", caller.ID)
		return apierror.NewErrUserNotFound()
	}

	if err := s.userStore.Delete(ctx, id); err != nil {
		return s.storeError("delete user", err)
	}

	s.logger.Info("Users service: user deleted",
		"user_id", id)

	return nil
}

func (s *Users) storeError(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return apierror.NewErrUserNotFound()
	case errors.Is(err, model.ErrConflict):
		s.logger.Info("Users service: username or email already taken",
			"op", op)
		return apierror.NewErrUserAlreadyExists()
	}

	s.logger.Error("Users service: store failure",
		"op", op,
		"error", err.Error())
	return apierror.NewErrInternalServerError(fmt.Errorf("failed to %s: %w", op, err))
}
