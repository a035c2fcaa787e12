package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/mocks"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/testutil"
)

func newUsers(t *testing.T) (*Users, *mocks.UserStore, *mocks.PasswordHasher) {
	t.Helper()

	store := mocks.NewUserStore(t)
	hasher := mocks.NewPasswordHasher(t)
	return NewUsers(store, hasher, testutil.MakeNoopLogger()), store, hasher
}

func strPtr(s string) *string { return &s }

func TestUsers_Create(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		s, store, hasher := newUsers(t)
		s.now = func() time.Time { return fixed }

		hasher.On("Hash", "secret").Return("hashed", nil)
		store.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			_, err := uuid.Parse(u.ID)
			return err == nil &&
				u.Username == "alice" &&
				u.Email == "alice@example.com" &&
				u.PasswordHash == "hashed" &&
				u.CreatedAt.Equal(fixed) &&
				u.UpdatedAt.Equal(fixed)
		})).Return(func(_ context.Context, u model.User) (model.User, error) {
			return u, nil
		})

		user, err := s.Create(ctx, model.UserParams{Username: "alice", Email: "alice@example.com", Password: "secret"})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.ID)
	})

	t.Run("ids are unique", func(t *testing.T) {
		s, store, hasher := newUsers(t)

		hasher.On("Hash", mock.Anything).Return("hashed", nil)
		store.On("Create", mock.Anything, mock.Anything).Return(func(_ context.Context, u model.User) (model.User, error) {
			return u, nil
		})

		first, err := s.Create(ctx, model.UserParams{Username: "a", Email: "a@example.com", Password: "x"})
		require.NoError(t, err)
		second, err := s.Create(ctx, model.UserParams{Username: "b", Email: "b@example.com", Password: "x"})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("duplicate", func(t *testing.T) {
		s, store, hasher := newUsers(t)

		hasher.On("Hash", "secret").Return("hashed", nil)
		store.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrConflict)

		_, err := s.Create(ctx, model.UserParams{Username: "alice", Email: "alice@example.com", Password: "secret"})
		requireAPIError(t, err, http.StatusConflict, apierror.DetailUserExists)
	})

	t.Run("hash failure", func(t *testing.T) {
		s, _, hasher := newUsers(t)

		hasher.On("Hash", "secret").Return("", errors.New("rng failure"))

		_, err := s.Create(ctx, model.UserParams{Username: "alice", Email: "alice@example.com", Password: "secret"})
		requireAPIError(t, err, http.StatusInternalServerError, apierror.DetailInternalServerError)
	})
}

func TestUsers_ListAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("list", func(t *testing.T) {
		s, store, _ := newUsers(t)
		users := []model.User{{ID: "1"}, {ID: "2"}}
		store.On("List", mock.Anything).Return(users, nil)

		got, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, users, got)
	})

	t.Run("list failure", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("List", mock.Anything).Return(nil, errors.New("timeout"))

		_, err := s.List(ctx)
		requireAPIError(t, err, http.StatusInternalServerError, apierror.DetailInternalServerError)
	})

	t.Run("get", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("GetByID", mock.Anything, "1").Return(model.User{ID: "1"}, nil)

		got, err := s.Get(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "1", got.ID)
	})

	t.Run("get missing", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("GetByID", mock.Anything, "false-id-1").Return(model.User{}, model.ErrNotFound)

		_, err := s.Get(ctx, "false-id-1")
		requireAPIError(t, err, http.StatusNotFound, apierror.DetailUserNotFound)
	})
}

func TestUsers_Patch(t *testing.T) {
	ctx := context.Background()
	caller := model.User{ID: "1", Username: "alice", Email: "alice@example.com"}
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("only given fields are sent", func(t *testing.T) {
		s, store, _ := newUsers(t)
		s.now = func() time.Time { return fixed }

		store.On("Update", mock.Anything, "1", model.UserPatch{
			Email:     strPtr("alice@new.example.com"),
			UpdatedAt: fixed,
		}).Return(model.User{ID: "1", Username: "alice", Email: "alice@new.example.com"}, nil)

		user, err := s.Patch(ctx, caller, "1", model.UserChanges{Email: strPtr("alice@new.example.com")})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "alice@new.example.com", user.Email)
	})

	t.Run("password is rehashed", func(t *testing.T) {
		s, store, hasher := newUsers(t)
		s.now = func() time.Time { return fixed }

		hasher.On("Hash", "new-secret").Return("new-hash", nil)
		store.On("Update", mock.Anything, "1", model.UserPatch{
			PasswordHash: strPtr("new-hash"),
			UpdatedAt:    fixed,
		}).Return(caller, nil)

		_, err := s.Patch(ctx, caller, "1", model.UserChanges{Password: strPtr("new-secret")})
		require.NoError(t, err)
	})

	t.Run("other user's record is not found", func(t *testing.T) {
		s, _, _ := newUsers(t)

		_, err := s.Patch(ctx, caller, "2", model.UserChanges{Username: strPtr("mallory")})
		requireAPIError(t, err, http.StatusNotFound, apierror.DetailUserNotFound)
	})

	t.Run("conflict", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("Update", mock.Anything, "1", mock.Anything).Return(model.User{}, model.ErrConflict)

		_, err := s.Patch(ctx, caller, "1", model.UserChanges{Username: strPtr("bob")})
		requireAPIError(t, err, http.StatusConflict, apierror.DetailUserExists)
	})

	t.Run("deleted meanwhile", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("Update", mock.Anything, "1", mock.Anything).Return(model.User{}, model.ErrNotFound)

		_, err := s.Patch(ctx, caller, "1", model.UserChanges{Username: strPtr("alice2")})
		requireAPIError(t, err, http.StatusNotFound, apierror.DetailUserNotFound)
	})
}

func TestUsers_Update(t *testing.T) {
	ctx := context.Background()
	caller := model.User{ID: "1"}

	t.Run("replaces every field", func(t *testing.T) {
		s, store, hasher := newUsers(t)

		hasher.On("Hash", "pw").Return("pw-hash", nil)
		store.On("Update", mock.Anything, "1", mock.MatchedBy(func(p model.UserPatch) bool {
			return p.Username != nil && *p.Username == "alice2" &&
				p.Email != nil && *p.Email == "alice2@example.com" &&
				p.PasswordHash != nil && *p.PasswordHash == "pw-hash" &&
				!p.UpdatedAt.IsZero()
		})).Return(model.User{ID: "1", Username: "alice2"}, nil)

		user, err := s.Update(ctx, caller, "1", model.UserParams{Username: "alice2", Email: "alice2@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, "alice2", user.Username)
	})

	t.Run("other user's record is not found", func(t *testing.T) {
		s, _, _ := newUsers(t)

		_, err := s.Update(ctx, caller, "2", model.UserParams{Username: "x", Email: "x@example.com", Password: "x"})
		requireAPIError(t, err, http.StatusNotFound, apierror.DetailUserNotFound)
	})
}

func TestUsers_Delete(t *testing.T) {
	ctx := context.Background()
	caller := model.User{ID: "1"}

	t.Run("own record", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("Delete", mock.Anything, "1").Return(nil)

		require.NoError(t, s.Delete(ctx, caller, "1"))
	})

	t.Run("other user's record", func(t *testing.T) {
		s, _, _ := newUsers(t)

		requireAPIError(t, s.Delete(ctx, caller, "2"), http.StatusNotFound, apierror.DetailUserNotFound)
	})

	t.Run("already gone", func(t *testing.T) {
		s, store, _ := newUsers(t)
		store.On("Delete", mock.Anything, "1").Return(model.ErrNotFound)

		requireAPIError(t, s.Delete(ctx, caller, "1"), http.StatusNotFound, apierror.DetailUserNotFound)
	})

	t.Run("store failure keeps cause", func(t *testing.T) {
		s, store, _ := newUsers(t)
		dbErr := errors.New("timeout")
		store.On("Delete", mock.Anything, "1").Return(dbErr)

		err := s.Delete(ctx, caller, "1")
		requireAPIError(t, err, http.StatusInternalServerError, apierror.DetailInternalServerError)
		assert.ErrorIs(t, err, dbErr)
	})
}
