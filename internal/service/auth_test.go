package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/accounts-server/internal/apierror"
	"github.com/dtroode/accounts-server/internal/mocks"
	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/testutil"
)

func requireAPIError(t *testing.T, err error, status int, detail string) {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, status, apiErr.Status)
	assert.Equal(t, detail, apiErr.Detail)
}

func TestAuth_Authenticate(t *testing.T) {
	ctx := context.Background()
	alice := model.User{ID: "1", Username: "alice", Email: "alice@example.com", PasswordHash: "stored"}
	dbErr := errors.New("connection reset")

	tests := []struct {
		name       string
		setup      func(store *mocks.UserStore, hasher *mocks.PasswordHasher)
		login      string
		password   string
		wantUser   model.User
		wantStatus int
		wantDetail string
	}{
		{
			name: "valid username and password",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "alice").Return(alice, nil)
				hasher.On("Verify", "secret", "stored").Return(true, nil)
			},
			login:    "alice",
			password: "secret",
			wantUser: alice,
		},
		{
			name: "valid email and password",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "alice@example.com").Return(alice, nil)
				hasher.On("Verify", "secret", "stored").Return(true, nil)
			},
			login:    "alice@example.com",
			password: "secret",
			wantUser: alice,
		},
		{
			name: "unknown login runs dummy verification",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "nobody").Return(model.User{}, model.ErrNotFound)
				hasher.On("DummyVerify", "secret").Return().Once()
			},
			login:      "nobody",
			password:   "secret",
			wantStatus: http.StatusUnauthorized,
			wantDetail: apierror.DetailInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "alice").Return(alice, nil)
				hasher.On("Verify", "wrong", "stored").Return(false, nil)
			},
			login:      "alice",
			password:   "wrong",
			wantStatus: http.StatusUnauthorized,
			wantDetail: apierror.DetailInvalidCredentials,
		},
		{
			name: "corrupt stored hash",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "alice").Return(alice, nil)
				hasher.On("Verify", "secret", "stored").Return(false, errors.New("unknown hash format"))
			},
			login:      "alice",
			password:   "secret",
			wantStatus: http.StatusInternalServerError,
			wantDetail: apierror.DetailInternalServerError,
		},
		{
			name: "store failure",
			setup: func(store *mocks.UserStore, hasher *mocks.PasswordHasher) {
				store.On("GetByLogin", mock.Anything, "alice").Return(model.User{}, dbErr)
			},
			login:      "alice",
			password:   "secret",
			wantStatus: http.StatusInternalServerError,
			wantDetail: apierror.DetailInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewUserStore(t)
			hasher := mocks.NewPasswordHasher(t)
			tt.setup(store, hasher)

			a := NewAuth(store, hasher, mocks.NewTokenManager(t), testutil.MakeNoopLogger())

			user, err := a.Authenticate(ctx, tt.login, tt.password)
			if tt.wantStatus != 0 {
				requireAPIError(t, err, tt.wantStatus, tt.wantDetail)
				assert.Equal(t, model.User{}, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestAuth_Authenticate_SameErrorForUnknownLoginAndWrongPassword(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewUserStore(t)
	hasher := mocks.NewPasswordHasher(t)

	store.On("GetByLogin", mock.Anything, "nobody").Return(model.User{}, model.ErrNotFound)
	store.On("GetByLogin", mock.Anything, "alice").Return(model.User{ID: "1", PasswordHash: "stored"}, nil)
	hasher.On("DummyVerify", "x").Return()
	hasher.On("Verify", "x", "stored").Return(false, nil)

	a := NewAuth(store, hasher, mocks.NewTokenManager(t), testutil.MakeNoopLogger())

	_, unknownErr := a.Authenticate(ctx, "nobody", "x")
	_, wrongErr := a.Authenticate(ctx, "alice", "x")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())
}

func TestAuth_IssueToken(t *testing.T) {
	expires := time.Now().Add(30 * time.Minute)

	t.Run("subject is email", func(t *testing.T) {
		tokens := mocks.NewTokenManager(t)
		tokens.On("GenerateAccessToken", "alice@example.com").
			Return(model.AccessToken{Token: "jwt", Type: model.TokenTypeBearer, ExpiresAt: expires}, nil)

		a := NewAuth(mocks.NewUserStore(t), mocks.NewPasswordHasher(t), tokens, testutil.MakeNoopLogger())

		token, err := a.IssueToken(model.User{ID: "1", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "jwt", token.Token)
		assert.Equal(t, model.TokenTypeBearer, token.Type)
		assert.Equal(t, expires, token.ExpiresAt)
	})

	t.Run("signing failure", func(t *testing.T) {
		tokens := mocks.NewTokenManager(t)
		tokens.On("GenerateAccessToken", mock.Anything).Return(model.AccessToken{}, errors.New("boom"))

		a := NewAuth(mocks.NewUserStore(t), mocks.NewPasswordHasher(t), tokens, testutil.MakeNoopLogger())

		_, err := a.IssueToken(model.User{ID: "1", Email: "alice@example.com"})
		requireAPIError(t, err, http.StatusInternalServerError, apierror.DetailInternalServerError)
	})
}

func TestAuth_ResolveUser(t *testing.T) {
	ctx := context.Background()
	alice := model.User{ID: "1", Username: "alice", Email: "alice@example.com"}

	tests := []struct {
		name       string
		setup      func(store *mocks.UserStore, tokens *mocks.TokenManager)
		wantUser   model.User
		wantStatus int
		wantDetail string
	}{
		{
			name: "valid token",
			setup: func(store *mocks.UserStore, tokens *mocks.TokenManager) {
				tokens.On("ParseAccessToken", "tok").Return("alice@example.com", nil)
				store.On("GetByEmail", mock.Anything, "alice@example.com").Return(alice, nil)
			},
			wantUser: alice,
		},
		{
			name: "invalid token",
			setup: func(store *mocks.UserStore, tokens *mocks.TokenManager) {
				tokens.On("ParseAccessToken", "tok").Return("", errors.New("token is expired"))
			},
			wantStatus: http.StatusUnauthorized,
			wantDetail: apierror.DetailCouldNotValidate,
		},
		{
			name: "subject no longer exists",
			setup: func(store *mocks.UserStore, tokens *mocks.TokenManager) {
				tokens.On("ParseAccessToken", "tok").Return("gone@example.com", nil)
				store.On("GetByEmail", mock.Anything, "gone@example.com").Return(model.User{}, model.ErrNotFound)
			},
			wantStatus: http.StatusUnauthorized,
			wantDetail: apierror.DetailCouldNotValidate,
		},
		{
			name: "store failure",
			setup: func(store *mocks.UserStore, tokens *mocks.TokenManager) {
				tokens.On("ParseAccessToken", "tok").Return("alice@example.com", nil)
				store.On("GetByEmail", mock.Anything, "alice@example.com").Return(model.User{}, errors.New("timeout"))
			},
			wantStatus: http.StatusInternalServerError,
			wantDetail: apierror.DetailInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := mocks.NewUserStore(t)
			tokens := mocks.NewTokenManager(t)
			tt.setup(store, tokens)

			a := NewAuth(store, mocks.NewPasswordHasher(t), tokens, testutil.MakeNoopLogger())

			user, err := a.ResolveUser(ctx, "tok")
			if tt.wantStatus != 0 {
				requireAPIError(t, err, tt.wantStatus, tt.wantDetail)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}
