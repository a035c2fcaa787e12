package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/accounts-server/internal/model"
)

func TestManager_UserRoundTrip(t *testing.T) {
	m := NewManager()
	user := model.User{ID: "1", Username: "alice", Email: "alice@example.com"}

	ctx := m.SetUserToContext(context.Background(), user)

	got, ok := m.GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, user, got)
}

func TestManager_GetUserFromContext_Missing(t *testing.T) {
	m := NewManager()

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "empty context", ctx: context.Background()},
		{name: "zero user", ctx: m.SetUserToContext(context.Background(), model.User{})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, ok := m.GetUserFromContext(tt.ctx)
			assert.False(t, ok)
			assert.Equal(t, model.User{}, user)
		})
	}
}
