package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	List(ctx context.Context) ([]User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByLogin(ctx context.Context, login string) (User, error)
	Update(ctx context.Context, id string, patch UserPatch) (User, error)
	Delete(ctx context.Context, id string) error
}

// User represents a stored user with its password hash.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries the columns to overwrite on update. Nil fields are left as stored.
type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
	UpdatedAt    time.Time
}

// IsEmpty reports whether the patch changes no user-visible column.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil
}

// UserParams carries the client-supplied fields of a new or fully replaced user.
type UserParams struct {
	Username string
	Email    string
	Password string
}

// UserChanges carries the client-supplied fields of a partial update. Nil fields are left unchanged.
type UserChanges struct {
	Username *string
	Email    *string
	Password *string
}
