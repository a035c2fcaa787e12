// Package repository selects and opens a user store from a database URL.
package repository

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dtroode/accounts-server/internal/model"
	"github.com/dtroode/accounts-server/internal/repository/postgres"
	"github.com/dtroode/accounts-server/internal/repository/sqlite"
)

const sqliteScheme = "sqlite://"

// Storage is an opened user store together with the connection backing it.
type Storage struct {
	Users  model.UserStore
	Driver string

	closer io.Closer
}

func (s *Storage) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open connects to the store named by url and applies migrations.
// Supported schemes are postgres://, postgresql:// and sqlite://<path>.
func Open(ctx context.Context, url string) (*Storage, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		conn, err := postgres.NewConnection(ctx, url)
		if err != nil {
			return nil, err
		}
		return &Storage{Users: postgres.NewUserRepository(conn), Driver: "postgres", closer: conn}, nil

	case strings.HasPrefix(url, sqliteScheme):
		conn, err := sqlite.NewConnection(ctx, strings.TrimPrefix(url, sqliteScheme))
		if err != nil {
			return nil, err
		}
		return &Storage{Users: sqlite.NewUserRepository(conn), Driver: "sqlite", closer: conn}, nil
	}

	return nil, fmt.Errorf("unsupported database url scheme: %q", redact(url))
}

// redact drops everything after the scheme so credentials never reach logs.
func redact(url string) string {
	if i := strings.Index(url, "://"); i >= 0 {
		return url[:i+3] + "..."
	}
	return "..."
}
