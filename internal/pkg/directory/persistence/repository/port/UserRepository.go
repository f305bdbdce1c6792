package repository

import (
	"context"

	directory "go-convo/internal/pkg/directory/application/domain"
)

// UserRepository is the directory's view of the user store.
type UserRepository interface {
	// ListAll returns every user ordered by display name, then username.
	ListAll(ctx context.Context) ([]directory.User, error)
	// FindByUsername returns directory.ErrUserNotFound for unknown names.
	FindByUsername(ctx context.Context, username string) (directory.User, error)
	// Upsert creates the user or refreshes its display name and avatar.
	Upsert(ctx context.Context, u directory.User) error
}
