package usecase

import (
	"context"
	"fmt"

	directory "go-convo/internal/pkg/directory/application/domain"
)

// ErrPersistence indicates an infrastructure/repository failure inside a use case
var ErrPersistence = fmt.Errorf("chat use case persistence error")

// UserDirectory resolves usernames picked from the user directory.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (directory.User, error)
}
