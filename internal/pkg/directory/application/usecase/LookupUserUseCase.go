package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	directory "go-convo/internal/pkg/directory/application/domain"
	repository "go-convo/internal/pkg/directory/persistence/repository/port"
)

// LookupUserUseCase resolves a single username. It backs session loading and
// member selection.
type LookupUserUseCase struct {
	Repo repository.UserRepository
}

func NewLookupUserUseCase(repo repository.UserRepository) *LookupUserUseCase {
	return &LookupUserUseCase{Repo: repo}
}

func (uc *LookupUserUseCase) FindByUsername(ctx context.Context, username string) (directory.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return directory.User{}, directory.ErrUserNotFound
	}
	u, err := uc.Repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			return directory.User{}, err
		}
		return directory.User{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return u, nil
}
