package usecase

import (
	"context"
	"fmt"

	directory "go-convo/internal/pkg/directory/application/domain"
	repository "go-convo/internal/pkg/directory/persistence/repository/port"
)

// ListDirectoryInput names the viewer and the search box contents.
type ListDirectoryInput struct {
	CurrentUsername string
	Query           string
}

// ListDirectoryUseCase returns every user except the viewer, narrowed by the
// search term.
type ListDirectoryUseCase struct {
	Repo repository.UserRepository
}

func NewListDirectoryUseCase(repo repository.UserRepository) *ListDirectoryUseCase {
	return &ListDirectoryUseCase{Repo: repo}
}

func (uc *ListDirectoryUseCase) Execute(ctx context.Context, in ListDirectoryInput) ([]directory.User, error) {
	users, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	users = directory.Without(users, in.CurrentUsername)
	return directory.Filter(users, in.Query), nil
}
