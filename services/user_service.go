package services

import (
	"context"
	"errors"

	"envitefy.link/models"
	"envitefy.link/repositories"
)

type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound UserServiceError = "user not found"
)

// IUserService exposes the creator account lookups other services need.
type IUserService interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type UserService struct {
	repo repositories.IUserRepository
}

func NewUserService() IUserService {
	return &UserService{repo: repositories.NewUserRepository()}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

var _ IUserService = (*UserService)(nil)
