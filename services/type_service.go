package services

import (
	"context"
	"errors"

	"envitefy.link/models"
	"envitefy.link/repositories"
)

type TypeServiceError string

func (e TypeServiceError) Error() string { return string(e) }

const (
	ErrTypeNotFound TypeServiceError = "link type not found"
)

// ITypeService resolves link target types by name.
type ITypeService interface {
	GetTypeByName(ctx context.Context, name string) (*models.Type, error)
}

type TypeService struct {
	repo repositories.ITypeRepository
}

func NewTypeService() ITypeService {
	return &TypeService{repo: repositories.NewTypeRepository()}
}

func (s *TypeService) GetTypeByName(ctx context.Context, name string) (*models.Type, error) {
	t, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTypeNotFound
		}
		return nil, err
	}
	return t, nil
}

var _ ITypeService = (*TypeService)(nil)
