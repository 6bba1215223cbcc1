package repositories

import (
	"context"
	"errors"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/models"

	"gorm.io/gorm"
)

// ITypeRepository resolves link target types.
type ITypeRepository interface {
	FindByName(ctx context.Context, name string) (*models.Type, error)
}

type TypeRepository struct {
	db *gorm.DB
}

func NewTypeRepository() ITypeRepository {
	return &TypeRepository{db: configsdatabase.GetDB()}
}

func (r *TypeRepository) FindByName(ctx context.Context, name string) (*models.Type, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	var t models.Type
	err := dbFromContext(ctx, r.db).Where("name = ?", name).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

var _ ITypeRepository = (*TypeRepository)(nil)
