package repositories

import (
	"context"
	"errors"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ILinkRepository handles the short-key link rows.
type ILinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	FindByKey(ctx context.Context, key string) (*models.Link, error)
	ExistsByKey(ctx context.Context, key string) (bool, error)
	Update(ctx context.Context, id uint, updates map[string]any) error
	Delete(ctx context.Context, link *models.Link, deletedByUserID uint) error
}

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository() ILinkRepository {
	return &LinkRepository{db: configsdatabase.GetDB()}
}

// NewLinkRepositoryTx binds the repository to an open transaction.
func NewLinkRepositoryTx(tx *gorm.DB) ILinkRepository {
	return &LinkRepository{db: tx}
}

func (r *LinkRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *LinkRepository) Create(ctx context.Context, link *models.Link) error {
	if link == nil || link.Key == "" || link.TypeID == 0 {
		return errors.New("link requires a key and a type")
	}
	return r.getDB(ctx).Create(link).Error
}

func (r *LinkRepository) FindByKey(ctx context.Context, key string) (*models.Link, error) {
	if key == "" {
		return nil, ErrNotFound
	}
	var link models.Link
	err := r.getDB(ctx).Preload("Type").Where("key = ?", key).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("LinkRepository.FindByKey: DB error", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return &link, nil
}

func (r *LinkRepository) ExistsByKey(ctx context.Context, key string) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&models.Link{}).Where("key = ?", key).Count(&count).Error
	return count > 0, err
}

func (r *LinkRepository) Update(ctx context.Context, id uint, updates map[string]any) error {
	if id == 0 || len(updates) == 0 {
		return errors.New("invalid link update")
	}
	result := r.getDB(ctx).Model(&models.Link{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete soft-deletes the link, recording who did it.
func (r *LinkRepository) Delete(ctx context.Context, link *models.Link, deletedByUserID uint) error {
	if link == nil || link.ID == 0 {
		return errors.New("invalid link")
	}
	return softDelete(r.getDB(ctx), link, link.ID, deletedByUserID)
}

var _ ILinkRepository = (*LinkRepository)(nil)
