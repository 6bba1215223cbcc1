package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound is the repository-level miss every caller maps from.
var ErrNotFound = errors.New("record not found")

// txContextKey lets a service hand its transaction to repositories without
// rebuilding them; getDB helpers below honor it.
type txContextKey struct{}

// ContextWithTx returns a context carrying the transaction handle.
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// IBaseRepository is the generic CRUD core shared by the typed repositories.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, entity *T) error
	Count(ctx context.Context) (int64, error)
	SetAllowedSortColumns(columns []string)
	AllowedSortColumn(column string) bool
}

// BaseRepository implements IBaseRepository on top of a *gorm.DB.
type BaseRepository[T any] struct {
	db          *gorm.DB
	allowedSort map[string]bool
}

// NewBaseRepository builds a base repository bound to db (which may be a
// transaction handle).
func NewBaseRepository[T any](db *gorm.DB) IBaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedSort: map[string]bool{}}
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return dbFromContext(ctx, r.db).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := dbFromContext(ctx, r.db).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	return dbFromContext(ctx, r.db).Save(entity).Error
}

func (r *BaseRepository[T]) Count(ctx context.Context) (int64, error) {
	var count int64
	var model T
	err := dbFromContext(ctx, r.db).Model(&model).Count(&count).Error
	return count, err
}

func (r *BaseRepository[T]) SetAllowedSortColumns(columns []string) {
	r.allowedSort = make(map[string]bool, len(columns))
	for _, c := range columns {
		r.allowedSort[c] = true
	}
}

func (r *BaseRepository[T]) AllowedSortColumn(column string) bool {
	return r.allowedSort[column]
}

// softDelete marks a row deleted and records who deleted it, in one
// statement guarded against double deletion.
func softDelete(db *gorm.DB, model any, id uint, deletedByUserID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		updates := map[string]any{"deleted_at": now, "deleted_by": &deletedByUserID}
		result := tx.Model(model).Where("id = ? AND deleted_at IS NULL", id).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
