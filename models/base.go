package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type contextKey string

// ContextUserIDKey carries the acting user's id through service and
// repository calls so the audit hooks below can record it.
const ContextUserIDKey contextKey = "acting_user_id"

// ContextWithUserID attaches the acting user to a context.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, ContextUserIDKey, userID)
}

// UserIDFromContext extracts the acting user, if any.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(ContextUserIDKey).(uint)
	return id, ok && id != 0
}

// BaseModel is embedded by every table: primary key, timestamps, soft delete,
// and who-did-it audit columns filled from the context.
type BaseModel struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy *uint
	UpdatedBy *uint
	DeletedBy *uint
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.CreatedBy = &id
		m.UpdatedBy = &id
	}
	return nil
}

func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id, ok := UserIDFromContext(tx.Statement.Context); ok {
		m.UpdatedBy = &id
	}
	return nil
}
