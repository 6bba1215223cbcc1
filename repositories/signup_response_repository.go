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

// ISignupResponseRepository handles guest claims against signup slots.
type ISignupResponseRepository interface {
	Create(ctx context.Context, response *models.SignupResponse) error
	FindByEventID(ctx context.Context, eventID uint) ([]models.SignupResponse, error)
	FindByEventForGuest(ctx context.Context, eventID uint, email, phone, name string) ([]models.SignupResponse, error)
	SumConfirmedQuantity(ctx context.Context, eventID uint, slotID string) (int, error)
	SumConfirmedQuantities(ctx context.Context, eventID uint) (map[string]int, error)
	Delete(ctx context.Context, response *models.SignupResponse, deletedByUserID uint) error
}

type SignupResponseRepository struct {
	db *gorm.DB
}

func NewSignupResponseRepository() ISignupResponseRepository {
	return &SignupResponseRepository{db: configsdatabase.GetDB()}
}

// NewSignupResponseRepositoryTx binds the repository to an open transaction.
func NewSignupResponseRepositoryTx(tx *gorm.DB) ISignupResponseRepository {
	return &SignupResponseRepository{db: tx}
}

func (r *SignupResponseRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *SignupResponseRepository) Create(ctx context.Context, response *models.SignupResponse) error {
	if response == nil || response.EventID == 0 || response.SlotID == "" {
		return errors.New("signup response requires an event and a slot")
	}
	return r.getDB(ctx).Create(response).Error
}

func (r *SignupResponseRepository) FindByEventID(ctx context.Context, eventID uint) ([]models.SignupResponse, error) {
	if eventID == 0 {
		return nil, errors.New("invalid event id")
	}
	var responses []models.SignupResponse
	err := r.getDB(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&responses).Error
	if err != nil {
		configslog.Log.Error("SignupResponseRepository.FindByEventID: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return responses, nil
}

// FindByEventForGuest returns the claims that could belong to the same guest,
// matched the way the policy correlates identity: email, else phone, else
// exact name. Empty identity matches nothing.
func (r *SignupResponseRepository) FindByEventForGuest(ctx context.Context, eventID uint, email, phone, name string) ([]models.SignupResponse, error) {
	if eventID == 0 {
		return nil, errors.New("invalid event id")
	}
	query := r.getDB(ctx).Where("event_id = ?", eventID)
	switch {
	case email != "":
		query = query.Where("LOWER(guest_email) = LOWER(?)", email)
	case phone != "":
		query = query.Where("guest_phone = ?", phone)
	case name != "":
		query = query.Where("guest_name = ?", name)
	default:
		return nil, nil
	}
	var responses []models.SignupResponse
	if err := query.Find(&responses).Error; err != nil {
		configslog.Log.Error("SignupResponseRepository.FindByEventForGuest: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return responses, nil
}

// SumConfirmedQuantity totals confirmed quantities for one slot. Waitlisted
// claims do not consume capacity.
func (r *SignupResponseRepository) SumConfirmedQuantity(ctx context.Context, eventID uint, slotID string) (int, error) {
	if eventID == 0 || slotID == "" {
		return 0, errors.New("invalid event or slot id")
	}
	var total int64
	err := r.getDB(ctx).
		Model(&models.SignupResponse{}).
		Where("event_id = ? AND slot_id = ? AND status = ?", eventID, slotID, models.ResponseStatusConfirmed).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		configslog.Log.Error("SignupResponseRepository.SumConfirmedQuantity: DB error",
			zap.Uint("event_id", eventID), zap.String("slot_id", slotID), zap.Error(err))
		return 0, err
	}
	return int(total), nil
}

// SumConfirmedQuantities totals confirmed quantities per slot for a whole
// event, for the remaining-spots display.
func (r *SignupResponseRepository) SumConfirmedQuantities(ctx context.Context, eventID uint) (map[string]int, error) {
	if eventID == 0 {
		return nil, errors.New("invalid event id")
	}
	var rows []struct {
		SlotID string
		Total  int64
	}
	err := r.getDB(ctx).
		Model(&models.SignupResponse{}).
		Where("event_id = ? AND status = ?", eventID, models.ResponseStatusConfirmed).
		Select("slot_id, COALESCE(SUM(quantity), 0) AS total").
		Group("slot_id").
		Scan(&rows).Error
	if err != nil {
		configslog.Log.Error("SignupResponseRepository.SumConfirmedQuantities: DB error", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.SlotID] = int(row.Total)
	}
	return totals, nil
}

func (r *SignupResponseRepository) Delete(ctx context.Context, response *models.SignupResponse, deletedByUserID uint) error {
	if response == nil || response.ID == 0 {
		return errors.New("invalid signup response")
	}
	return softDelete(r.getDB(ctx), response, response.ID, deletedByUserID)
}

var _ ISignupResponseRepository = (*SignupResponseRepository)(nil)
