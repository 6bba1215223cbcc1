package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/models"
	"envitefy.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IEventRepository handles event roots and their detail rows.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	FindByIDLocked(ctx context.Context, id uint) (*models.Event, error)
	FindByLinkID(ctx context.Context, linkID uint) (*models.Event, error)
	FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Event, int64, error)
	FindUpcoming(ctx context.Context, until time.Time) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateDetail(ctx context.Context, detail *models.EventDetail) error
	Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type EventRepository struct {
	db   *gorm.DB
	base IBaseRepository[models.Event]
}

func NewEventRepository() IEventRepository {
	db := configsdatabase.GetDB()
	base := NewBaseRepository[models.Event](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "is_enabled", "title", "starts_at"})
	return &EventRepository{db: db, base: base}
}

// NewEventRepositoryTx binds the repository to an open transaction.
func NewEventRepositoryTx(tx *gorm.DB) IEventRepository {
	base := NewBaseRepository[models.Event](tx)
	base.SetAllowedSortColumns([]string{"id", "created_at", "is_enabled"})
	return &EventRepository{db: tx, base: base}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if event == nil || event.LinkID == 0 {
		return errors.New("event requires a link")
	}
	return r.getDB(ctx).Create(event).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).Preload("Detail").Preload("Link.Type").First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByID: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// FindByIDLocked loads the event with a FOR UPDATE row lock. Claims against
// the event's slots serialize on this lock; call it inside a transaction.
func (r *EventRepository) FindByIDLocked(ctx context.Context, id uint) (*models.Event, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Detail").
		First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByIDLocked: DB error", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) FindByLinkID(ctx context.Context, linkID uint) (*models.Event, error) {
	if linkID == 0 {
		return nil, ErrNotFound
	}
	var event models.Event
	err := r.getDB(ctx).Preload("Detail").Preload("Link.Type").Where("link_id = ?", linkID).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventRepository.FindByLinkID: DB error", zap.Uint("link_id", linkID), zap.Error(err))
		return nil, err
	}
	return &event, nil
}

// applyEventFilters adds the title filter, status filter, and sorting shared
// by the paginated finders.
func (r *EventRepository) applyEventFilters(query *gorm.DB, params queryparams.ListParams) *gorm.DB {
	joined := false
	if params.Name != "" {
		query = query.
			Joins("JOIN event_details ON event_details.event_id = events.id").
			Where("event_details.title ILIKE ?", "%"+params.Name+"%")
		joined = true
	}
	if params.Status != "" {
		query = query.Where("events.is_enabled = ?", params.Status == "true")
	}

	orderBy := strings.ToLower(params.OrderBy)
	if orderBy != "asc" && orderBy != "desc" {
		orderBy = queryparams.DefaultOrderBy
	}
	sortColumns := map[string]string{
		"id":         "events.id",
		"created_at": "events.created_at",
		"is_enabled": "events.is_enabled",
		"title":      "event_details.title",
		"starts_at":  "event_details.starts_at",
	}
	orderColumn, ok := sortColumns[params.SortBy]
	if !ok {
		configslog.SLog.Warnw("unknown event sort column requested, using default", "sort_by", params.SortBy)
		orderColumn = "events.created_at"
	}
	if (orderColumn == "event_details.title" || orderColumn == "event_details.starts_at") && !joined {
		query = query.Joins("JOIN event_details ON event_details.event_id = events.id")
		joined = true
	}
	if joined {
		query = query.Select("events.*")
	}
	return query.Order(orderColumn + " " + orderBy)
}

func (r *EventRepository) FindAllByUserIDPaginated(ctx context.Context, userID uint, params queryparams.ListParams) ([]models.Event, int64, error) {
	if userID == 0 {
		return nil, 0, errors.New("invalid user id")
	}
	var events []models.Event
	var totalCount int64

	query := r.getDB(ctx).Model(&models.Event{}).Where("events.creator_user_id = ?", userID)
	query = r.applyEventFilters(query, params)

	if err := query.Count(&totalCount).Error; err != nil {
		configslog.Log.Error("EventRepository.Count: DB error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	if totalCount == 0 {
		return events, 0, nil
	}

	err := query.
		Preload("Detail").Preload("Link.Type").
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.Find: DB error", zap.Uint("user_id", userID), zap.Error(err))
		return nil, totalCount, err
	}
	return events, totalCount, nil
}

// FindUpcoming returns enabled, unexpired events whose start (not accounting
// for recurrence) falls before until. The reminder scheduler re-checks
// recurring events itself.
func (r *EventRepository) FindUpcoming(ctx context.Context, until time.Time) ([]models.Event, error) {
	var events []models.Event
	now := time.Now().UTC()
	err := r.getDB(ctx).
		Joins("JOIN event_details ON event_details.event_id = events.id").
		Where("events.is_enabled = ?", true).
		Where("event_details.expires_at IS NULL OR event_details.expires_at > ?", now).
		Where("event_details.starts_at < ? OR event_details.recurrence <> ''", until).
		Select("events.*").
		Preload("Detail").
		Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindUpcoming: DB error", zap.Error(err))
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	if event == nil || event.ID == 0 {
		return errors.New("invalid event")
	}
	return r.getDB(ctx).Save(event).Error
}

func (r *EventRepository) UpdateDetail(ctx context.Context, detail *models.EventDetail) error {
	if detail == nil || detail.ID == 0 {
		return errors.New("invalid event detail")
	}
	return r.getDB(ctx).Save(detail).Error
}

func (r *EventRepository) Delete(ctx context.Context, event *models.Event, deletedByUserID uint) error {
	if event == nil || event.ID == 0 {
		return errors.New("invalid event")
	}
	return softDelete(r.getDB(ctx), event, event.ID, deletedByUserID)
}

func (r *EventRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	if userID == 0 {
		return 0, errors.New("invalid user id")
	}
	var count int64
	err := r.getDB(ctx).Model(&models.Event{}).Where("creator_user_id = ?", userID).Count(&count).Error
	return count, err
}

var _ IEventRepository = (*EventRepository)(nil)
