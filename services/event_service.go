package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/models"
	"envitefy.link/pkg/queryparams"
	"envitefy.link/pkg/recurrence"
	"envitefy.link/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound        EventServiceError = "event not found"
	ErrEventCreationFailed  EventServiceError = "event could not be created"
	ErrEventUpdateFailed    EventServiceError = "event could not be updated"
	ErrEventDeletionFailed  EventServiceError = "event could not be deleted"
	ErrEventForbidden       EventServiceError = "you are not allowed to manage this event"
	ErrEventInvalidInput    EventServiceError = "invalid event data"
	ErrEventTitleRequired   EventServiceError = "event title is required"
	ErrEventStartRequired   EventServiceError = "event start time is required"
	ErrEventBadRecurrence   EventServiceError = "event recurrence rule is not valid"
	ErrEventLinkFailed      EventServiceError = "link for the event could not be created"
	ErrEventPasswordHashing EventServiceError = "event password could not be hashed"
)

// IEventService manages event lifecycle and public resolution by link key.
type IEventService interface {
	CreateEvent(ctx context.Context, creatorUserID uint, detailData models.EventDetail) (*models.Event, error)
	GetEventByID(ctx context.Context, id uint, requestingUserID uint) (*models.Event, error)
	GetEventByKey(ctx context.Context, key string) (*models.Event, error)
	GetEventsForUser(ctx context.Context, creatorUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateEvent(ctx context.Context, id uint, updatingUserID uint, detailData models.EventDetail, isEnabled bool) error
	DeleteEvent(ctx context.Context, id uint, deletingUserID uint) error
}

type EventService struct {
	repo        repositories.IEventRepository
	linkService ILinkService
	typeService ITypeService
	userService IUserService
	db          *gorm.DB
}

func NewEventService() IEventService {
	return &EventService{
		repo:        repositories.NewEventRepository(),
		linkService: NewLinkService(),
		typeService: NewTypeService(),
		userService: NewUserService(),
		db:          configsdatabase.GetDB(),
	}
}

// ValidateEventDetail enforces the required fields and rejects unparseable
// recurrence rules before anything touches the database.
func ValidateEventDetail(detail models.EventDetail) error {
	if detail.Title == "" {
		return ErrEventTitleRequired
	}
	if detail.StartsAt.IsZero() {
		return ErrEventStartRequired
	}
	if err := recurrence.Validate(detail.Recurrence); err != nil {
		return fmt.Errorf("%w: %v", ErrEventBadRecurrence, err)
	}
	return nil
}

// NormalizeEventDetail repairs the ranges the link encoder must never see:
// an end before the start is dropped (the encoder derives one), and reminder
// entries with non-positive lead times are removed.
func NormalizeEventDetail(detail *models.EventDetail) {
	if detail.EndsAt != nil && detail.EndsAt.Before(detail.StartsAt) {
		detail.EndsAt = nil
	}
	if detail.Timezone == "" {
		detail.Timezone = "UTC"
	}
	if len(detail.Reminders) > 0 {
		kept := detail.Reminders[:0]
		for _, r := range detail.Reminders {
			if r.Minutes > 0 {
				kept = append(kept, r)
			}
		}
		detail.Reminders = kept
	}
}

func (s *EventService) CreateEvent(ctx context.Context, creatorUserID uint, detailData models.EventDetail) (*models.Event, error) {
	if err := ValidateEventDetail(detailData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
	}
	if creatorUserID == 0 {
		return nil, fmt.Errorf("%w: missing creator", ErrEventInvalidInput)
	}
	NormalizeEventDetail(&detailData)

	eventType, err := s.typeService.GetTypeByName(ctx, models.TypeNameEvent)
	if err != nil {
		return nil, err
	}

	if detailData.PasswordHash != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(detailData.PasswordHash), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, ErrEventPasswordHashing
		}
		detailData.PasswordHash = string(hashed)
	}

	var createdEvent *models.Event
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(repositories.ContextWithTx(ctx, tx), creatorUserID)
		linkServiceTx := NewLinkServiceTx(tx)
		eventRepoTx := repositories.NewEventRepositoryTx(tx)
		linkRepoTx := repositories.NewLinkRepositoryTx(tx)

		link, err := linkServiceTx.CreateLink(txCtx, creatorUserID, eventType.ID)
		if err != nil {
			return ErrEventLinkFailed
		}

		event := models.Event{
			LinkID:        link.ID,
			CreatorUserID: creatorUserID,
			IsEnabled:     true,
			Detail:        detailData,
		}
		if err := eventRepoTx.Create(txCtx, &event); err != nil {
			return ErrEventCreationFailed
		}

		if err := linkRepoTx.Update(txCtx, link.ID, map[string]any{"target_id": event.ID}); err != nil {
			return ErrEventUpdateFailed
		}

		event.Link = *link
		if event.Link.Type.ID == 0 {
			event.Link.Type = *eventType
		}
		createdEvent = &event
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("CreateEvent transaction failed", zap.Uint("creator", creatorUserID), zap.Error(txErr))
		return nil, txErr
	}

	configslog.SLog.Infow("event created",
		"id", createdEvent.ID, "title", createdEvent.Detail.Title, "key", createdEvent.Link.Key)
	return createdEvent, nil
}

func (s *EventService) GetEventByID(ctx context.Context, id uint, requestingUserID uint) (*models.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	requestingUser, userErr := s.userService.GetUserByID(ctx, requestingUserID)
	if userErr != nil {
		return nil, ErrEventForbidden
	}
	if !requestingUser.IsSystem && event.CreatorUserID != requestingUserID {
		return nil, ErrEventForbidden
	}
	return event, nil
}

// GetEventByKey resolves a public link key to its event. Disabled and
// expired events resolve to not-found; the guest never learns which.
func (s *EventService) GetEventByKey(ctx context.Context, key string) (*models.Event, error) {
	if key == "" {
		return nil, ErrEventNotFound
	}

	link, err := s.linkService.GetLinkByKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrLinkNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	if link.Type.Name != models.TypeNameEvent {
		return nil, ErrEventNotFound
	}

	event, err := s.repo.FindByID(ctx, link.TargetID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		configslog.Log.Error("GetEventByKey: link exists but event is missing",
			zap.Uint("link_id", link.ID), zap.Uint("target_id", link.TargetID))
		return nil, err
	}

	if !event.IsEnabled {
		return nil, ErrEventNotFound
	}
	if event.Detail.ExpiresAt != nil && time.Now().UTC().After(*event.Detail.ExpiresAt) {
		return nil, ErrEventNotFound
	}
	return event, nil
}

func (s *EventService) GetEventsForUser(ctx context.Context, creatorUserID uint, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	if creatorUserID == 0 {
		return nil, fmt.Errorf("%w: missing creator", ErrEventInvalidInput)
	}
	params.Validate()

	events, totalCount, err := s.repo.FindAllByUserIDPaginated(ctx, creatorUserID, params)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: events,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page,
			PerPage:     params.PerPage,
			TotalItems:  totalCount,
			TotalPages:  queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id uint, updatingUserID uint, detailData models.EventDetail, isEnabled bool) error {
	if err := ValidateEventDetail(detailData); err != nil {
		return fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
	}
	if id == 0 || updatingUserID == 0 {
		return fmt.Errorf("%w: missing id or user", ErrEventInvalidInput)
	}
	NormalizeEventDetail(&detailData)

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(repositories.ContextWithTx(ctx, tx), updatingUserID)
		eventRepoTx := repositories.NewEventRepositoryTx(tx)
		userRepoTx := repositories.NewUserRepositoryTx(tx)

		var existing models.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Detail").First(&existing, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		requestingUser, userErr := userRepoTx.FindByID(txCtx, updatingUserID)
		if userErr != nil {
			return ErrEventForbidden
		}
		if !requestingUser.IsSystem && existing.CreatorUserID != updatingUserID {
			return ErrEventForbidden
		}

		existing.IsEnabled = isEnabled

		detail := existing.Detail
		detail.Title = detailData.Title
		detail.Description = detailData.Description
		detail.StartsAt = detailData.StartsAt
		detail.EndsAt = detailData.EndsAt
		detail.AllDay = detailData.AllDay
		detail.Timezone = detailData.Timezone
		detail.Venue = detailData.Venue
		detail.LocationText = detailData.LocationText
		detail.LocationURL = detailData.LocationURL
		detail.Theme = detailData.Theme
		detail.Recurrence = detailData.Recurrence
		detail.Reminders = detailData.Reminders
		detail.ExpiresAt = detailData.ExpiresAt
		detail.SignupForm = detailData.SignupForm

		// An empty password keeps the existing hash.
		if detailData.PasswordHash != "" {
			hashed, hashErr := bcrypt.GenerateFromPassword([]byte(detailData.PasswordHash), bcrypt.DefaultCost)
			if hashErr != nil {
				return ErrEventPasswordHashing
			}
			detail.PasswordHash = string(hashed)
		}

		if err := eventRepoTx.UpdateDetail(txCtx, &detail); err != nil {
			return ErrEventUpdateFailed
		}
		if err := eventRepoTx.Update(txCtx, &existing); err != nil {
			return ErrEventUpdateFailed
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("UpdateEvent transaction failed", zap.Uint("id", id), zap.Uint("user_id", updatingUserID), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infow("event updated", "id", id, "updated_by", updatingUserID)
	return nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uint, deletingUserID uint) error {
	if id == 0 || deletingUserID == 0 {
		return fmt.Errorf("%w: missing id or user", ErrEventInvalidInput)
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := models.ContextWithUserID(repositories.ContextWithTx(ctx, tx), deletingUserID)
		eventRepoTx := repositories.NewEventRepositoryTx(tx)
		linkRepoTx := repositories.NewLinkRepositoryTx(tx)
		userRepoTx := repositories.NewUserRepositoryTx(tx)

		var event models.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Preload("Link").First(&event, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return err
		}

		requestingUser, userErr := userRepoTx.FindByID(txCtx, deletingUserID)
		if userErr != nil {
			return ErrEventForbidden
		}
		if !requestingUser.IsSystem && event.CreatorUserID != deletingUserID {
			return ErrEventForbidden
		}

		if err := eventRepoTx.Delete(txCtx, &event, deletingUserID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return ErrEventDeletionFailed
		}
		if event.Link.ID != 0 {
			if err := linkRepoTx.Delete(txCtx, &event.Link, deletingUserID); err != nil && !errors.Is(err, repositories.ErrNotFound) {
				return ErrEventDeletionFailed
			}
		}
		return nil
	})
	if txErr != nil {
		configslog.Log.Error("DeleteEvent transaction failed", zap.Uint("id", id), zap.Uint("user_id", deletingUserID), zap.Error(txErr))
		return txErr
	}

	configslog.SLog.Infow("event and link deleted", "id", id, "deleted_by", deletingUserID)
	return nil
}

var _ IEventService = (*EventService)(nil)
