package services

import (
	"context"
	"errors"
	"time"

	"envitefy.link/configs/configsdatabase"
	"envitefy.link/configs/configslog"
	"envitefy.link/models"
	"envitefy.link/pkg/signup"
	"envitefy.link/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SignupServiceError string

func (e SignupServiceError) Error() string { return string(e) }

const (
	ErrSignupNotOpen      SignupServiceError = "this event has no signup sheet"
	ErrSignupGuestInvalid SignupServiceError = "a guest name is required to sign up"
)

// ClaimRequest is a guest's submission against one slot of an event's sheet.
type ClaimRequest struct {
	SectionID string
	SlotID    string
	Quantity  int
	Name      string
	Email     string
	Phone     string
	Answers   map[string]string
}

// SlotAvailability is what the public page shows per slot when the sheet has
// showRemainingSpots enabled. Remaining is nil for unlimited slots.
type SlotAvailability struct {
	SlotID    string `json:"slotId"`
	Capacity  *int   `json:"capacity"`
	Confirmed int    `json:"confirmed"`
	Remaining *int   `json:"remaining"`
}

// ISignupService executes claims and reports slot availability.
type ISignupService interface {
	SubmitClaim(ctx context.Context, key string, req ClaimRequest) (*models.SignupResponse, error)
	ListResponses(ctx context.Context, eventID uint, requestingUserID uint) ([]models.SignupResponse, error)
	SlotAvailabilities(ctx context.Context, event *models.Event) ([]SlotAvailability, error)
}

type SignupService struct {
	eventService EventLookup
	responses    repositories.ISignupResponseRepository
	db           *gorm.DB
}

// EventLookup is the slice of IEventService this service needs; keeping it
// narrow makes the claim path testable without the full event stack.
type EventLookup interface {
	GetEventByKey(ctx context.Context, key string) (*models.Event, error)
	GetEventByID(ctx context.Context, id uint, requestingUserID uint) (*models.Event, error)
}

func NewSignupService() ISignupService {
	return &SignupService{
		eventService: NewEventService(),
		responses:    repositories.NewSignupResponseRepository(),
		db:           configsdatabase.GetDB(),
	}
}

// SubmitClaim runs the full booking flow: resolve the key, lock the event
// row so concurrent claims serialize, snapshot confirmed quantities, apply
// the policy, and record the response. Policy rejections come back as the
// signup package's typed errors so handlers can tell the guest why.
func (s *SignupService) SubmitClaim(ctx context.Context, key string, req ClaimRequest) (*models.SignupResponse, error) {
	if req.Name == "" {
		return nil, ErrSignupGuestInvalid
	}

	// Resolve outside the transaction; enabled/expiry checks happen here.
	resolved, err := s.eventService.GetEventByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	var created *models.SignupResponse
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := repositories.ContextWithTx(ctx, tx)
		eventRepoTx := repositories.NewEventRepositoryTx(tx)
		responseRepoTx := repositories.NewSignupResponseRepositoryTx(tx)

		// All claims for one event serialize on this lock; slots live inside
		// the form JSON, so the event row is the consistency unit.
		event, err := eventRepoTx.FindByIDLocked(txCtx, resolved.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrEventNotFound
			}
			return err
		}
		form := event.Detail.SignupForm
		if form == nil || len(form.Sections) == 0 {
			return ErrSignupNotOpen
		}

		confirmedQty, err := responseRepoTx.SumConfirmedQuantity(txCtx, event.ID, req.SlotID)
		if err != nil {
			return err
		}
		guestClaims, err := responseRepoTx.FindByEventForGuest(txCtx, event.ID, req.Email, req.Phone, req.Name)
		if err != nil {
			return err
		}
		existing := make([]signup.ExistingClaim, 0, len(guestClaims))
		for _, gc := range guestClaims {
			existing = append(existing, signup.ExistingClaim{
				SlotID:     gc.SlotID,
				Status:     signup.ClaimStatus(gc.Status),
				GuestName:  gc.GuestName,
				GuestEmail: gc.GuestEmail,
				GuestPhone: gc.GuestPhone,
			})
		}

		status, quantity, err := signup.Decide(*form, signup.Claim{
			SectionID:  req.SectionID,
			SlotID:     req.SlotID,
			Quantity:   req.Quantity,
			GuestName:  req.Name,
			GuestEmail: req.Email,
			GuestPhone: req.Phone,
		}, confirmedQty, existing)
		if err != nil {
			return err
		}

		response := models.SignupResponse{
			EventID:     event.ID,
			SectionID:   req.SectionID,
			SlotID:      req.SlotID,
			GuestName:   req.Name,
			GuestEmail:  req.Email,
			GuestPhone:  req.Phone,
			Quantity:    quantity,
			Status:      models.ResponseStatus(status),
			Answers:     req.Answers,
			RespondedAt: time.Now().UTC(),
		}
		if err := responseRepoTx.Create(txCtx, &response); err != nil {
			return err
		}
		created = &response
		return nil
	})
	if txErr != nil {
		var policyErr signup.PolicyError
		if errors.As(txErr, &policyErr) {
			// Expected rejections; the guest gets told, no error log.
			return nil, txErr
		}
		if errors.Is(txErr, ErrEventNotFound) || errors.Is(txErr, ErrSignupNotOpen) {
			return nil, txErr
		}
		configslog.Log.Error("SubmitClaim transaction failed", zap.String("key", key), zap.Error(txErr))
		return nil, txErr
	}

	configslog.SLog.Infow("signup claim recorded",
		"event_id", created.EventID, "slot_id", created.SlotID,
		"status", created.Status, "quantity", created.Quantity)
	return created, nil
}

func (s *SignupService) ListResponses(ctx context.Context, eventID uint, requestingUserID uint) ([]models.SignupResponse, error) {
	// Reuses the event fetch for its ownership check.
	if _, err := s.eventService.GetEventByID(ctx, eventID, requestingUserID); err != nil {
		return nil, err
	}
	return s.responses.FindByEventID(ctx, eventID)
}

// SlotAvailabilities reports per-slot confirmed totals and remaining spots
// for an already-resolved event. Returns nil when the sheet hides remaining
// spots or there is no sheet.
func (s *SignupService) SlotAvailabilities(ctx context.Context, event *models.Event) ([]SlotAvailability, error) {
	form := event.Detail.SignupForm
	if form == nil || !form.Settings.ShowRemainingSpots {
		return nil, nil
	}
	totals, err := s.responses.SumConfirmedQuantities(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	var out []SlotAvailability
	for _, sec := range form.Sections {
		for _, slot := range sec.Slots {
			av := SlotAvailability{
				SlotID:    slot.ID,
				Capacity:  slot.Capacity,
				Confirmed: totals[slot.ID],
			}
			if slot.Capacity != nil {
				remaining := *slot.Capacity - av.Confirmed
				if remaining < 0 {
					remaining = 0
				}
				av.Remaining = &remaining
			}
			out = append(out, av)
		}
	}
	return out, nil
}

var _ ISignupService = (*SignupService)(nil)
