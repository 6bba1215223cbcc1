package signup

import "strings"

// ClaimStatus is the outcome of an accepted claim.
type ClaimStatus string

const (
	ClaimConfirmed  ClaimStatus = "confirmed"
	ClaimWaitlisted ClaimStatus = "waitlisted"
)

// PolicyError is a rejection the guest must be told about.
type PolicyError string

func (e PolicyError) Error() string { return string(e) }

const (
	ErrSectionNotFound PolicyError = "signup section not found"
	ErrSlotNotFound    PolicyError = "signup slot not found"
	ErrSlotClosed      PolicyError = "this slot is full and closed to new signups"
	ErrAlreadyClaimed  PolicyError = "this guest already holds a spot on another slot"
)

// Claim is a guest's request against one slot.
type Claim struct {
	SectionID  string
	SlotID     string
	Quantity   int
	GuestName  string
	GuestEmail string
	GuestPhone string
}

// ExistingClaim is the minimum the policy needs to know about claims already
// recorded for the form.
type ExistingClaim struct {
	SlotID     string
	Status     ClaimStatus
	GuestName  string
	GuestEmail string
	GuestPhone string
}

// Decide evaluates a claim against the sheet and the already-confirmed
// quantity for the target slot. The ordered policy is: fits remaining
// capacity → confirmed; waitlist enabled → waitlisted; lock-when-full →
// rejected; otherwise confirmed as a soft overflow. confirmedQty must come
// from a consistent snapshot (the caller holds the row lock).
//
// The returned quantity is the claim quantity clamped into
// [1, maxGuestsPerSignup].
func Decide(f Form, claim Claim, confirmedQty int, existing []ExistingClaim) (ClaimStatus, int, error) {
	if f.FindSection(claim.SectionID) == nil {
		return "", 0, ErrSectionNotFound
	}
	slot := f.FindSlot(claim.SectionID, claim.SlotID)
	if slot == nil {
		return "", 0, ErrSlotNotFound
	}

	settings := cloneSettings(f.Settings)
	settings.Normalize()

	qty := claim.Quantity
	if qty < 1 {
		qty = 1
	}
	if qty > settings.MaxGuestsPerSignup {
		qty = settings.MaxGuestsPerSignup
	}

	if !settings.AllowMultipleSlotsPerPerson {
		for _, ex := range existing {
			if ex.SlotID == claim.SlotID {
				continue
			}
			if sameGuest(claim, ex) {
				return "", 0, ErrAlreadyClaimed
			}
		}
	}

	// Unlimited capacity always confirms.
	if slot.Capacity == nil {
		return ClaimConfirmed, qty, nil
	}

	remaining := *slot.Capacity - confirmedQty
	if remaining >= qty {
		return ClaimConfirmed, qty, nil
	}
	if settings.WaitlistEnabled {
		return ClaimWaitlisted, qty, nil
	}
	if settings.LockWhenFull {
		return "", 0, ErrSlotClosed
	}
	// Neither waitlist nor lock: capacity is a soft limit.
	return ClaimConfirmed, qty, nil
}

// sameGuest correlates claims by contact info: email first (case
// insensitive), then phone, then exact name. A guest with no contact info at
// all can never be correlated and is never blocked.
func sameGuest(claim Claim, ex ExistingClaim) bool {
	if claim.GuestEmail != "" && ex.GuestEmail != "" {
		return strings.EqualFold(claim.GuestEmail, ex.GuestEmail)
	}
	if claim.GuestPhone != "" && ex.GuestPhone != "" {
		return claim.GuestPhone == ex.GuestPhone
	}
	if claim.GuestName != "" && ex.GuestName != "" {
		return claim.GuestName == ex.GuestName
	}
	return false
}
