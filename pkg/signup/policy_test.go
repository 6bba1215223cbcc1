package signup

import (
	"errors"
	"testing"
)

func sheetWithCapacity(capacity *int, settings Settings) Form {
	return Form{
		Sections: []Section{{
			ID:    "sec",
			Slots: []Slot{{ID: "slot", Capacity: capacity}},
		}},
		Settings: settings,
	}
}

func TestDecideConfirmsWithinCapacity(t *testing.T) {
	form := sheetWithCapacity(intPtr(5), DefaultSettings())
	claim := Claim{SectionID: "sec", SlotID: "slot", Quantity: 1, GuestName: "Ada"}

	status, qty, err := Decide(form, claim, 4, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ClaimConfirmed || qty != 1 {
		t.Errorf("want confirmed/1, got %s/%d", status, qty)
	}
}

func TestDecideWaitlistsWhenFull(t *testing.T) {
	form := sheetWithCapacity(intPtr(5), DefaultSettings())
	claim := Claim{SectionID: "sec", SlotID: "slot", Quantity: 1, GuestName: "Ada"}

	status, _, err := Decide(form, claim, 5, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ClaimWaitlisted {
		t.Errorf("want waitlisted, got %s", status)
	}
}

func TestDecideWaitlistBeatsLock(t *testing.T) {
	settings := DefaultSettings()
	settings.WaitlistEnabled = true
	settings.LockWhenFull = true
	form := sheetWithCapacity(intPtr(1), settings)
	claim := Claim{SectionID: "sec", SlotID: "slot", GuestName: "Ada"}

	status, _, err := Decide(form, claim, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ClaimWaitlisted {
		t.Errorf("waitlist should take precedence over lock, got %s", status)
	}
}

func TestDecideLockRejectsWhenFull(t *testing.T) {
	settings := DefaultSettings()
	settings.WaitlistEnabled = false
	settings.LockWhenFull = true
	form := sheetWithCapacity(intPtr(2), settings)
	claim := Claim{SectionID: "sec", SlotID: "slot", GuestName: "Ada"}

	_, _, err := Decide(form, claim, 2, nil)
	if !errors.Is(err, ErrSlotClosed) {
		t.Errorf("want ErrSlotClosed, got %v", err)
	}
}

func TestDecideSoftOverflow(t *testing.T) {
	settings := DefaultSettings()
	settings.WaitlistEnabled = false
	settings.LockWhenFull = false
	form := sheetWithCapacity(intPtr(2), settings)
	claim := Claim{SectionID: "sec", SlotID: "slot", GuestName: "Ada"}

	status, _, err := Decide(form, claim, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ClaimConfirmed {
		t.Errorf("soft overflow should confirm, got %s", status)
	}
}

func TestDecideUnlimitedAlwaysConfirms(t *testing.T) {
	form := sheetWithCapacity(nil, DefaultSettings())
	claim := Claim{SectionID: "sec", SlotID: "slot", GuestName: "Ada"}

	status, _, err := Decide(form, claim, 100000, nil)
	if err != nil || status != ClaimConfirmed {
		t.Errorf("unlimited slot must confirm, got %s, %v", status, err)
	}
}

func TestDecideClampsQuantity(t *testing.T) {
	settings := DefaultSettings()
	settings.MaxGuestsPerSignup = 3
	form := sheetWithCapacity(nil, settings)

	for _, tc := range []struct{ in, want int }{
		{0, 1}, {-4, 1}, {2, 2}, {10, 3},
	} {
		claim := Claim{SectionID: "sec", SlotID: "slot", Quantity: tc.in, GuestName: "Ada"}
		_, qty, err := Decide(form, claim, 0, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if qty != tc.want {
			t.Errorf("quantity %d: want %d, got %d", tc.in, tc.want, qty)
		}
	}
}

func TestDecideSingleSlotRestriction(t *testing.T) {
	settings := DefaultSettings()
	settings.AllowMultipleSlotsPerPerson = false
	form := Form{
		Sections: []Section{{
			ID:    "sec",
			Slots: []Slot{{ID: "slot-a"}, {ID: "slot-b"}},
		}},
		Settings: settings,
	}
	existing := []ExistingClaim{{SlotID: "slot-a", Status: ClaimConfirmed, GuestEmail: "ada@example.com"}}

	claim := Claim{SectionID: "sec", SlotID: "slot-b", GuestEmail: "ADA@example.com"}
	_, _, err := Decide(form, claim, 0, existing)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("email match should block a second slot, got %v", err)
	}

	// Re-claiming the same slot is not blocked by the restriction.
	claim.SlotID = "slot-a"
	if _, _, err := Decide(form, claim, 0, existing); err != nil {
		t.Errorf("same-slot claim should pass, got %v", err)
	}

	// No contact info at all: the guest cannot be correlated.
	anon := Claim{SectionID: "sec", SlotID: "slot-b"}
	if _, _, err := Decide(form, anon, 0, existing); err != nil {
		t.Errorf("anonymous guest should not be blocked, got %v", err)
	}
}

func TestDecideUnknownTargets(t *testing.T) {
	form := sheetWithCapacity(nil, DefaultSettings())

	_, _, err := Decide(form, Claim{SectionID: "nope", SlotID: "slot"}, 0, nil)
	if !errors.Is(err, ErrSectionNotFound) {
		t.Errorf("want ErrSectionNotFound, got %v", err)
	}
	_, _, err = Decide(form, Claim{SectionID: "sec", SlotID: "nope"}, 0, nil)
	if !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("want ErrSlotNotFound, got %v", err)
	}
}
