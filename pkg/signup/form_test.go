package signup

import (
	"encoding/json"
	"testing"
)

func TestSettingsSparseUnmarshalMergesDefaults(t *testing.T) {
	var s Settings
	if err := json.Unmarshal([]byte(`{"lockWhenFull":true}`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !s.LockWhenFull {
		t.Error("explicit lockWhenFull override lost")
	}
	if !s.WaitlistEnabled {
		t.Error("waitlistEnabled default not applied")
	}
	if s.MaxGuestsPerSignup != 1 {
		t.Errorf("maxGuestsPerSignup default not applied: %d", s.MaxGuestsPerSignup)
	}
	if len(s.AutoRemindersHoursBefore) != 1 || s.AutoRemindersHoursBefore[0] != 24 {
		t.Errorf("reminder default not applied: %v", s.AutoRemindersHoursBefore)
	}
}

func TestSettingsUnmarshalNormalizes(t *testing.T) {
	var s Settings
	raw := `{"maxGuestsPerSignup":100,"autoRemindersHoursBefore":[48,-1,24,24]}`
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.MaxGuestsPerSignup != MaxGuestsCeiling {
		t.Errorf("want clamp to %d, got %d", MaxGuestsCeiling, s.MaxGuestsPerSignup)
	}
	if got := s.AutoRemindersHoursBefore; len(got) != 2 || got[0] != 24 || got[1] != 48 {
		t.Errorf("want [24 48], got %v", got)
	}
}

func TestFormScanRoundTrip(t *testing.T) {
	form := NewForm()
	form.Title = "Potluck"
	form.Sections[0].Title = "Mains"

	val, err := (&form).Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var back Form
	if err := back.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if back.Title != "Potluck" || back.Sections[0].Title != "Mains" {
		t.Errorf("round trip lost data: %+v", back)
	}
	if back.Settings.MaxGuestsPerSignup != 1 {
		t.Errorf("settings lost in round trip: %+v", back.Settings)
	}
}

func TestFormScanNil(t *testing.T) {
	var f Form
	if err := f.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	var nilForm *Form
	val, err := nilForm.Value()
	if err != nil || val != nil {
		t.Errorf("nil form should persist as NULL, got %v, %v", val, err)
	}
}

func TestFormScanMissingSettingsGetsDefaults(t *testing.T) {
	// Sheets persisted before the settings key existed carry no settings
	// object at all; they must still behave like a default sheet.
	var f Form
	raw := `{"title":"Potluck","sections":[{"id":"a","slots":[{"id":"s","capacity":2}]}]}`
	if err := f.Scan([]byte(raw)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !f.Settings.WaitlistEnabled {
		t.Error("WaitlistEnabled default not applied")
	}
	if f.Settings.MaxGuestsPerSignup != 1 {
		t.Errorf("MaxGuestsPerSignup default not applied: %d", f.Settings.MaxGuestsPerSignup)
	}

	// The consequence that matters: a full slot waitlists instead of
	// soft-confirming over capacity.
	status, _, err := Decide(f, Claim{SectionID: "a", SlotID: "s", GuestName: "Ada"}, 2, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != ClaimWaitlisted {
		t.Errorf("full slot: got %q, want %q under default settings", status, ClaimWaitlisted)
	}
}

func TestFindSlot(t *testing.T) {
	form := Form{Sections: []Section{{ID: "a", Slots: []Slot{{ID: "s1"}}}}}
	if form.FindSlot("a", "s1") == nil {
		t.Error("existing slot not found")
	}
	if form.FindSlot("a", "nope") != nil {
		t.Error("unknown slot id should return nil")
	}
	if form.FindSlot("nope", "s1") != nil {
		t.Error("unknown section id should return nil")
	}
}
