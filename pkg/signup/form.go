// Package signup holds the sign-up sheet model that is persisted as opaque
// JSON on an event, plus the pure builder operations the interactive editor
// drives and the claim policy the booking side must honor.
package signup

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Form is the root sign-up sheet object. Section and question order is
// display order and therefore significant.
type Form struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Sections    []Section  `json:"sections"`
	Questions   []Question `json:"questions"`
	Settings    Settings   `json:"settings"`
}

// Section groups slots under a heading ("Food", "Setup crew", ...).
type Section struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Slots       []Slot `json:"slots"`
}

// Slot is one claimable unit. Capacity nil means unlimited; a capacity is
// never stored as 0 (that would be an unbookable slot), SetCapacity
// normalizes 0 to nil.
type Slot struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Capacity  *int    `json:"capacity"`
	StartTime *string `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Notes     string  `json:"notes,omitempty"`
}

// Question is asked of every guest who signs up.
type Question struct {
	ID        string `json:"id"`
	Prompt    string `json:"prompt"`
	Required  bool   `json:"required"`
	Multiline bool   `json:"multiline"`
}

// Settings tunes the sheet's behavior. Every field has a default; persisted
// settings are a sparse override of DefaultSettings.
type Settings struct {
	AllowMultipleSlotsPerPerson bool  `json:"allowMultipleSlotsPerPerson"`
	WaitlistEnabled             bool  `json:"waitlistEnabled"`
	LockWhenFull                bool  `json:"lockWhenFull"`
	ShowRemainingSpots          bool  `json:"showRemainingSpots"`
	CollectPhone                bool  `json:"collectPhone"`
	CollectEmail                bool  `json:"collectEmail"`
	MaxGuestsPerSignup          int   `json:"maxGuestsPerSignup"`
	AutoRemindersHoursBefore    []int `json:"autoRemindersHoursBefore"`
}

const (
	// MaxSlotCapacity is the upper bound the editor clamps capacities to.
	MaxSlotCapacity = 999
	// MaxGuestsCeiling bounds maxGuestsPerSignup.
	MaxGuestsCeiling = 20
	// MaxReminderHours is 14 days, the furthest-out custom reminder.
	MaxReminderHours = 336
)

// DefaultSettings returns the documented defaults for a fresh sheet.
func DefaultSettings() Settings {
	return Settings{
		AllowMultipleSlotsPerPerson: true,
		WaitlistEnabled:             true,
		LockWhenFull:                false,
		ShowRemainingSpots:          true,
		CollectPhone:                false,
		CollectEmail:                true,
		MaxGuestsPerSignup:          1,
		AutoRemindersHoursBefore:    []int{24},
	}
}

// Normalize clamps MaxGuestsPerSignup into [1, MaxGuestsCeiling] and
// sorts/dedupes the reminder hours, dropping non-positive entries.
func (s *Settings) Normalize() {
	if s.MaxGuestsPerSignup < 1 {
		s.MaxGuestsPerSignup = 1
	}
	if s.MaxGuestsPerSignup > MaxGuestsCeiling {
		s.MaxGuestsPerSignup = MaxGuestsCeiling
	}
	s.AutoRemindersHoursBefore = normalizeHours(s.AutoRemindersHoursBefore)
}

func normalizeHours(hours []int) []int {
	seen := make(map[int]bool, len(hours))
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if h <= 0 || seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, h)
	}
	sort.Ints(out)
	return out
}

// UnmarshalJSON merges the stored settings over the defaults, so a sparse
// settings object only overrides the keys it actually sets.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	merged := plain(DefaultSettings())
	if err := json.Unmarshal(data, &merged); err != nil {
		return err
	}
	*s = Settings(merged)
	s.Normalize()
	return nil
}

// UnmarshalJSON seeds the default settings before decoding, so a payload with
// no settings key at all (older sheets predate it) still comes back with
// DefaultSettings instead of zero values.
func (f *Form) UnmarshalJSON(data []byte) error {
	type plain Form
	merged := plain{Settings: DefaultSettings()}
	if err := json.Unmarshal(data, &merged); err != nil {
		return err
	}
	*f = Form(merged)
	return nil
}

// NewForm creates a sheet with one default section holding one empty slot.
func NewForm() Form {
	return Form{
		Sections:  []Section{NewSection()},
		Questions: []Question{},
		Settings:  DefaultSettings(),
	}
}

// NewSection creates an empty section with a single default slot.
func NewSection() Section {
	return Section{
		ID:    newID(),
		Slots: []Slot{NewSlot()},
	}
}

// NewSlot creates an unlimited, untimed slot.
func NewSlot() Slot {
	return Slot{ID: newID()}
}

func newID() string {
	return uuid.NewString()
}

// FindSection returns the section with the given id, or nil.
func (f *Form) FindSection(sectionID string) *Section {
	for i := range f.Sections {
		if f.Sections[i].ID == sectionID {
			return &f.Sections[i]
		}
	}
	return nil
}

// FindSlot returns the slot with the given id inside the given section.
func (f *Form) FindSlot(sectionID, slotID string) *Slot {
	sec := f.FindSection(sectionID)
	if sec == nil {
		return nil
	}
	for i := range sec.Slots {
		if sec.Slots[i].ID == slotID {
			return &sec.Slots[i]
		}
	}
	return nil
}

// Value implements driver.Valuer so a *Form persists as a JSONB column.
func (f *Form) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("signup form marshal: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Unknown JSON fields are tolerated; absent or
// sparse settings fall back to defaults via the UnmarshalJSON seeding above.
func (f *Form) Scan(value any) error {
	if value == nil {
		*f = Form{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("signup form scan: unsupported column type")
	}
	if len(data) == 0 {
		*f = Form{}
		return nil
	}
	return json.Unmarshal(data, f)
}

// GormDataType tells GORM which column type to migrate to.
func (Form) GormDataType() string {
	return "jsonb"
}
