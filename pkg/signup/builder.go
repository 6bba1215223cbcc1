package signup

import (
	"math"
	"strconv"
	"strings"
)

// Builder operations are pure: they leave the input untouched and return the
// next form. Bad indices or unknown ids are no-ops, never errors — the editor
// driving these must survive a stray click.

// AddSection appends a fresh section with one empty slot.
func AddSection(f Form) Form {
	out := cloneForm(f)
	out.Sections = append(out.Sections, NewSection())
	return out
}

// RemoveSection drops the section with the given id. Unknown id is a no-op.
func RemoveSection(f Form, sectionID string) Form {
	out := cloneForm(f)
	kept := out.Sections[:0]
	for _, sec := range out.Sections {
		if sec.ID != sectionID {
			kept = append(kept, sec)
		}
	}
	out.Sections = kept
	return out
}

// MoveSection swaps the section at index with its neighbor at
// index+direction. Out-of-bounds moves return the form unchanged.
func MoveSection(f Form, index, direction int) Form {
	target := index + direction
	if index < 0 || index >= len(f.Sections) || target < 0 || target >= len(f.Sections) {
		return f
	}
	out := cloneForm(f)
	out.Sections[index], out.Sections[target] = out.Sections[target], out.Sections[index]
	return out
}

// DuplicateSection inserts a copy right after the original, with fresh ids
// for the section and every slot. Unknown id is a no-op.
func DuplicateSection(f Form, sectionID string) Form {
	idx := sectionIndex(f, sectionID)
	if idx < 0 {
		return f
	}
	out := cloneForm(f)
	dup := cloneSection(out.Sections[idx])
	dup.ID = newID()
	if dup.Title != "" {
		dup.Title += " (copy)"
	}
	for i := range dup.Slots {
		dup.Slots[i].ID = newID()
	}
	out.Sections = append(out.Sections, Section{})
	copy(out.Sections[idx+2:], out.Sections[idx+1:])
	out.Sections[idx+1] = dup
	return out
}

// AddSlot appends an empty slot to the given section.
func AddSlot(f Form, sectionID string) Form {
	idx := sectionIndex(f, sectionID)
	if idx < 0 {
		return f
	}
	out := cloneForm(f)
	out.Sections[idx].Slots = append(out.Sections[idx].Slots, NewSlot())
	return out
}

// RemoveSlot drops the slot with the given id from the section.
func RemoveSlot(f Form, sectionID, slotID string) Form {
	idx := sectionIndex(f, sectionID)
	if idx < 0 {
		return f
	}
	out := cloneForm(f)
	slots := out.Sections[idx].Slots
	kept := slots[:0]
	for _, sl := range slots {
		if sl.ID != slotID {
			kept = append(kept, sl)
		}
	}
	out.Sections[idx].Slots = kept
	return out
}

// MoveSlot swaps the slot at index with its neighbor inside one section.
func MoveSlot(f Form, sectionID string, index, direction int) Form {
	idx := sectionIndex(f, sectionID)
	if idx < 0 {
		return f
	}
	slots := f.Sections[idx].Slots
	target := index + direction
	if index < 0 || index >= len(slots) || target < 0 || target >= len(slots) {
		return f
	}
	out := cloneForm(f)
	s := out.Sections[idx].Slots
	s[index], s[target] = s[target], s[index]
	return out
}

// DuplicateSlot inserts a copy of the slot right after the original, with a
// fresh id and a " (copy)" label suffix when a label is set.
func DuplicateSlot(f Form, sectionID, slotID string) Form {
	idx := sectionIndex(f, sectionID)
	if idx < 0 {
		return f
	}
	slotIdx := -1
	for i, sl := range f.Sections[idx].Slots {
		if sl.ID == slotID {
			slotIdx = i
			break
		}
	}
	if slotIdx < 0 {
		return f
	}
	out := cloneForm(f)
	dup := cloneSlot(out.Sections[idx].Slots[slotIdx])
	dup.ID = newID()
	if dup.Label != "" {
		dup.Label += " (copy)"
	}
	slots := append(out.Sections[idx].Slots, Slot{})
	copy(slots[slotIdx+2:], slots[slotIdx+1:])
	slots[slotIdx+1] = dup
	out.Sections[idx].Slots = slots
	return out
}

// SetCapacity parses raw and clamps it into [0, MaxSlotCapacity]. Blank,
// non-numeric, negative, and zero inputs all normalize to unlimited (nil) —
// the editor fails open rather than rejecting bad input.
func SetCapacity(s Slot, raw string) Slot {
	out := cloneSlot(s)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		out.Capacity = nil
		return out
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		if fv, ferr := strconv.ParseFloat(raw, 64); ferr == nil && !math.IsNaN(fv) && !math.IsInf(fv, 0) {
			n = int(math.Round(fv))
		} else {
			n = 0
		}
	}
	if n < 0 {
		n = 0
	}
	if n > MaxSlotCapacity {
		n = MaxSlotCapacity
	}
	if n == 0 {
		out.Capacity = nil
		return out
	}
	out.Capacity = &n
	return out
}

// ToggleReminder flips the presence of a preset hours value in the reminder
// set. The result is always sorted ascending with no duplicates.
func ToggleReminder(s Settings, hours int) Settings {
	out := cloneSettings(s)
	if hours <= 0 {
		return out
	}
	present := false
	for _, h := range out.AutoRemindersHoursBefore {
		if h == hours {
			present = true
			break
		}
	}
	if present {
		kept := out.AutoRemindersHoursBefore[:0]
		for _, h := range out.AutoRemindersHoursBefore {
			if h != hours {
				kept = append(kept, h)
			}
		}
		out.AutoRemindersHoursBefore = kept
	} else {
		out.AutoRemindersHoursBefore = append(out.AutoRemindersHoursBefore, hours)
	}
	out.AutoRemindersHoursBefore = normalizeHours(out.AutoRemindersHoursBefore)
	return out
}

// AddCustomReminder validates, rounds, and clamps a user-entered hours value
// into [1, MaxReminderHours], then inserts it. Unlike ToggleReminder an
// explicit add is idempotent: adding an existing value changes nothing.
func AddCustomReminder(s Settings, hours float64) Settings {
	out := cloneSettings(s)
	if math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return out
	}
	h := int(math.Round(hours))
	if h < 1 {
		h = 1
	}
	if h > MaxReminderHours {
		h = MaxReminderHours
	}
	out.AutoRemindersHoursBefore = normalizeHours(append(out.AutoRemindersHoursBefore, h))
	return out
}

// AddQuestion appends a question with a placeholder prompt the caller is
// expected to edit.
func AddQuestion(questions []Question) []Question {
	out := make([]Question, len(questions), len(questions)+1)
	copy(out, questions)
	return append(out, Question{
		ID:        newID(),
		Prompt:    "Anything we should know?",
		Required:  false,
		Multiline: true,
	})
}

func sectionIndex(f Form, sectionID string) int {
	for i, sec := range f.Sections {
		if sec.ID == sectionID {
			return i
		}
	}
	return -1
}

func cloneForm(f Form) Form {
	out := f
	out.Sections = make([]Section, len(f.Sections))
	for i, sec := range f.Sections {
		out.Sections[i] = cloneSection(sec)
	}
	out.Questions = make([]Question, len(f.Questions))
	copy(out.Questions, f.Questions)
	out.Settings = cloneSettings(f.Settings)
	return out
}

func cloneSection(sec Section) Section {
	out := sec
	out.Slots = make([]Slot, len(sec.Slots))
	for i, sl := range sec.Slots {
		out.Slots[i] = cloneSlot(sl)
	}
	return out
}

func cloneSlot(sl Slot) Slot {
	out := sl
	if sl.Capacity != nil {
		c := *sl.Capacity
		out.Capacity = &c
	}
	if sl.StartTime != nil {
		v := *sl.StartTime
		out.StartTime = &v
	}
	if sl.EndTime != nil {
		v := *sl.EndTime
		out.EndTime = &v
	}
	return out
}

func cloneSettings(s Settings) Settings {
	out := s
	out.AutoRemindersHoursBefore = make([]int, len(s.AutoRemindersHoursBefore))
	copy(out.AutoRemindersHoursBefore, s.AutoRemindersHoursBefore)
	return out
}
