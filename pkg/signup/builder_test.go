package signup

import "testing"

func intPtr(n int) *int { return &n }

func TestSetCapacityClamps(t *testing.T) {
	cases := []struct {
		raw  string
		want *int
	}{
		{"", nil},
		{"   ", nil},
		{"0", nil},
		{"-5", nil},
		{"abc", nil},
		{"12", intPtr(12)},
		{"12.6", intPtr(13)},
		{"999", intPtr(999)},
		{"1000", intPtr(999)},
		{"1e309", nil}, // +Inf after ParseFloat
	}
	for _, tc := range cases {
		got := SetCapacity(Slot{ID: "s"}, tc.raw)
		switch {
		case tc.want == nil && got.Capacity != nil:
			t.Errorf("SetCapacity(%q): want unlimited, got %d", tc.raw, *got.Capacity)
		case tc.want != nil && got.Capacity == nil:
			t.Errorf("SetCapacity(%q): want %d, got unlimited", tc.raw, *tc.want)
		case tc.want != nil && *got.Capacity != *tc.want:
			t.Errorf("SetCapacity(%q): want %d, got %d", tc.raw, *tc.want, *got.Capacity)
		}
	}
}

func TestSetCapacityDoesNotMutateInput(t *testing.T) {
	slot := Slot{ID: "s", Capacity: intPtr(5)}
	_ = SetCapacity(slot, "7")
	if *slot.Capacity != 5 {
		t.Errorf("input slot mutated: capacity now %d", *slot.Capacity)
	}
}

func TestMoveSectionBounds(t *testing.T) {
	form := Form{Sections: []Section{{ID: "a"}, {ID: "b"}, {ID: "c"}}}

	moved := MoveSection(form, 0, 1)
	if moved.Sections[0].ID != "b" || moved.Sections[1].ID != "a" {
		t.Errorf("move down failed: got %s,%s", moved.Sections[0].ID, moved.Sections[1].ID)
	}

	for _, tc := range []struct{ index, direction int }{
		{0, -1}, {2, 1}, {-1, 1}, {3, -1},
	} {
		got := MoveSection(form, tc.index, tc.direction)
		for i := range form.Sections {
			if got.Sections[i].ID != form.Sections[i].ID {
				t.Errorf("MoveSection(%d,%d) should be a no-op", tc.index, tc.direction)
			}
		}
	}
}

func TestRemoveSectionUnknownIDIsNoOp(t *testing.T) {
	form := Form{Sections: []Section{{ID: "a"}, {ID: "b"}}}
	got := RemoveSection(form, "nope")
	if len(got.Sections) != 2 {
		t.Errorf("want 2 sections, got %d", len(got.Sections))
	}
	got = RemoveSection(form, "a")
	if len(got.Sections) != 1 || got.Sections[0].ID != "b" {
		t.Errorf("remove failed: %+v", got.Sections)
	}
}

func TestDuplicateSectionFreshIDs(t *testing.T) {
	form := Form{Sections: []Section{
		{ID: "a", Title: "Food", Slots: []Slot{{ID: "s1", Label: "Salad"}}},
		{ID: "b", Title: "Cleanup"},
	}}
	got := DuplicateSection(form, "a")
	if len(got.Sections) != 3 {
		t.Fatalf("want 3 sections, got %d", len(got.Sections))
	}
	dup := got.Sections[1]
	if dup.ID == "a" || dup.ID == "" {
		t.Errorf("duplicate kept the original id: %q", dup.ID)
	}
	if dup.Title != "Food (copy)" {
		t.Errorf("want title 'Food (copy)', got %q", dup.Title)
	}
	if dup.Slots[0].ID == "s1" {
		t.Error("duplicate slot kept the original id")
	}
	if got.Sections[2].ID != "b" {
		t.Errorf("following section shifted wrong: %q", got.Sections[2].ID)
	}
	if len(form.Sections) != 2 {
		t.Error("input form mutated")
	}
}

func TestDuplicateSlotInsertsAfterOriginal(t *testing.T) {
	form := Form{Sections: []Section{{
		ID: "a",
		Slots: []Slot{
			{ID: "s1", Label: "Early", Capacity: intPtr(3)},
			{ID: "s2", Label: "Late"},
		},
	}}}
	got := DuplicateSlot(form, "a", "s1")
	slots := got.Sections[0].Slots
	if len(slots) != 3 {
		t.Fatalf("want 3 slots, got %d", len(slots))
	}
	if slots[1].Label != "Early (copy)" {
		t.Errorf("want 'Early (copy)', got %q", slots[1].Label)
	}
	if slots[1].ID == "s1" {
		t.Error("duplicate kept original slot id")
	}
	if slots[1].Capacity == nil || *slots[1].Capacity != 3 {
		t.Error("capacity not copied")
	}
	if slots[2].ID != "s2" {
		t.Errorf("want s2 last, got %q", slots[2].ID)
	}
	// Capacity pointer must not be shared with the original.
	*slots[1].Capacity = 99
	if *form.Sections[0].Slots[0].Capacity != 3 {
		t.Error("duplicate shares capacity pointer with original")
	}
}

func TestToggleReminderSortedDeduped(t *testing.T) {
	s := Settings{AutoRemindersHoursBefore: []int{24}}

	s = ToggleReminder(s, 2)
	if got := s.AutoRemindersHoursBefore; len(got) != 2 || got[0] != 2 || got[1] != 24 {
		t.Errorf("want [2 24], got %v", got)
	}

	s = ToggleReminder(s, 24)
	if got := s.AutoRemindersHoursBefore; len(got) != 1 || got[0] != 2 {
		t.Errorf("toggle off failed: %v", got)
	}

	if got := ToggleReminder(s, 0).AutoRemindersHoursBefore; len(got) != 1 {
		t.Errorf("non-positive hours should be a no-op: %v", got)
	}
}

func TestAddCustomReminder(t *testing.T) {
	s := Settings{AutoRemindersHoursBefore: []int{24}}

	s = AddCustomReminder(s, 1.4)
	if got := s.AutoRemindersHoursBefore; len(got) != 2 || got[0] != 1 {
		t.Errorf("want rounded 1 inserted, got %v", got)
	}

	// Idempotent: adding an existing value changes nothing.
	s = AddCustomReminder(s, 24)
	if got := s.AutoRemindersHoursBefore; len(got) != 2 {
		t.Errorf("duplicate add changed the set: %v", got)
	}

	s = AddCustomReminder(s, 5000)
	if got := s.AutoRemindersHoursBefore; got[len(got)-1] != MaxReminderHours {
		t.Errorf("want clamp to %d, got %v", MaxReminderHours, got)
	}

	before := len(s.AutoRemindersHoursBefore)
	for _, bad := range []float64{-1, 0} {
		s = AddCustomReminder(s, bad)
		if len(s.AutoRemindersHoursBefore) != before {
			t.Errorf("AddCustomReminder(%v) should be a no-op", bad)
		}
	}
}

func TestAddQuestionDefaults(t *testing.T) {
	questions := AddQuestion(nil)
	if len(questions) != 1 {
		t.Fatalf("want 1 question, got %d", len(questions))
	}
	q := questions[0]
	if q.ID == "" {
		t.Error("question id not assigned")
	}
	if q.Prompt != "Anything we should know?" {
		t.Errorf("unexpected prompt %q", q.Prompt)
	}
	if q.Required {
		t.Error("new question should not be required")
	}
	if !q.Multiline {
		t.Error("new question should be multiline")
	}
}

func TestAddSectionAndSlot(t *testing.T) {
	form := NewForm()
	if len(form.Sections) != 1 || len(form.Sections[0].Slots) != 1 {
		t.Fatalf("NewForm shape wrong: %+v", form)
	}

	form = AddSection(form)
	if len(form.Sections) != 2 {
		t.Fatalf("want 2 sections, got %d", len(form.Sections))
	}

	form = AddSlot(form, form.Sections[0].ID)
	if len(form.Sections[0].Slots) != 2 {
		t.Errorf("want 2 slots, got %d", len(form.Sections[0].Slots))
	}
	if got := AddSlot(form, "nope"); len(got.Sections[0].Slots) != 2 {
		t.Error("AddSlot with unknown section should be a no-op")
	}
}
