package services

import (
	"errors"
	"testing"
	"time"

	"envitefy.link/models"
)

func TestValidateEventDetail(t *testing.T) {
	start := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

	valid := models.EventDetail{Title: "BBQ", StartsAt: start}
	if err := ValidateEventDetail(valid); err != nil {
		t.Errorf("valid detail rejected: %v", err)
	}

	if err := ValidateEventDetail(models.EventDetail{StartsAt: start}); !errors.Is(err, ErrEventTitleRequired) {
		t.Errorf("want ErrEventTitleRequired, got %v", err)
	}
	if err := ValidateEventDetail(models.EventDetail{Title: "BBQ"}); !errors.Is(err, ErrEventStartRequired) {
		t.Errorf("want ErrEventStartRequired, got %v", err)
	}

	bad := models.EventDetail{Title: "BBQ", StartsAt: start, Recurrence: "RRULE:FREQ=SOMETIMES"}
	if err := ValidateEventDetail(bad); !errors.Is(err, ErrEventBadRecurrence) {
		t.Errorf("want ErrEventBadRecurrence, got %v", err)
	}

	ok := models.EventDetail{Title: "BBQ", StartsAt: start, Recurrence: "RRULE:FREQ=WEEKLY;BYDAY=WE"}
	if err := ValidateEventDetail(ok); err != nil {
		t.Errorf("valid recurrence rejected: %v", err)
	}
}

func TestNormalizeEventDetail(t *testing.T) {
	start := time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)

	detail := models.EventDetail{
		Title:    "BBQ",
		StartsAt: start,
		EndsAt:   &before,
		Reminders: models.ReminderList{
			{Minutes: 60},
			{Minutes: 0},
			{Minutes: -15},
			{Minutes: 1440},
		},
	}
	NormalizeEventDetail(&detail)

	if detail.EndsAt != nil {
		t.Error("end before start should be dropped")
	}
	if detail.Timezone != "UTC" {
		t.Errorf("timezone default not applied: %q", detail.Timezone)
	}
	if got := detail.Reminders.Minutes(); len(got) != 2 || got[0] != 60 || got[1] != 1440 {
		t.Errorf("non-positive reminders not dropped: %v", got)
	}

	after := start.Add(2 * time.Hour)
	detail = models.EventDetail{Title: "BBQ", StartsAt: start, EndsAt: &after, Timezone: "Europe/Istanbul"}
	NormalizeEventDetail(&detail)
	if detail.EndsAt == nil || !detail.EndsAt.Equal(after) {
		t.Error("valid end should survive")
	}
	if detail.Timezone != "Europe/Istanbul" {
		t.Error("explicit timezone overwritten")
	}
}
