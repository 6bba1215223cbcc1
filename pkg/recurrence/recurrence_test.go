package recurrence

import (
	"testing"
	"time"
)

// 2024-06-05 is a Wednesday.
var wednesday = time.Date(2024, 6, 5, 10, 0, 0, 0, time.UTC)

func TestBuildRepeatOff(t *testing.T) {
	got := Build(Choice{Repeat: false, Frequency: Weekly, Reference: &wednesday})
	if got != "" {
		t.Errorf("repeat off must yield empty rule, got %q", got)
	}
}

func TestBuildWeekly(t *testing.T) {
	cases := []struct {
		name   string
		choice Choice
		want   string
	}{
		{
			"explicit days keep caller order",
			Choice{Repeat: true, Frequency: Weekly, Days: []string{"FR", "MO"}},
			"RRULE:FREQ=WEEKLY;BYDAY=FR,MO",
		},
		{
			"empty days derive from anchor weekday",
			Choice{Repeat: true, Frequency: Weekly, Reference: &wednesday},
			"RRULE:FREQ=WEEKLY;BYDAY=WE",
		},
		{
			"no days and no anchor",
			Choice{Repeat: true, Frequency: Weekly},
			"RRULE:FREQ=WEEKLY",
		},
		{
			"invalid and duplicate codes dropped",
			Choice{Repeat: true, Frequency: Weekly, Days: []string{"mo", "XX", "MO", " tu "}},
			"RRULE:FREQ=WEEKLY;BYDAY=MO,TU",
		},
	}
	for _, tc := range cases {
		if got := Build(tc.choice); got != tc.want {
			t.Errorf("%s: want %q, got %q", tc.name, tc.want, got)
		}
	}
}

func TestBuildMonthlyYearly(t *testing.T) {
	got := Build(Choice{Repeat: true, Frequency: Monthly, Reference: &wednesday})
	if got != "RRULE:FREQ=MONTHLY;BYMONTHDAY=5" {
		t.Errorf("monthly: got %q", got)
	}

	got = Build(Choice{Repeat: true, Frequency: Yearly, Reference: &wednesday})
	if got != "RRULE:FREQ=YEARLY;BYMONTH=6;BYMONTHDAY=5" {
		t.Errorf("yearly: got %q", got)
	}

	// Without an anchor date there is nothing sane to emit.
	if got := Build(Choice{Repeat: true, Frequency: Monthly}); got != "" {
		t.Errorf("monthly without anchor: got %q", got)
	}
	if got := Build(Choice{Repeat: true, Frequency: Yearly}); got != "" {
		t.Errorf("yearly without anchor: got %q", got)
	}
}

func TestBuildUnknownFrequency(t *testing.T) {
	if got := Build(Choice{Repeat: true, Frequency: "daily"}); got != "" {
		t.Errorf("unsupported frequency must yield empty rule, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	for _, rule := range []string{
		"",
		"RRULE:FREQ=WEEKLY;BYDAY=WE",
		"FREQ=MONTHLY;BYMONTHDAY=5",
	} {
		if err := Validate(rule); err != nil {
			t.Errorf("Validate(%q): %v", rule, err)
		}
	}
	if err := Validate("RRULE:FREQ=SOMETIMES"); err == nil {
		t.Error("garbage rule should not validate")
	}
}

func TestNextAfter(t *testing.T) {
	next, ok := NextAfter("RRULE:FREQ=WEEKLY;BYDAY=WE", wednesday, wednesday)
	if !ok {
		t.Fatal("expected a next occurrence")
	}
	want := wednesday.AddDate(0, 0, 7)
	if !next.Equal(want) {
		t.Errorf("want %v, got %v", want, next)
	}

	if _, ok := NextAfter("not a rule", wednesday, wednesday); ok {
		t.Error("unparseable rule must report ok=false")
	}
}
