// Package recurrence turns a plain-language repeat choice into an iCalendar
// RRULE string and answers occurrence questions for recurring events. Only
// the FREQ / BYDAY / BYMONTHDAY / BYMONTH subset is produced; UNTIL, COUNT,
// and INTERVAL are not supported.
package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Frequency is the user-facing repeat cadence.
type Frequency string

const (
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

// Choice captures the repeat controls on the event editor. Reference is the
// event's start (or the picked calendar date when the start is not resolved
// yet); day-of-week/month derivation anchors on it, never on "today".
type Choice struct {
	Repeat    bool
	Frequency Frequency
	Days      []string
	Reference *time.Time
}

// weekdayCodes maps time.Weekday (Sunday = 0) to iCalendar two-letter codes.
var weekdayCodes = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

var validDayCodes = map[string]bool{
	"SU": true, "MO": true, "TU": true, "WE": true, "TH": true, "FR": true, "SA": true,
}

// Build derives the RRULE string for a choice. An empty string means no
// recurrence: repeat off, an unknown frequency, or a monthly/yearly choice
// with no anchor date (guessing a day-of-month would be worse than nothing).
func Build(c Choice) string {
	if !c.Repeat {
		return ""
	}
	switch c.Frequency {
	case Weekly:
		days := filterDays(c.Days)
		if len(days) == 0 && c.Reference != nil {
			days = []string{weekdayCodes[c.Reference.UTC().Weekday()]}
		}
		if len(days) == 0 {
			return "RRULE:FREQ=WEEKLY"
		}
		return "RRULE:FREQ=WEEKLY;BYDAY=" + strings.Join(days, ",")
	case Monthly:
		if c.Reference == nil {
			return ""
		}
		return fmt.Sprintf("RRULE:FREQ=MONTHLY;BYMONTHDAY=%d", c.Reference.UTC().Day())
	case Yearly:
		if c.Reference == nil {
			return ""
		}
		ref := c.Reference.UTC()
		return fmt.Sprintf("RRULE:FREQ=YEARLY;BYMONTH=%d;BYMONTHDAY=%d", int(ref.Month()), ref.Day())
	default:
		return ""
	}
}

// filterDays keeps only valid codes, preserving caller order and dropping
// duplicates.
func filterDays(days []string) []string {
	seen := make(map[string]bool, len(days))
	out := make([]string, 0, len(days))
	for _, d := range days {
		d = strings.ToUpper(strings.TrimSpace(d))
		if !validDayCodes[d] || seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	return out
}

// Validate checks that a rule (with or without the RRULE: prefix) parses.
func Validate(rule string) error {
	if rule == "" {
		return nil
	}
	_, err := rrule.StrToRRule(strings.TrimPrefix(rule, "RRULE:"))
	return err
}

// NextAfter returns the first occurrence of the rule strictly after t, with
// dtstart anchoring the series. ok is false when the rule does not parse or
// the series has ended.
func NextAfter(rule string, dtstart, t time.Time) (time.Time, bool) {
	r, err := rrule.StrToRRule(strings.TrimPrefix(rule, "RRULE:"))
	if err != nil {
		return time.Time{}, false
	}
	r.DTStart(dtstart.UTC())
	next := r.After(t.UTC(), false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}
