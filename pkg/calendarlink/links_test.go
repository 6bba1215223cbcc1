package calendarlink

import (
	"net/url"
	"strings"
	"testing"
)

func TestParseInstant(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-06-05T10:00:00Z", true},
		{"2024-06-05T10:00:00+02:00", true},
		{"2024-06-05T10:00:00", true},
		{"2024-06-05", true},
		{"", false},
		{"next tuesday", false},
	}
	for _, tc := range cases {
		if _, ok := ParseInstant(tc.in); ok != tc.ok {
			t.Errorf("ParseInstant(%q): ok=%v, want %v", tc.in, ok, tc.ok)
		}
	}
}

func TestEnsureEnd(t *testing.T) {
	// Valid end passes through untouched.
	if got := EnsureEnd("2024-06-05T10:00:00Z", "2024-06-05T12:30:00Z", false); got != "2024-06-05T12:30:00Z" {
		t.Errorf("valid end replaced: %q", got)
	}

	// Timed event: start plus one hour.
	if got := EnsureEnd("2024-06-05T10:00:00Z", "", false); got != "2024-06-05T11:00:00Z" {
		t.Errorf("timed default: got %q", got)
	}

	// All-day event: start plus one calendar day.
	if got := EnsureEnd("2024-06-05T00:00:00Z", "", true); got != "2024-06-06T00:00:00Z" {
		t.Errorf("all-day default: got %q", got)
	}

	// Garbage end is repaired like a missing one.
	if got := EnsureEnd("2024-06-05T10:00:00Z", "whenever", false); got != "2024-06-05T11:00:00Z" {
		t.Errorf("garbage end: got %q", got)
	}
}

func TestBuildGoogleDates(t *testing.T) {
	links := Build(Event{
		Title: "Team BBQ",
		Start: "2024-06-05T10:00:00Z",
		End:   "2024-06-05T12:00:00Z",
	})

	u, err := url.Parse(links.Google)
	if err != nil {
		t.Fatalf("google link does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("action") != "TEMPLATE" {
		t.Errorf("missing action=TEMPLATE: %q", links.Google)
	}
	if got := q.Get("dates"); got != "20240605T100000Z/20240605T120000Z" {
		t.Errorf("dates: got %q", got)
	}
	// The range separator is a literal slash on the wire, not %2F.
	if !strings.Contains(links.Google, "dates=20240605T100000Z/20240605T120000Z") {
		t.Errorf("dates separator escaped: %q", links.Google)
	}
	if q.Get("text") != "Team BBQ" {
		t.Errorf("text: got %q", q.Get("text"))
	}

	// App link reuses the identical query behind the custom scheme.
	if !strings.HasPrefix(links.GoogleApp, "comgooglecalendar://?") {
		t.Errorf("google app scheme wrong: %q", links.GoogleApp)
	}
	if links.GoogleApp[len("comgooglecalendar://?"):] != u.RawQuery {
		t.Error("app and web queries differ")
	}
}

func TestBuildOutlook(t *testing.T) {
	links := Build(Event{
		Title:    "Standup",
		Location: "Room 4",
		Start:    "2024-06-05T10:00:00Z",
	})
	u, err := url.Parse(links.OutlookWeb)
	if err != nil {
		t.Fatalf("outlook link does not parse: %v", err)
	}
	q := u.Query()
	if q.Get("subject") != "Standup" || q.Get("location") != "Room 4" {
		t.Errorf("outlook params wrong: %q", links.OutlookWeb)
	}
	if q.Get("startdt") != "2024-06-05T10:00:00Z" {
		t.Errorf("startdt: got %q", q.Get("startdt"))
	}
	if q.Get("enddt") != "2024-06-05T11:00:00Z" {
		t.Errorf("enddt should default to +1h: got %q", q.Get("enddt"))
	}
	if !strings.HasPrefix(links.OutlookApp, "ms-outlook://events/new?") {
		t.Errorf("outlook app scheme wrong: %q", links.OutlookApp)
	}
}

func TestBuildICSLink(t *testing.T) {
	links := Build(Event{
		Title:      "Rehearsal",
		Start:      "2024-06-05",
		AllDay:     true,
		Recurrence: "RRULE:FREQ=WEEKLY;BYDAY=WE",
		Reminders:  []int{60, 1440},
	})
	u, err := url.Parse(links.ICS)
	if err != nil {
		t.Fatalf("ics link does not parse: %v", err)
	}
	if u.Path != "/api/ics" {
		t.Errorf("path: got %q", u.Path)
	}
	q := u.Query()
	if q.Get("allday") != "1" {
		t.Error("allday flag missing")
	}
	if q.Get("rrule") != "RRULE:FREQ=WEEKLY;BYDAY=WE" {
		t.Errorf("rrule: got %q", q.Get("rrule"))
	}
	if q.Get("reminders") != "60,1440" {
		t.Errorf("reminders: got %q", q.Get("reminders"))
	}
	if q.Get("disposition") != "inline" {
		t.Error("ics must be served inline")
	}
	if q.Get("end") != "2024-06-06T00:00:00Z" {
		t.Errorf("all-day end: got %q", q.Get("end"))
	}
}

func TestBuildNeverFails(t *testing.T) {
	links := Build(Event{Title: "Mystery", Start: "not a date"})
	for name, link := range map[string]string{
		"google":  links.Google,
		"outlook": links.OutlookWeb,
		"ics":     links.ICS,
	} {
		if _, err := url.Parse(link); err != nil {
			t.Errorf("%s link does not parse: %v", name, err)
		}
		if link == "" {
			t.Errorf("%s link empty", name)
		}
	}
}
