// Package calendarlink turns a normalized event into ready-to-use deep links
// for Google Calendar, Outlook (web and app), and the same-origin ICS
// endpoint that Apple Calendar intercepts.
package calendarlink

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Event is the normalized input for link building. Start and End are ISO-8601
// strings; End may be missing or invalid, EnsureEnd repairs it.
type Event struct {
	Title       string
	Description string
	Location    string
	Start       string
	End         string
	Timezone    string
	AllDay      bool
	Recurrence  string
	Reminders   []int // minutes before start
}

// Links carries one URL per provider ecosystem. App URLs use custom schemes
// that may not be handled on the platform; see OpenWithAppFallback.
type Links struct {
	Google     string
	GoogleApp  string
	OutlookWeb string
	OutlookApp string
	ICS        string
}

const (
	googleRenderBase   = "https://calendar.google.com/calendar/render"
	googleAppScheme    = "comgooglecalendar://"
	outlookComposeBase = "https://outlook.live.com/calendar/0/deeplink/compose"
	outlookAppScheme   = "ms-outlook://events/new"
	icsEndpointPath    = "/api/ics"
)

// ParseInstant parses an ISO-8601 instant, accepting RFC 3339 (with or
// without fractional seconds) and bare dates. ok is false when nothing
// matched; callers substitute a safe fallback instead of erroring, a wrong
// preview beats a crashed one.
func ParseInstant(iso string) (time.Time, bool) {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EnsureEnd guarantees a usable end instant: a valid End passes through
// unchanged, otherwise all-day events get start plus one calendar day and
// timed events start plus one hour.
func EnsureEnd(startISO, endISO string, allDay bool) string {
	if _, ok := ParseInstant(endISO); ok {
		return endISO
	}
	start, ok := ParseInstant(startISO)
	if !ok {
		start = time.Now().UTC()
	}
	if allDay {
		return start.UTC().AddDate(0, 0, 1).Format(time.RFC3339)
	}
	return start.UTC().Add(time.Hour).Format(time.RFC3339)
}

// basicFormat renders an instant in the compact UTC form Google expects:
// YYYYMMDDTHHMMSSZ, no milliseconds, no separators.
func basicFormat(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// Build produces all provider links for the event. An unparseable start
// falls back to the current time; Build never fails.
func Build(ev Event) Links {
	start, ok := ParseInstant(ev.Start)
	if !ok {
		start = time.Now().UTC()
	}
	endISO := EnsureEnd(ev.Start, ev.End, ev.AllDay)
	end, ok := ParseInstant(endISO)
	if !ok {
		end = start.Add(time.Hour)
	}

	google := url.Values{}
	google.Set("action", "TEMPLATE")
	google.Set("text", ev.Title)
	google.Set("location", ev.Location)
	google.Set("details", ev.Description)
	// Google's dates range uses a literal slash separator; basic-format
	// timestamps contain nothing that needs escaping, so the pair is appended
	// raw rather than letting Encode turn the slash into %2F.
	googleQuery := google.Encode() + "&dates=" + basicFormat(start) + "/" + basicFormat(end)

	outlook := url.Values{}
	outlook.Set("subject", ev.Title)
	outlook.Set("body", ev.Description)
	outlook.Set("location", ev.Location)
	outlook.Set("startdt", start.UTC().Format(time.RFC3339))
	outlook.Set("enddt", end.UTC().Format(time.RFC3339))
	outlookQuery := outlook.Encode()

	ics := url.Values{}
	ics.Set("title", ev.Title)
	ics.Set("start", start.UTC().Format(time.RFC3339))
	ics.Set("end", end.UTC().Format(time.RFC3339))
	ics.Set("location", ev.Location)
	ics.Set("description", ev.Description)
	if ev.AllDay {
		ics.Set("allday", "1")
	}
	if ev.Recurrence != "" {
		ics.Set("rrule", ev.Recurrence)
	}
	if len(ev.Reminders) > 0 {
		ics.Set("reminders", joinInts(ev.Reminders))
	}
	// Served inline so the OS calendar app intercepts the response.
	ics.Set("disposition", "inline")

	return Links{
		Google:     googleRenderBase + "?" + googleQuery,
		GoogleApp:  googleAppScheme + "?" + googleQuery,
		OutlookWeb: outlookComposeBase + "?" + outlookQuery,
		OutlookApp: outlookAppScheme + "?" + outlookQuery,
		ICS:        icsEndpointPath + "?" + ics.Encode(),
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
