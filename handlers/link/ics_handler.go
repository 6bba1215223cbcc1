package link

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"envitefy.link/pkg/calendarlink"

	ics "github.com/arran4/golang-ical"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ICSHandler serves GET /api/ics: a text/calendar payload built from query
// parameters, so the event page can hand browsers a URL the OS calendar app
// intercepts. The encoder treats this endpoint as a black box; the contract
// is the query parameter set.
type ICSHandler struct{}

func NewICSHandler() *ICSHandler {
	return &ICSHandler{}
}

func (h *ICSHandler) HandleICS(c *fiber.Ctx) error {
	title := c.Query("title", "Event")
	start, ok := calendarlink.ParseInstant(c.Query("start"))
	if !ok {
		// Same never-crash policy as the link builder: fall back rather
		// than reject, the download still opens something sensible.
		start = time.Now().UTC()
	}
	endISO := calendarlink.EnsureEnd(c.Query("start"), c.Query("end"), c.Query("allday") == "1")
	end, ok := calendarlink.ParseInstant(endISO)
	if !ok {
		end = start.Add(time.Hour)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Envitefy//Event Links//EN")

	event := cal.AddEvent(uuid.NewString() + "@envitefy.link")
	event.SetDtStampTime(time.Now().UTC())
	event.SetSummary(title)
	if c.Query("allday") == "1" {
		event.SetAllDayStartAt(start.UTC())
		event.SetAllDayEndAt(end.UTC())
	} else {
		event.SetStartAt(start.UTC())
		event.SetEndAt(end.UTC())
	}
	if location := c.Query("location"); location != "" {
		event.SetLocation(location)
	}
	if description := c.Query("description"); description != "" {
		event.SetDescription(description)
	}
	if rule := c.Query("rrule"); rule != "" {
		event.AddRrule(strings.TrimPrefix(rule, "RRULE:"))
	}
	for _, minutes := range parseReminderMinutes(c.Query("reminders")) {
		alarm := event.AddAlarm()
		alarm.SetAction(ics.ActionDisplay)
		alarm.SetTrigger(fmt.Sprintf("-PT%dM", minutes))
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	if c.Query("disposition") == "inline" {
		c.Set(fiber.HeaderContentDisposition, "inline")
	} else {
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="event.ics"`)
	}
	return c.SendString(cal.Serialize())
}

// parseReminderMinutes reads the comma-separated reminders parameter,
// dropping anything non-positive or non-numeric.
func parseReminderMinutes(raw string) []int {
	if raw == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(raw, ",") {
		minutes, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || minutes <= 0 {
			continue
		}
		out = append(out, minutes)
	}
	return out
}
