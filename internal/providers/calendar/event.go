package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/inbucket/html2text"
	"github.com/sandevgo/twinbot/internal/core"
	gcal "google.golang.org/api/calendar/v3"
)

const dateLayout = "2006-01-02"

// toEvent maps a Google event onto core.CalendarEvent.
// Date-only starts are interpreted in loc.
func toEvent(ev *gcal.Event, loc *time.Location) (core.CalendarEvent, error) {
	start, allDay, err := parseEventTime(ev.Start, loc)
	if err != nil {
		return core.CalendarEvent{}, fmt.Errorf("event %s start: %w", ev.Id, err)
	}
	end, _, err := parseEventTime(ev.End, loc)
	if err != nil {
		end = start
	}

	desc := plainText(ev.Description)
	hasLink := hasMeetingLink(ev, desc)

	return core.CalendarEvent{
		ID:             ev.Id,
		Title:          strings.TrimSpace(ev.Summary),
		StartsAt:       start,
		EndsAt:         end,
		AllDay:         allDay,
		Location:       core.RedactMeetingLinks(ev.Location),
		AttendeeCount:  len(ev.Attendees),
		Description:    core.RedactMeetingLinks(desc),
		HasMeetingLink: hasLink,
		IsRecurring:    ev.RecurringEventId != "" || len(ev.Recurrence) > 0,
	}, nil
}

func parseEventTime(t *gcal.EventDateTime, loc *time.Location) (time.Time, bool, error) {
	if t == nil {
		return time.Time{}, false, fmt.Errorf("missing time")
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false, err
		}
		return parsed.In(loc), false, nil
	}
	if t.Date != "" {
		parsed, err := time.ParseInLocation(dateLayout, t.Date, loc)
		if err != nil {
			return time.Time{}, false, err
		}
		return parsed, true, nil
	}
	return time.Time{}, false, fmt.Errorf("empty time")
}

// plainText strips HTML that Google stores in event descriptions.
func plainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	text, err := html2text.FromString(s, html2text.Options{OmitLinks: true})
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(text), " ")
}

func hasMeetingLink(ev *gcal.Event, desc string) bool {
	if ev.HangoutLink != "" || ev.ConferenceData != nil {
		return true
	}
	return core.ContainsMeetingLink(ev.Description) ||
		core.ContainsMeetingLink(desc) ||
		core.ContainsMeetingLink(ev.Location)
}
