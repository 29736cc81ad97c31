package corpus

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sandevgo/twinbot/internal/core"
)

const (
	timedLayout  = "Monday, Jan 2, 3:04 PM"
	allDayLayout = "Monday, Jan 2"
)

// EventToDocument denormalises an event into readable sentences.
// Attendees are reduced to a count and meeting links to a flag; link
// tokens are stripped from the location and description text.
func EventToDocument(ev core.CalendarEvent, loc *time.Location) core.Document {
	if loc == nil {
		loc = time.Local
	}

	parts := []string{"Event: " + ev.Title}

	if ev.AllDay {
		parts = append(parts, "When: "+ev.StartsAt.In(loc).Format(allDayLayout))
	} else {
		parts = append(parts, "When: "+ev.StartsAt.In(loc).Format(timedLayout))
		minutes := math.Round(ev.EndsAt.Sub(ev.StartsAt).Minutes())
		parts = append(parts, fmt.Sprintf("Duration: %d minutes", int(minutes)))
	}

	if place := core.RedactMeetingLinks(ev.Location); place != "" {
		parts = append(parts, "Location: "+place)
	}
	if ev.AttendeeCount > 0 {
		parts = append(parts, fmt.Sprintf("Attendees: %d people", ev.AttendeeCount))
	}
	if desc := core.RedactMeetingLinks(ev.Description); desc != "" {
		parts = append(parts, "Description: "+desc)
	}
	if ev.HasMeetingLink || core.ContainsMeetingLink(ev.Description) || core.ContainsMeetingLink(ev.Location) {
		parts = append(parts, "Meeting Link: Available")
	}
	if ev.IsRecurring {
		parts = append(parts, "Recurring: Yes")
	}

	return core.Document{
		ID:      "calendar_" + ev.ID,
		Type:    core.DocumentCalendar,
		Title:   ev.Title,
		Content: strings.Join(parts, ". "),
		Date:    ev.StartsAt,
	}
}
