package calendar

import (
	"context"

	"github.com/sandevgo/twinbot/internal/core"
)

// Noop stands in when no calendar credentials are configured.
type Noop struct{}

func (Noop) ListCalendars(ctx context.Context) ([]core.CalendarInfo, core.FetchOutcome) {
	return []core.CalendarInfo{{ID: "primary", DisplayName: "primary", IsPrimary: true}}, core.OK()
}

func (Noop) FetchEvents(ctx context.Context, calendarID string, windowDays int) ([]core.CalendarEvent, core.FetchOutcome) {
	return nil, core.OK()
}
