package core

import (
	"strings"
	"time"
)

var meetingHosts = []string{"meet.google.com", "zoom.us", "teams.microsoft.com", "teams.live.com", "webex.com"}

type CalendarInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsPrimary   bool   `json:"is_primary"`
}

// CalendarEvent is the provider-neutral shape of a scheduled event.
// Attendee identities and meeting URLs are intentionally absent.
type CalendarEvent struct {
	ID             string
	Title          string
	StartsAt       time.Time
	EndsAt         time.Time
	AllDay         bool
	Location       string
	AttendeeCount  int
	Description    string
	HasMeetingLink bool
	IsRecurring    bool
}

type FetchStatus int

const (
	FetchOK FetchStatus = iota
	FetchDegraded
)

func (s FetchStatus) String() string {
	if s == FetchDegraded {
		return "degraded"
	}
	return "ok"
}

// FetchOutcome distinguishes "no events" from "the fetch failed".
type FetchOutcome struct {
	Status FetchStatus
	Reason string
}

func OK() FetchOutcome {
	return FetchOutcome{Status: FetchOK}
}

func Degraded(reason string) FetchOutcome {
	return FetchOutcome{Status: FetchDegraded, Reason: reason}
}

func (o FetchOutcome) IsOK() bool {
	return o.Status == FetchOK
}

// ContainsMeetingLink reports whether s mentions a known conferencing host.
func ContainsMeetingLink(s string) bool {
	lower := strings.ToLower(s)
	for _, host := range meetingHosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// RedactMeetingLinks drops every whitespace-separated token that points at a
// conferencing host. Whitespace is collapsed.
func RedactMeetingLinks(s string) string {
	fields := strings.Fields(s)
	kept := fields[:0]
	for _, f := range fields {
		if !ContainsMeetingLink(f) {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
