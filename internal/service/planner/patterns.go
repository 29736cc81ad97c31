package planner

import (
	"regexp"
	"time"
)

const (
	DefaultWindowDays  = 14
	ExtendedWindowDays = 60
)

var temporalPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|week|day|month|january|february|march|april|may|june|july|august|september|october|november|december|schedule|calendar|class|classes|events?|meeting)\b`)

var monthDayPattern = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{1,2})\b`)

var weekdayPattern = regexp.MustCompile(`(?i)\b(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

var monthPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s]`)

// farFuturePatterns are evaluated in order; the first match escalates the window.
var farFuturePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)next month`),
	regexp.MustCompile(`(?i)in \d+ weeks`),
	regexp.MustCompile(`(?i)in a month`),
	regexp.MustCompile(`(?i)end of (the )?semester`),
	regexp.MustCompile(`(?i)rest of (the )?semester`),
	regexp.MustCompile(`(?i)spring break`),
	regexp.MustCompile(`(?i)finals`),
	regexp.MustCompile(`(?i)full (semester |year )?schedule`),
	regexp.MustCompile(`(?i)entire semester`),
	regexp.MustCompile(`(?i)all (my )?classes`),
	regexp.MustCompile(`(?i)how many times`),
	regexp.MustCompile(`(?i)how often`),
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}
