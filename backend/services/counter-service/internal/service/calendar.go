package service

import (
	"strconv"
	"strings"
	"time"

	"bclub/backend/libs/apperr"
	"bclub/backend/services/counter-service/internal/repository"
)

// DateLayout is the business date format used in URLs and stored on flat-fee records.
const DateLayout = "2006-01-02"

// Calendar maps instants onto the venue's business days.
type Calendar struct {
	loc *time.Location
}

// NewCalendar returns a calendar for loc; nil means UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Location returns the venue location.
func (c Calendar) Location() *time.Location { return c.loc }

// DateOf returns the venue-local date of t.
func (c Calendar) DateOf(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// DayOf returns the business day containing t.
func (c Calendar) DayOf(t time.Time) repository.DayRange {
	local := t.In(c.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
	return c.rangeFrom(start)
}

// Day parses a YYYY-MM-DD date into its business day.
func (c Calendar) Day(date string) (repository.DayRange, error) {
	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), c.loc)
	if err != nil {
		return repository.DayRange{}, apperr.Validation("invalid date %q, expected YYYY-MM-DD", date)
	}
	return c.rangeFrom(start), nil
}

func (c Calendar) rangeFrom(start time.Time) repository.DayRange {
	return repository.DayRange{
		Date: start.Format(DateLayout),
		From: start.UTC(),
		To:   start.AddDate(0, 0, 1).UTC(),
	}
}

// ParseStartTime interprets a backdated start time. "HH:MM" means that wall-clock time today in
// loc, or yesterday when it would otherwise lie in the future; RFC 3339 timestamps are taken as is.
func ParseStartTime(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.Validation("start time is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}

	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return time.Time{}, apperr.Validation("invalid start time %q, expected HH:MM or RFC 3339", raw)
	}
	hour, errH := strconv.Atoi(hh)
	minute, errM := strconv.Atoi(mm)
	if errH != nil || errM != nil || len(mm) != 2 || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return time.Time{}, apperr.Validation("invalid start time %q, expected HH:MM or RFC 3339", raw)
	}

	local := now.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if start.After(now) {
		start = start.AddDate(0, 0, -1)
	}
	return start.UTC(), nil
}

// ParseTimestamp parses an RFC 3339 timestamp, or a "YYYY-MM-DDTHH:MM[:SS]" wall-clock time in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("invalid timestamp %q", raw)
}
