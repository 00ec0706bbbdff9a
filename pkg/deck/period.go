package deck

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/papercomputeco/kiosk/pkg/chatlog"
)

// ErrInvalidRange is returned for unknown time range names.
var ErrInvalidRange = errors.New("invalid time range")

const dateLayout = "2006-01-02"

// ParseTimeRange parses a range name. An empty value means 7d.
func ParseTimeRange(value string) (TimeRange, error) {
	switch rng := TimeRange(strings.ToLower(strings.TrimSpace(value))); rng {
	case "":
		return Range7Days, nil
	case Range7Days, Range30Days, RangeMonthDate, RangeYearly, RangeCustom:
		return rng, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRange, value)
	}
}

// ParseDate parses a YYYY-MM-DD date at midnight in loc. An empty value
// yields the zero time.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// ResolvePeriod computes the current and comparison windows for rng.
// It reports false only for a custom range missing either date.
func ResolvePeriod(rng TimeRange, now, customStart, customEnd time.Time) (Period, bool) {
	loc := now.Location()
	year, month, _ := now.Date()

	var p Period
	switch rng {
	case Range30Days:
		p.Start = now.AddDate(0, 0, -30)
		p.End = now
		p.PrevStart = now.AddDate(0, 0, -60)
		p.PrevEnd = p.Start
	case RangeMonthDate:
		p.Start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		p.End = now
		p.PrevStart = time.Date(year, month-1, 1, 0, 0, 0, 0, loc)
		p.PrevEnd = p.Start
	case RangeYearly:
		p.Start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		p.End = now
		p.PrevStart = time.Date(year-1, time.January, 1, 0, 0, 0, 0, loc)
		p.PrevEnd = time.Date(year-1, time.December, 31, 23, 59, 59, 0, loc)
	case RangeCustom:
		if customStart.IsZero() || customEnd.IsZero() {
			return Period{}, false
		}
		p.Start = dateIn(customStart, loc)
		p.End = endOfDay(dateIn(customEnd, loc))
		duration := p.End.Sub(p.Start)
		p.PrevEnd = p.Start
		p.PrevStart = p.Start.Add(-duration)
	default:
		p.Start = now.AddDate(0, 0, -7)
		p.End = now
		p.PrevStart = now.AddDate(0, 0, -14)
		p.PrevEnd = p.Start
	}

	return p, true
}

// InCurrent reports whether t is inside [Start, End].
func (p Period) InCurrent(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// InPrevious reports whether t is inside [PrevStart, PrevEnd).
func (p Period) InPrevious(t time.Time) bool {
	return !t.Before(p.PrevStart) && t.Before(p.PrevEnd)
}

// Partition splits logs into the current and previous windows. Logs outside
// both are dropped and input order is preserved.
func Partition(logs []chatlog.ChatLog, p Period) ([]chatlog.ChatLog, []chatlog.ChatLog) {
	current := []chatlog.ChatLog{}
	previous := []chatlog.ChatLog{}
	for _, log := range logs {
		if p.InCurrent(log.Timestamp) {
			current = append(current, log)
		}
		if p.InPrevious(log.Timestamp) {
			previous = append(previous, log)
		}
	}
	return current, previous
}

// RangeLabel is the range part of export filenames.
func RangeLabel(filters Filters) string {
	if filters.Range == RangeCustom && !filters.CustomStart.IsZero() && !filters.CustomEnd.IsZero() {
		return filters.CustomStart.Format(dateLayout) + "_" + filters.CustomEnd.Format(dateLayout)
	}
	if filters.Range == "" {
		return string(Range7Days)
	}
	return string(filters.Range)
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// dateIn keeps the calendar date of t and places it at midnight in loc.
// Custom dates are days, not instants, so no zone conversion applies.
func dateIn(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// endOfDay is the last wall-clock millisecond of t's day, which is not
// always 24h after startOfDay across a DST switch.
func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(999*time.Millisecond), t.Location())
}
