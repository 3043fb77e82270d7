// Package schedule implements the date/time interval math behind booking
// conflict detection. Everything here is pure and safe for concurrent use;
// persistence is reached only through the small source interface in
// detector.go.
package schedule

import (
	"errors"
	"fmt"
	"time"
)

// TimeOfDay is minutes since midnight. Windows are half-open, so a span
// ending at 10:00 does not collide with one starting at 10:00.
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

// ParseTimeOfDay parses wall-clock "HH:MM". "24:00" is accepted as the
// exclusive end-of-day bound.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse time %q: %w", s, err)
	}
	if h == 24 && m == 0 {
		return EndOfDay, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse time %q: out of range", s)
	}
	return TimeOfDay(h*60 + m), nil
}

func (t TimeOfDay) String() string { return fmt.Sprintf("%02d:%02d", t/60, t%60) }

// Span is a reservation window: a calendar date range plus a daily
// wall-clock window. On a multi-day span, days strictly between StartDate
// and EndDate are fully occupied (00:00-24:00); the start and end days are
// occupied only during [StartTime, EndTime). A multi-day span whose
// StartTime is at or past its EndTime runs overnight: the first day is
// occupied from StartTime to midnight, the last from midnight to EndTime.
type Span struct {
	StartDate time.Time // date-only, midnight UTC
	EndDate   time.Time
	StartTime TimeOfDay
	EndTime   TimeOfDay
}

var ErrInvalidSpan = errors.New("invalid span: end before start")

// Validate enforces StartDate <= EndDate and, for single-day spans,
// StartTime < EndTime.
func (s Span) Validate() error {
	if s.EndDate.Before(s.StartDate) {
		return ErrInvalidSpan
	}
	if sameDay(s.StartDate, s.EndDate) && s.StartTime >= s.EndTime {
		return ErrInvalidSpan
	}
	return nil
}

// Shift moves the whole span by days, keeping duration and time window.
func (s Span) Shift(days int) Span {
	s.StartDate = s.StartDate.AddDate(0, 0, days)
	s.EndDate = s.EndDate.AddDate(0, 0, days)
	return s
}

// Minutes totals the occupied time across the span's days.
func (s Span) Minutes() int {
	total := 0
	for d := s.StartDate; !d.After(s.EndDate); d = d.AddDate(0, 0, 1) {
		st, et, ok := s.windowOn(d)
		if ok && et > st {
			total += int(et - st)
		}
	}
	return total
}

// Date truncates t to a date-only value at midnight UTC.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool { return a.Equal(b) }

// windowOn returns the occupied window of s on the given day, or ok=false
// when the day is outside the span's date range.
func (s Span) windowOn(day time.Time) (start, end TimeOfDay, ok bool) {
	if day.Before(s.StartDate) || day.After(s.EndDate) {
		return 0, 0, false
	}
	onStart, onEnd := sameDay(day, s.StartDate), sameDay(day, s.EndDate)
	if !onStart && !onEnd {
		return 0, EndOfDay, true
	}
	// Overnight multi-day span: the daily window wraps past midnight.
	if !sameDay(s.StartDate, s.EndDate) && s.StartTime >= s.EndTime {
		if onStart {
			return s.StartTime, EndOfDay, true
		}
		return 0, s.EndTime, true
	}
	return s.StartTime, s.EndTime, true
}

// Overlaps reports whether two spans collide: their date ranges share at
// least one calendar day and on some shared day the occupied windows
// intersect under the half-open rule (s1 < e2 && s2 < e1).
func Overlaps(a, b Span) bool {
	from := a.StartDate
	if b.StartDate.After(from) {
		from = b.StartDate
	}
	to := a.EndDate
	if b.EndDate.Before(to) {
		to = b.EndDate
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		s1, e1, ok1 := a.windowOn(d)
		s2, e2, ok2 := b.windowOn(d)
		if ok1 && ok2 && s1 < e2 && s2 < e1 {
			return true
		}
	}
	return false
}
