// Package timeslot holds the calendar arithmetic the scheduling engine is
// built on: HH:MM times of day as minutes since midnight, ISO dates, and
// half-open interval overlap.
package timeslot

import (
	"fmt"
	"time"
)

const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"

	MinutesPerDay = 24 * 60
)

// ParseTime converts an "HH:MM" string to minutes since midnight.
func ParseTime(value string) (int, error) {
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", value, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatTime renders minutes since midnight as "HH:MM".
func FormatTime(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate converts a "YYYY-MM-DD" string to a UTC midnight time.
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return d, nil
}

// Interval is a half-open [Start, End) span of minutes within one day.
type Interval struct {
	Start int
	End   int
}

func NewInterval(start, end string) (Interval, error) {
	s, err := ParseTime(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseTime(end)
	if err != nil {
		return Interval{}, err
	}
	return Interval{Start: s, End: e}, nil
}

func (iv Interval) Valid() bool {
	return iv.Start < iv.End
}

func (iv Interval) Duration() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// slots (one ending exactly when the other starts) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Shift returns the interval moved forward by the given number of minutes.
func (iv Interval) Shift(minutes int) Interval {
	return Interval{Start: iv.Start + minutes, End: iv.End + minutes}
}

func (iv Interval) String() string {
	return FormatTime(iv.Start) + "-" + FormatTime(iv.End)
}

// StartOfWeek returns the most recent week boundary at or before date, where
// the boundary day is configurable (Monday or Sunday calendars).
func StartOfWeek(date time.Time, firstDay time.Weekday) time.Time {
	offset := (int(date.Weekday()) - int(firstDay) + 7) % 7
	return date.AddDate(0, 0, -offset)
}

// DayIndex returns the position of date's weekday within a week starting on
// firstDay, in 0..6.
func DayIndex(date time.Time, firstDay time.Weekday) int {
	return (int(date.Weekday()) - int(firstDay) + 7) % 7
}
