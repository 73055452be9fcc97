// Package dateutil implements day-key handling for the haru app.
//
// A day-key is a zero-padded "YYYY-MM-DD" string identifying a calendar day
// in the app's fixed reference timezone. Because the format is zero-padded,
// two day-keys compare correctly with plain string ordering; several callers
// rely on this, so the format must never change.
package dateutil

import (
	"fmt"
	"time"
)

// KeyLayout is the time layout for day-keys.
const KeyLayout = "2006-01-02"

// DefaultTimezone is the reference timezone used when the config does not
// name one. All "what day is it" questions are answered in this zone so the
// day boundary does not depend on the host clock's offset.
const DefaultTimezone = "Asia/Seoul"

var weekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Fields holds the calendar fields of a parsed day-key.
type Fields struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Weekday string
}

// Today returns the day-key for the current moment in loc.
func Today(loc *time.Location) string {
	return Key(time.Now().In(loc))
}

// Key formats t's calendar date as a day-key.
func Key(t time.Time) string {
	return t.Format(KeyLayout)
}

// Parse converts a day-key to a time.Time at midnight local time. Parsing as
// a local calendar date (not UTC) avoids off-by-one dates near timezone
// boundaries when the calendar fields are read back.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(KeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day-key %q: %w", key, err)
	}
	return t, nil
}

// IsValid reports whether key is a well-formed day-key.
func IsValid(key string) bool {
	_, err := Parse(key)
	return err == nil
}

// KeyFields parses a day-key into its calendar fields.
func KeyFields(key string) (Fields, error) {
	t, err := Parse(key)
	if err != nil {
		return Fields{}, err
	}
	return Fields{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Weekday: weekdayNames[int(t.Weekday())],
	}, nil
}

// AddDays returns the day-key n days after key (n may be negative). Month and
// year boundaries roll over via the calendar, so DST shifts cannot skip or
// repeat a day.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return Key(t.AddDate(0, 0, n)), nil
}

// FirstWeekday returns the weekday index (0=Sunday) of the first day of the
// month containing key.
func FirstWeekday(key string) (int, error) {
	t, err := Parse(key)
	if err != nil {
		return 0, err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return int(first.Weekday()), nil
}

// DaysInMonth returns the number of days in the month containing key.
func DaysInMonth(key string) (int, error) {
	t, err := Parse(key)
	if err != nil {
		return 0, err
	}
	// Day 0 of the next month is the last day of this one.
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return last.Day(), nil
}

// MonthKey builds the day-key for a specific day in the month containing key.
func MonthKey(key string, day int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), day), nil
}

// NextMidnight returns the first instant of the next day in loc, used to
// schedule the precise day-rollover check.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()+1, 0, 0, 0, 0, loc)
}

// LoadLocation resolves a timezone name, falling back to the default
// reference timezone, and finally to UTC if even that is unavailable.
func LoadLocation(name string) *time.Location {
	if name == "" {
		name = DefaultTimezone
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}
