// Package entity holds the core data model shared by every subsystem of the
// simulator: items, route timetable rows, derived waves, orders, receiving
// records, the unified task, stations, staff and the event envelope.
package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockTime is a wallclock time of day with second resolution. It is used for
// order-time, cutoff and delivery comparisons, which are always same-day
// wallclock comparisons.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// Seconds returns the time of day expressed as seconds since midnight.
func (t ClockTime) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Before reports whether t occurs strictly earlier than o on the same day.
func (t ClockTime) Before(o ClockTime) bool { return t.Seconds() < o.Seconds() }

// After reports whether t occurs strictly later than o on the same day.
func (t ClockTime) After(o ClockTime) bool { return t.Seconds() > o.Seconds() }

// String renders the canonical HH:MM form.
func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseClockTime implements the canonical time parser: a
// 2-4 digit integer is parsed as HHMM (a bare 2-digit value is minutes-only,
// hour 0); "HH:MM[:SS]" is parsed literally.
func ParseClockTime(raw string) (ClockTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ClockTime{}, fmt.Errorf("empty time value")
	}

	if strings.Contains(raw, ":") {
		parts := strings.Split(raw, ":")
		if len(parts) < 2 || len(parts) > 3 {
			return ClockTime{}, fmt.Errorf("malformed time %q", raw)
		}
		hour, err := strconv.Atoi(parts[0])
		if err != nil {
			return ClockTime{}, fmt.Errorf("malformed hour in %q: %w", raw, err)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil {
			return ClockTime{}, fmt.Errorf("malformed minute in %q: %w", raw, err)
		}
		second := 0
		if len(parts) == 3 {
			second, err = strconv.Atoi(parts[2])
			if err != nil {
				return ClockTime{}, fmt.Errorf("malformed second in %q: %w", raw, err)
			}
		}
		return validateClock(hour, minute, second, raw)
	}

	digits := raw
	if len(digits) < 2 || len(digits) > 4 {
		return ClockTime{}, fmt.Errorf("time value %q must be 2-4 digits or HH:MM[:SS]", raw)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return ClockTime{}, fmt.Errorf("malformed numeric time %q: %w", raw, err)
	}

	var hour, minute int
	switch len(digits) {
	case 2:
		hour = 0
		minute = n
	case 3:
		hour = n / 100
		minute = n % 100
	case 4:
		hour = n / 100
		minute = n % 100
	}
	return validateClock(hour, minute, 0, raw)
}

func validateClock(hour, minute, second int, raw string) (ClockTime, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return ClockTime{}, fmt.Errorf("time value %q out of range", raw)
	}
	return ClockTime{Hour: hour, Minute: minute, Second: second}, nil
}
