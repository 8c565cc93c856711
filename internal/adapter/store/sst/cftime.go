package sst

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupportedCalendar is returned for CF calendars other than the
// standard Gregorian ones.
var ErrUnsupportedCalendar = errors.New("unsupported calendar")

// TimeUnits is a parsed CF time encoding such as "days since 1800-1-1 00:00:00".
type TimeUnits struct {
	Step      time.Duration
	Reference time.Time
}

// ParseTimeUnits parses a CF "<unit> since <reference>" string.
func ParseTimeUnits(units string) (TimeUnits, error) {
	parts := strings.SplitN(strings.TrimSpace(units), " since ", 2)
	if len(parts) != 2 {
		return TimeUnits{}, fmt.Errorf("time units %q: expected \"<unit> since <date>\"", units)
	}

	var step time.Duration
	switch strings.ToLower(strings.TrimSpace(parts[0])) {
	case "seconds", "second", "secs", "sec", "s":
		step = time.Second
	case "minutes", "minute", "mins", "min":
		step = time.Minute
	case "hours", "hour", "hrs", "hr", "h":
		step = time.Hour
	case "days", "day", "d":
		step = 24 * time.Hour
	default:
		return TimeUnits{}, fmt.Errorf("time units %q: unsupported unit %q", units, parts[0])
	}

	ref, err := parseReference(parts[1])
	if err != nil {
		return TimeUnits{}, fmt.Errorf("time units %q: %w", units, err)
	}
	return TimeUnits{Step: step, Reference: ref}, nil
}

// Decode converts offsets into UTC timestamps, rounded to the millisecond.
func (u TimeUnits) Decode(offsets []float64) ([]time.Time, error) {
	out := make([]time.Time, len(offsets))
	dayMs := float64(24 * time.Hour / time.Millisecond)
	stepMs := float64(u.Step / time.Millisecond)
	for i, v := range offsets {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("time value %d is not finite", i)
		}
		ms := math.Round(v * stepMs)
		days := math.Floor(ms / dayMs)
		rest := time.Duration(ms-days*dayMs) * time.Millisecond
		out[i] = u.Reference.AddDate(0, 0, int(days)).Add(rest)
	}
	return out, nil
}

// checkCalendar accepts an empty calendar attribute or one of the
// Gregorian calendars.
func checkCalendar(calendar string) error {
	switch strings.ToLower(strings.TrimSpace(calendar)) {
	case "", "standard", "gregorian", "proleptic_gregorian":
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedCalendar, calendar)
	}
}

// parseReference accepts "Y-M-D", "Y-M-D h:m:s" and "Y-M-DTh:m:sZ" forms
// with non-padded fields and an optional UTC suffix.
func parseReference(ref string) (time.Time, error) {
	ref = strings.Replace(strings.TrimSpace(ref), "T", " ", 1)
	fields := strings.Fields(ref)
	if len(fields) == 0 {
		return time.Time{}, errors.New("empty reference date")
	}

	ymd := strings.Split(fields[0], "-")
	if len(ymd) != 3 {
		return time.Time{}, fmt.Errorf("invalid reference date %q", fields[0])
	}
	var date [3]int
	for i, p := range ymd {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid reference date %q", fields[0])
		}
		date[i] = n
	}

	var hour, minute int
	var sec float64
	if len(fields) > 1 {
		clock := strings.TrimSuffix(fields[1], "Z")
		hms := strings.Split(clock, ":")
		if len(hms) < 2 || len(hms) > 3 {
			return time.Time{}, fmt.Errorf("invalid reference time %q", fields[1])
		}
		var err error
		if hour, err = strconv.Atoi(hms[0]); err != nil {
			return time.Time{}, fmt.Errorf("invalid reference time %q", fields[1])
		}
		if minute, err = strconv.Atoi(hms[1]); err != nil {
			return time.Time{}, fmt.Errorf("invalid reference time %q", fields[1])
		}
		if len(hms) == 3 {
			if sec, err = strconv.ParseFloat(hms[2], 64); err != nil {
				return time.Time{}, fmt.Errorf("invalid reference time %q", fields[1])
			}
		}
	}
	for _, tz := range fields[min(len(fields), 2):] {
		switch strings.ToUpper(tz) {
		case "UTC", "Z", "0", "0:00", "00:00", "+0:00", "+00:00", "+0000":
		default:
			return time.Time{}, fmt.Errorf("unsupported time zone %q", tz)
		}
	}

	whole := math.Floor(sec)
	nanos := int(math.Round((sec - whole) * 1e9))
	return time.Date(date[0], time.Month(date[1]), date[2], hour, minute, int(whole), nanos, time.UTC), nil
}
