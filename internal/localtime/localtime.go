// Package localtime turns hand-written wall-clock entries ("2/15", "3:15am")
// into absolute UTC instants for a fixed year and civil timezone.
package localtime

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	// Embedded zoneinfo so the configured zone resolves on minimal hosts.
	_ "time/tzdata"

	"github.com/pkg/errors"
)

type timeError string

func (e timeError) Error() string {
	return string(e)
}

const (
	// ErrMalformedTime is returned when a clock string is not h:mm{am,pm}.
	ErrMalformedTime = timeError("malformed time")
	// ErrInvalidDate is returned when month/day do not name a calendar date.
	ErrInvalidDate = timeError("invalid date")
)

var clockRE = regexp.MustCompile(`(?i)^(\d+):(\d+)(am|pm)$`)

// Normalizer converts local month/day/clock values into UTC.
type Normalizer struct {
	year int
	loc  *time.Location
}

// NewNormalizer loads the named IANA zone and binds it to a reference year.
func NewNormalizer(year int, tzName string) (*Normalizer, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, errors.Wrapf(err, "load timezone %q", tzName)
	}
	return &Normalizer{year: year, loc: loc}, nil
}

// Normalize interprets month/day at timeText in the normalizer's zone and
// returns the instant in UTC. timeText must already have its whitespace removed.
func (n *Normalizer) Normalize(month, day int, timeText string) (time.Time, error) {
	hour, minute, err := ParseClock(timeText)
	if err != nil {
		return time.Time{}, err
	}
	if !validDate(n.year, month, day) {
		return time.Time{}, errors.Wrapf(ErrInvalidDate, "%d/%d/%d", month, day, n.year)
	}

	wall := time.Date(n.year, time.Month(month), day, hour, minute, 0, 0, time.UTC)
	return resolve(wall, n.loc), nil
}

// resolve finds the instant whose wall clock in loc reads wall. When the
// reading is ambiguous (fall back) the standard-time instant wins; when it
// does not exist (spring forward) the standard offset is applied anyway.
func resolve(wall time.Time, loc *time.Location) time.Time {
	type candidate struct {
		at    time.Time
		dst   bool
		valid bool
	}

	// Offsets in effect a day either side of the reading.
	var cands []candidate
	for _, ref := range []time.Time{wall.Add(-24 * time.Hour), wall.Add(24 * time.Hour)} {
		refLocal := ref.In(loc)
		_, off := refLocal.Zone()
		at := wall.Add(-time.Duration(off) * time.Second)
		_, got := at.In(loc).Zone()
		cands = append(cands, candidate{at: at, dst: refLocal.IsDST(), valid: got == off})
	}

	for _, c := range cands {
		if c.valid && !c.dst {
			return c.at.UTC()
		}
	}
	for _, c := range cands {
		if c.valid {
			return c.at.UTC()
		}
	}
	for _, c := range cands {
		if !c.dst {
			return c.at.UTC()
		}
	}
	return cands[0].at.UTC()
}

// ParseClock converts a 12-hour clock string such as "3:15am" or "12:05PM"
// into a 24-hour hour and minute.
func ParseClock(text string) (hour, minute int, err error) {
	m := clockRE.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, 0, errors.Wrapf(ErrMalformedTime, "%q", text)
	}

	hour, err = strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return 0, 0, errors.Wrapf(ErrMalformedTime, "hour out of range in %q", text)
	}
	minute, err = strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return 0, 0, errors.Wrapf(ErrMalformedTime, "minute out of range in %q", text)
	}

	pm := strings.EqualFold(m[3], "pm")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return hour, minute, nil
}

// validDate rejects values time.Date would silently roll over (e.g. 4/31).
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Month() == time.Month(month) && t.Day() == day
}
