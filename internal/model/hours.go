package model

import (
	"fmt"
	"strconv"
	"strings"
)

// HourSet marks which hours of the day (0-23) a rule or window covers.
type HourSet [24]bool

// AllHours returns a set containing every hour of the day.
func AllHours() HourSet {
	var s HourSet
	for h := range s {
		s[h] = true
	}
	return s
}

// HourRange returns the hours in [start, end) on a 24h clock.
// If start == end the set is empty; if start > end it wraps across midnight.
func HourRange(start, end int) HourSet {
	var s HourSet
	for h := 0; h < 24; h++ {
		s[h] = InWindow(h, start, end)
	}
	return s
}

// InWindow checks whether hour is in [start, end) on a 24h clock.
// If start == end, the window is empty (always false).
// If start < end, it's a normal same-day window.
// If start > end, it wraps across midnight.
func InWindow(hour, start, end int) bool {
	if start == end {
		return false
	}
	if start < end {
		return hour >= start && hour < end
	}
	// wrap
	return hour >= start || hour < end
}

// Contains reports whether h is in the set. Out-of-range hours are never members.
func (s HourSet) Contains(h int) bool {
	if h < 0 || h > 23 {
		return false
	}
	return s[h]
}

// Count returns the number of hours in the set.
func (s HourSet) Count() int {
	n := 0
	for _, in := range s {
		if in {
			n++
		}
	}
	return n
}

// Hours lists the member hours in ascending order.
func (s HourSet) Hours() []int {
	out := make([]int, 0, 24)
	for h, in := range s {
		if in {
			out = append(out, h)
		}
	}
	return out
}

// Union returns the hours in either set.
func (s HourSet) Union(o HourSet) HourSet {
	var out HourSet
	for h := range out {
		out[h] = s[h] || o[h]
	}
	return out
}

// Minus returns the hours in s that are not in o.
func (s HourSet) Minus(o HourSet) HourSet {
	var out HourSet
	for h := range out {
		out[h] = s[h] && !o[h]
	}
	return out
}

// String renders the set as comma-separated HH:MM-HH:MM ranges,
// parseable by ParseHours.
func (s HourSet) String() string {
	if s.Count() == 24 {
		return "all"
	}
	var parts []string
	h := 0
	for h < 24 {
		if !s[h] {
			h++
			continue
		}
		start := h
		for h < 24 && s[h] {
			h++
		}
		parts = append(parts, fmt.Sprintf("%02d:00-%02d:00", start, h))
	}
	return strings.Join(parts, ", ")
}

// ParseHours parses a human-readable hour range expression such as
// "14:00-20:00", "7-10, 17-21" or "22:00-07:00" (wraps midnight).
// "all" or "*" selects every hour; an empty expression selects none.
// A bare hour like "5" selects that single hour.
func ParseHours(expr string) (HourSet, error) {
	var out HourSet
	expr = strings.TrimSpace(expr)
	switch strings.ToLower(expr) {
	case "":
		return out, nil
	case "all", "*":
		return AllHours(), nil
	}

	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		bounds := strings.SplitN(part, "-", 2)
		start, err := parseClockHour(bounds[0], false)
		if err != nil {
			return HourSet{}, err
		}
		if len(bounds) == 1 {
			out[start] = true
			continue
		}
		end, err := parseClockHour(bounds[1], true)
		if err != nil {
			return HourSet{}, err
		}
		out = out.Union(HourRange(start, end))
	}
	return out, nil
}

// parseClockHour accepts "H", "HH" or "HH:00". Hour 24 is only valid as an
// end bound.
func parseClockHour(s string, isEnd bool) (int, error) {
	s = strings.TrimSpace(s)
	hourPart, minPart, hasMin := strings.Cut(s, ":")
	h, err := strconv.Atoi(strings.TrimSpace(hourPart))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid hour in %q", ErrInvalidConfiguration, s)
	}
	if hasMin {
		m, err := strconv.Atoi(strings.TrimSpace(minPart))
		if err != nil || m < 0 || m > 59 {
			return 0, fmt.Errorf("%w: invalid minute in %q", ErrInvalidConfiguration, s)
		}
		if m != 0 {
			return 0, fmt.Errorf("%w: %q is not on an hour boundary", ErrInvalidConfiguration, s)
		}
	}
	max := 23
	if isEnd {
		max = 24
	}
	if h < 0 || h > max {
		return 0, fmt.Errorf("%w: hour %d out of range in %q", ErrInvalidConfiguration, h, s)
	}
	return h, nil
}
