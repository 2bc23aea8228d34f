package model

import (
	"fmt"
	"strings"
	"time"
)

// DayRecord is one normalized day of metered data.
type DayRecord struct {
	Date        time.Time
	Consumption HourlyProfile
	Solar       HourlyProfile
}

// Season selects a solar shape curve and a slice of the year.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
	SeasonSpring Season = "spring"
	SeasonManual Season = "manual"
)

// Seasons lists the four calendar seasons in simulation order.
var Seasons = []Season{SeasonSummer, SeasonAutumn, SeasonWinter, SeasonSpring}

// ParseSeason accepts the season names case-insensitively; "fall" maps to autumn.
func ParseSeason(s string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summer":
		return SeasonSummer, nil
	case "autumn", "fall":
		return SeasonAutumn, nil
	case "winter":
		return SeasonWinter, nil
	case "spring":
		return SeasonSpring, nil
	case "manual", "":
		return SeasonManual, nil
	}
	return "", fmt.Errorf("%w: unknown season %q", ErrInvalidConfiguration, s)
}

// Hemisphere decides which months fall in which season.
type Hemisphere string

const (
	HemisphereSouth Hemisphere = "south"
	HemisphereNorth Hemisphere = "north"
)

// Months returns the three calendar months of the season, middle month second.
// Manual has no months.
func (s Season) Months(h Hemisphere) []time.Month {
	south := map[Season][]time.Month{
		SeasonSummer: {time.December, time.January, time.February},
		SeasonAutumn: {time.March, time.April, time.May},
		SeasonWinter: {time.June, time.July, time.August},
		SeasonSpring: {time.September, time.October, time.November},
	}
	flip := map[Season]Season{
		SeasonSummer: SeasonWinter,
		SeasonWinter: SeasonSummer,
		SeasonAutumn: SeasonSpring,
		SeasonSpring: SeasonAutumn,
	}
	if h == HemisphereNorth {
		return south[flip[s]]
	}
	return south[s]
}

// RepresentativeMonth is the middle month of the season.
func (s Season) RepresentativeMonth(h Hemisphere) time.Month {
	ms := s.Months(h)
	if len(ms) == 0 {
		return time.January
	}
	return ms[1]
}

// Days is how many days of a 365-day year the season stands for.
func (s Season) Days(h Hemisphere) int {
	days := 0
	for _, m := range s.Months(h) {
		// February counted as 28 days.
		days += time.Date(2023, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	return days
}

// SeasonalDay is an average day for a season: TOU-banded consumption totals
// and total solar generation, all in kWh/day.
type SeasonalDay struct {
	PeakKWh     float64
	ShoulderKWh float64
	OffPeakKWh  float64
	SolarKWh    float64
}

// ConsumptionKWh is the day's total consumption.
func (d SeasonalDay) ConsumptionKWh() float64 {
	return d.PeakKWh + d.ShoulderKWh + d.OffPeakKWh
}
