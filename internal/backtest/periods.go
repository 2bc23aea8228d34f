package backtest

import (
	"fmt"
	"sort"
	"time"

	"solar-roi/internal/model"
	"solar-roi/internal/profile"
)

// period is one representative day and how many days of the year it stands for.
// date is the year-1 date; later years shift it forward.
type period struct {
	label       string
	date        time.Time
	days        float64
	consumption model.HourlyProfile
	solar       model.HourlyProfile
}

// buildPeriods expands the run's data into the ordered list of simulated days.
// The ordering is the SOC carry order.
func buildPeriods(in Input) ([]period, error) {
	if len(in.Historical) > 0 {
		return historicalPeriods(in.Historical)
	}
	return seasonalPeriods(in)
}

func historicalPeriods(days []model.DayRecord) ([]period, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no historical days", model.ErrMissingData)
	}
	sorted := make([]model.DayRecord, len(days))
	copy(sorted, days)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	weight := 365 / float64(len(sorted))
	out := make([]period, 0, len(sorted))
	for _, d := range sorted {
		out = append(out, period{
			label:       d.Date.Format(time.DateOnly),
			date:        d.Date,
			days:        weight,
			consumption: d.Consumption,
			solar:       d.Solar,
		})
	}
	return out, nil
}

func seasonalPeriods(in Input) ([]period, error) {
	hemi := in.hemisphere()
	startYear := in.Analysis.StartYear
	if startYear == 0 {
		startYear = 2025
	}

	peak, shoulder := profile.DefaultWindows()
	if in.ProfileWindows == WindowsProvider {
		peak, shoulder = profile.ProviderWindows(in.baseline())
	}

	if manual, ok := in.Seasonal[model.SeasonManual]; ok {
		if len(in.Seasonal) > 1 {
			return nil, fmt.Errorf("%w: manual seasonal data cannot be mixed with calendar seasons", model.ErrInvalidConfiguration)
		}
		// One average day repeated for each month so month-scoped conditions
		// still see the right calendar month.
		c, s := profile.FromSeasonal(manual, model.SeasonManual, peak, shoulder)
		out := make([]period, 0, 12)
		for m := time.January; m <= time.December; m++ {
			date := time.Date(startYear, m, 15, 0, 0, 0, 0, time.UTC)
			out = append(out, period{
				label:       m.String(),
				date:        date,
				days:        float64(daysIn(m)),
				consumption: c,
				solar:       s,
			})
		}
		return out, nil
	}

	out := make([]period, 0, len(model.Seasons))
	for _, season := range model.Seasons {
		d, ok := in.Seasonal[season]
		if !ok {
			return nil, fmt.Errorf("%w: seasonal data missing %s", model.ErrMissingData, season)
		}
		c, s := profile.FromSeasonal(d, season, peak, shoulder)
		out = append(out, period{
			label:       string(season),
			date:        time.Date(startYear, season.RepresentativeMonth(hemi), 15, 0, 0, 0, 0, time.UTC),
			days:        float64(season.Days(hemi)),
			consumption: c,
			solar:       s,
		})
	}
	return out, nil
}

// daysIn counts a non-leap month.
func daysIn(m time.Month) int {
	return time.Date(2023, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
