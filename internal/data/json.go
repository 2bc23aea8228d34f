// Package data loads metered household history.
package data

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"solar-roi/internal/conditions"
	"solar-roi/internal/model"
)

// DayJSON is one day of hourly readings on the wire.
type DayJSON struct {
	Date        string    `json:"date"`
	Consumption []float64 `json:"consumption"`
	Solar       []float64 `json:"solar"`
}

// SeriesJSON is one day of a single quantity.
type SeriesJSON struct {
	Date   string    `json:"date"`
	Values []float64 `json:"values"`
}

// HistoryFile accepts either combined days or separate consumption and
// solar series which are aligned by date.
type HistoryFile struct {
	Days        []DayJSON    `json:"days,omitempty"`
	Consumption []SeriesJSON `json:"consumption,omitempty"`
	Solar       []SeriesJSON `json:"solar,omitempty"`
}

func LoadHistoricalJSON(path string) ([]model.DayRecord, error) {
	f, err := LoadHistoryFile(path)
	if err != nil {
		return nil, err
	}
	return f.Records()
}

// LoadHistoryFile parses a history file without normalizing it.
func LoadHistoryFile(path string) (*HistoryFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var f HistoryFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	return &f, nil
}

// Records normalizes the file into date-ordered day records.
func (f HistoryFile) Records() ([]model.DayRecord, error) {
	if len(f.Days) > 0 {
		return DaysFromJSON(f.Days)
	}
	return AlignDays(f.Consumption, f.Solar)
}

func DaysFromJSON(days []DayJSON) ([]model.DayRecord, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no historical days", model.ErrMissingData)
	}
	out := make([]model.DayRecord, 0, len(days))
	for _, d := range days {
		rec, err := toRecord(d.Date, d.Consumption, d.Solar)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	sortByDate(out)
	return out, nil
}

// AlignDays pairs consumption and solar readings that share a date. Days
// present in only one series are dropped.
func AlignDays(consumption, solar []SeriesJSON) ([]model.DayRecord, error) {
	gen := make(map[string][]float64, len(solar))
	for _, s := range solar {
		d, err := conditions.ParseDate(s.Date)
		if err != nil {
			return nil, err
		}
		gen[d.Format(time.DateOnly)] = s.Values
	}

	var out []model.DayRecord
	for _, c := range consumption {
		d, err := conditions.ParseDate(c.Date)
		if err != nil {
			return nil, err
		}
		s, ok := gen[d.Format(time.DateOnly)]
		if !ok {
			continue
		}
		rec, err := toRecord(c.Date, c.Values, s)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: consumption and solar series share no dates", model.ErrMissingData)
	}
	sortByDate(out)
	return out, nil
}

func toRecord(date string, consumption, solar []float64) (model.DayRecord, error) {
	d, err := conditions.ParseDate(date)
	if err != nil {
		return model.DayRecord{}, err
	}
	c, err := model.NewHourlyProfile(consumption)
	if err != nil {
		return model.DayRecord{}, fmt.Errorf("%s consumption: %w", date, err)
	}
	if solar == nil {
		return model.DayRecord{}, fmt.Errorf("%w: %s has no solar readings", model.ErrMissingData, date)
	}
	s, err := model.NewHourlyProfile(solar)
	if err != nil {
		return model.DayRecord{}, fmt.Errorf("%s solar: %w", date, err)
	}
	return model.DayRecord{Date: d, Consumption: c, Solar: s}, nil
}

func sortByDate(days []model.DayRecord) {
	sort.SliceStable(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
}
