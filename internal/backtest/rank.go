package backtest

import "sort"

type Ranked struct {
	Rank         int     `json:"rank"`
	ProviderID   string  `json:"provider_id"`
	ProviderName string  `json:"provider_name"`
	NPV          float64 `json:"npv"`
	TotalSavings float64 `json:"total_savings"`
	PaybackYear  *int    `json:"payback_year"`
}

// Rank orders providers by NPV descending. Equal NPVs fall back to provider id
// so the order is stable between runs.
func Rank(fins []ProviderFinancials) []Ranked {
	out := make([]Ranked, 0, len(fins))
	for _, f := range fins {
		out = append(out, Ranked{
			ProviderID:   f.ProviderID,
			ProviderName: f.ProviderName,
			NPV:          f.NPV,
			TotalSavings: f.TotalSavings,
			PaybackYear:  f.PaybackYear,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NPV != out[j].NPV {
			return out[i].NPV > out[j].NPV
		}
		return out[i].ProviderID < out[j].ProviderID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
