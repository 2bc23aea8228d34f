package profile

import (
	"math"

	"solar-roi/internal/model"

	"gonum.org/v1/gonum/floats"
)

// Raw hourly generation weights. They are normalized once at init so each
// curve sums to 1.
var (
	summerCurve = normalize([24]float64{
		0, 0, 0, 0, 0, 0.2,
		1.0, 2.6, 4.5, 6.3, 7.8, 8.8,
		9.2, 9.0, 8.3, 7.1, 5.5, 3.7,
		2.0, 0.7, 0.1, 0, 0, 0,
	})
	winterCurve = normalize([24]float64{
		0, 0, 0, 0, 0, 0,
		0, 0.3, 1.6, 3.6, 5.4, 6.5,
		6.8, 6.3, 5.1, 3.3, 1.4, 0.2,
		0, 0, 0, 0, 0, 0,
	})
	// Autumn and spring.
	shoulderCurve = normalize([24]float64{
		0, 0, 0, 0, 0, 0,
		0.3, 1.5, 3.4, 5.3, 6.9, 7.9,
		8.3, 8.0, 7.0, 5.5, 3.6, 1.7,
		0.4, 0, 0, 0, 0, 0,
	})
	genericCurve = normalize(bell(12.5, 3))
)

// Curve returns the normalized generation shape for a season.
func Curve(season model.Season) [24]float64 {
	switch season {
	case model.SeasonSummer:
		return summerCurve
	case model.SeasonWinter:
		return winterCurve
	case model.SeasonAutumn, model.SeasonSpring:
		return shoulderCurve
	default:
		return genericCurve
	}
}

// bell is a daylight-only gaussian centred on solar noon.
func bell(noon, sigma float64) [24]float64 {
	var out [24]float64
	for h := 6; h <= 19; h++ {
		dist := float64(h) - noon
		out[h] = math.Exp(-dist * dist / (2 * sigma * sigma))
	}
	return out
}

func normalize(w [24]float64) [24]float64 {
	sum := floats.Sum(w[:])
	if sum <= 0 {
		return [24]float64{}
	}
	floats.Scale(1/sum, w[:])
	return w
}
