package detector

import (
	"time"

	"macrowatch/models"
)

// panelFromSeries builds a quarterly panel from per-field series of equal length.
func panelFromSeries(series map[models.Field][]float64) models.Panel {
	n := 0
	for _, s := range series {
		n = len(s)
	}
	dates := quarterlyDates(n)

	panel := make(models.Panel, n)
	for i := 0; i < n; i++ {
		rec := models.Record{Date: dates[i]}
		for _, f := range models.Fields {
			if s, ok := series[f]; ok {
				rec.Set(f, s[i])
			}
		}
		panel[i] = rec
	}
	return panel
}

func quarterlyDates(n int) []time.Time {
	dates := make([]time.Time, n)
	d := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i := range dates {
		dates[i] = d
		d = d.AddDate(0, 3, 0)
	}
	return dates
}

// trendSeasonal generates n values of a linear trend plus a fixed seasonal
// pattern, optionally with additive noise.
func trendSeasonal(n int, level, slope float64, seasonal []float64, noise []float64) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = level + slope*float64(i) + seasonal[i%len(seasonal)]
		if noise != nil {
			out[i] += noise[i%len(noise)]
		}
	}
	return out
}
