package models

import (
	"sort"
	"time"
)

// FlagRow is a panel record extended with the three detector flags and their sum.
type FlagRow struct {
	Record
	FlagIsoForest bool `json:"flag_isoforest"`
	FlagSTL       bool `json:"flag_stl"`
	FlagProphet   bool `json:"flag_prophet"`
	AnomalyCount  int  `json:"anomaly_count"`
}

// DetectorWarning reports a detector that failed and contributed no flags.
type DetectorWarning struct {
	Detector string
	Err      error
}

// ForecastBand is one period of a fitted forecast with its prediction interval.
type ForecastBand struct {
	Date     time.Time `json:"date"`
	Forecast float64   `json:"forecast"`
	Lower    float64   `json:"lower"`
	Upper    float64   `json:"upper"`
}

// Result is the flag table handed to the presentation layer.
type Result struct {
	Rows     []FlagRow
	Warnings []DetectorWarning

	// Residuals keeps the decomposition detector's per-field residuals for
	// debugging; only the OR-combined flag is part of the contract.
	Residuals map[Field][]float64
}

// Flagged returns periods with at least one flag, most flags first and
// earliest date first within the same count.
func (r *Result) Flagged() []FlagRow {
	var out []FlagRow
	for _, row := range r.Rows {
		if row.AnomalyCount > 0 {
			out = append(out, row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AnomalyCount != out[j].AnomalyCount {
			return out[i].AnomalyCount > out[j].AnomalyCount
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Consensus returns periods flagged by more than one detector, in date order.
func (r *Result) Consensus() []FlagRow {
	var out []FlagRow
	for _, row := range r.Rows {
		if row.AnomalyCount > 1 {
			out = append(out, row)
		}
	}
	return out
}

// Latest returns the most recent period's flag state.
func (r *Result) Latest() (FlagRow, bool) {
	if len(r.Rows) == 0 {
		return FlagRow{}, false
	}
	return r.Rows[len(r.Rows)-1], true
}
