package detector

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"macrowatch/models"
)

// STLConfig tunes the per-series decomposition detector.
type STLConfig struct {
	SeasonalPeriod int     // 4 for quarterly data
	TrendWindow    int     // loess window for the trend pass
	Multiplier     float64 // residual threshold in residual standard deviations
	MaxPasses      int     // inner seasonal/trend alternations per robustness pass
	RobustPasses   int     // robustness reweighting rounds
}

func (c STLConfig) withDefaults() STLConfig {
	if c.SeasonalPeriod <= 0 {
		c.SeasonalPeriod = 4
	}
	if c.TrendWindow <= 0 {
		c.TrendWindow = 7
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.5
	}
	if c.MaxPasses <= 0 {
		c.MaxPasses = 50
	}
	if c.RobustPasses <= 0 {
		c.RobustPasses = 2
	}
	return c
}

const minSeasonalCycles = 2

// STL flags periods where any monitored field departs sharply from its own
// trend+seasonal pattern. A period is flagged when the absolute decomposition
// residual of at least one field exceeds Multiplier times that field's
// residual standard deviation. Per-field residuals are returned for
// diagnostics.
func STL(panel models.Panel, cfg STLConfig) ([]bool, map[models.Field][]float64, error) {
	cfg = cfg.withDefaults()

	n := len(panel)
	need := minSeasonalCycles * cfg.SeasonalPeriod
	if n < need {
		return nil, nil, &models.InsufficientHistoryError{Have: n, Need: need}
	}

	flags := make([]bool, n)
	residuals := make(map[models.Field][]float64, len(models.Fields))
	for _, f := range models.Fields {
		y := panel.Values(f)
		res := decompose(y, cfg)
		residuals[f] = res

		std := stat.StdDev(res, nil)
		// A numerically zero residual means the series is an exact
		// trend+seasonal sum; nothing to flag.
		if std <= 1e-8*math.Max(1, meanAbs(y)) {
			continue
		}
		threshold := cfg.Multiplier * std
		for i, r := range res {
			if math.Abs(r) > threshold {
				flags[i] = true
			}
		}
	}
	return flags, residuals, nil
}

// decompose splits y into trend, seasonal and residual components by
// alternating loess trend extraction with per-phase seasonal averaging until
// the trend stabilizes, re-deriving robustness weights between passes.
func decompose(y []float64, cfg STLConfig) []float64 {
	n := len(y)
	tol := 1e-10 * math.Max(1, meanAbs(y))

	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}

	trend := loess(y, ones, cfg.TrendWindow)
	w := deviationWeights(subSlices(y, trend))
	seasonal := make([]float64, n)
	res := make([]float64, n)

	for pass := 0; pass <= cfg.RobustPasses; pass++ {
		for iter := 0; iter < cfg.MaxPasses; iter++ {
			prev := append([]float64(nil), trend...)
			seasonal = phaseMeans(subSlices(y, trend), w, cfg.SeasonalPeriod)
			trend = loess(subSlices(y, seasonal), w, cfg.TrendWindow)
			if maxAbsDelta(trend, prev) < tol {
				break
			}
		}
		for i := range res {
			res[i] = y[i] - trend[i] - seasonal[i]
		}
		if pass < cfg.RobustPasses {
			w = bisquareWeights(res)
		}
	}
	return res
}
