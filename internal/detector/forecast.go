package detector

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"macrowatch/models"
)

// ForecastConfig tunes the GDP forecast-deviation detector.
type ForecastConfig struct {
	IntervalWidth float64 // two-sided prediction interval mass, e.g. 0.95
	FourierOrder  int     // yearly seasonality harmonics
}

func (c ForecastConfig) withDefaults() ForecastConfig {
	if c.IntervalWidth <= 0 || c.IntervalWidth >= 1 {
		c.IntervalWidth = 0.95
	}
	if c.FourierOrder <= 0 {
		c.FourierOrder = 1
	}
	return c
}

const quartersPerYear = 4

// Forecast fits an additive trend+yearly-seasonality model to the GDP series
// and flags periods whose realized value falls outside the fitted prediction
// interval. The check is in-sample: the model sees the full series, so flags
// mean in-sample forecast deviation rather than predictive surprise.
func Forecast(panel models.Panel, cfg ForecastConfig) ([]bool, []models.ForecastBand, error) {
	cfg = cfg.withDefaults()

	y := panel.Values(models.FieldGDPGrowth)
	n := len(y)

	cols := designColumns(n, cfg.FourierOrder)
	p := len(cols)
	if n < p+1 {
		return nil, nil, &models.ModelFitError{
			Reason: fmt.Sprintf("%d periods cannot identify %d coefficients", n, p),
		}
	}

	X := mat.NewDense(n, p, nil)
	for j, col := range cols {
		X.SetCol(j, col)
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewVecDense(n, y)); err != nil {
		return nil, nil, &models.ModelFitError{Reason: "least squares solve failed", Err: err}
	}

	var fitted mat.Dense
	fitted.Mul(X, &beta)

	var ss float64
	for i := 0; i < n; i++ {
		r := y[i] - fitted.At(i, 0)
		ss += r * r
	}
	sigma := math.Sqrt(ss / float64(n))

	z := distuv.UnitNormal.Quantile(0.5 + cfg.IntervalWidth/2)
	// A zero-variance series degenerates to a zero-width interval; the guard
	// keeps float noise around an exact fit from producing flags.
	eps := 1e-9 * math.Max(1, meanAbs(y))

	flags := make([]bool, n)
	bands := make([]models.ForecastBand, n)
	for i, rec := range panel {
		f := fitted.At(i, 0)
		lower, upper := f-z*sigma, f+z*sigma
		bands[i] = models.ForecastBand{Date: rec.Date, Forecast: f, Lower: lower, Upper: upper}
		flags[i] = y[i] < lower-eps || y[i] > upper+eps
	}
	return flags, bands, nil
}

// designColumns builds the intercept, linear trend and yearly Fourier columns.
// At quarterly sampling harmonics above the Nyquist term vanish; identically
// zero columns are dropped so the system stays full rank.
func designColumns(n, order int) [][]float64 {
	intercept := make([]float64, n)
	ramp := make([]float64, n)
	for t := 0; t < n; t++ {
		intercept[t] = 1
		ramp[t] = float64(t)
	}
	cols := [][]float64{intercept, ramp}

	for k := 1; k <= order; k++ {
		sinCol := make([]float64, n)
		cosCol := make([]float64, n)
		for t := 0; t < n; t++ {
			angle := 2 * math.Pi * float64(k) * float64(t) / quartersPerYear
			sinCol[t] = math.Sin(angle)
			cosCol[t] = math.Cos(angle)
		}
		if !allNearZero(sinCol) {
			cols = append(cols, sinCol)
		}
		if !allNearZero(cosCol) {
			cols = append(cols, cosCol)
		}
	}
	return cols
}

func allNearZero(col []float64) bool {
	for _, v := range col {
		if math.Abs(v) > 1e-12 {
			return false
		}
	}
	return true
}
