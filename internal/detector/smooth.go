package detector

import (
	"math"
	"sort"
)

// loess smooths y with tricube-weighted local linear regression. robust holds
// per-point robustness weights; points with weight zero do not influence the
// fit. Linear input is reproduced exactly, including at the boundaries.
func loess(y, robust []float64, window int) []float64 {
	n := len(y)
	if window > n {
		window = n
	}
	if window < 2 {
		window = 2
	}

	out := make([]float64, n)
	half := window / 2
	for i := 0; i < n; i++ {
		lo := i - half
		hi := lo + window
		if lo < 0 {
			lo, hi = 0, window
		}
		if hi > n {
			lo, hi = n-window, n
		}
		maxDist := math.Max(float64(i-lo), float64(hi-1-i)) + 1e-9

		// Weighted linear fit with x centered at i, so the intercept is the
		// smoothed value.
		var sw, swx, swy, swxx, swxy float64
		for j := lo; j < hi; j++ {
			d := math.Abs(float64(j-i)) / maxDist
			wt := tricube(d) * robust[j]
			if wt == 0 {
				continue
			}
			x := float64(j - i)
			sw += wt
			swx += wt * x
			swy += wt * y[j]
			swxx += wt * x * x
			swxy += wt * x * y[j]
		}
		if sw == 0 {
			out[i] = y[i]
			continue
		}
		denom := sw*swxx - swx*swx
		if math.Abs(denom) <= 1e-12*(sw*swxx+1) {
			out[i] = swy / sw
			continue
		}
		slope := (sw*swxy - swx*swy) / denom
		out[i] = (swy - slope*swx) / sw
	}
	return out
}

func tricube(d float64) float64 {
	if d >= 1 {
		return 0
	}
	t := 1 - d*d*d
	return t * t * t
}

// phaseMeans estimates the seasonal component as the weighted mean of x per
// phase, centered so the seasonal carries no level.
func phaseMeans(x, w []float64, period int) []float64 {
	means := make([]float64, period)
	for ph := 0; ph < period; ph++ {
		var sw, sxw float64
		for i := ph; i < len(x); i += period {
			sw += w[i]
			sxw += w[i] * x[i]
		}
		if sw > 0 {
			means[ph] = sxw / sw
		} else {
			// Every observation of this phase was rejected; fall back to the
			// unweighted mean.
			var s float64
			cnt := 0
			for i := ph; i < len(x); i += period {
				s += x[i]
				cnt++
			}
			if cnt > 0 {
				means[ph] = s / float64(cnt)
			}
		}
	}

	var level float64
	for _, m := range means {
		level += m
	}
	level /= float64(period)

	out := make([]float64, len(x))
	for i := range x {
		out[i] = means[i%period] - level
	}
	return out
}

// bisquareWeights computes robustness weights from residuals with the usual
// 6*median(|r|) cutoff, falling back to 6*mean(|r|) when the median collapses
// to zero (most residuals exactly zero).
func bisquareWeights(res []float64) []float64 {
	n := len(res)
	abs := make([]float64, n)
	var meanAbsRes float64
	for i, r := range res {
		abs[i] = math.Abs(r)
		meanAbsRes += abs[i]
	}
	meanAbsRes /= float64(n)

	sorted := append([]float64(nil), abs...)
	sort.Float64s(sorted)
	cutoff := 6 * median(sorted)
	if cutoff <= 1e-12*(1+meanAbsRes) {
		cutoff = 6 * meanAbsRes
	}

	w := make([]float64, n)
	if cutoff == 0 {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	for i := range res {
		u := abs[i] / cutoff
		if u >= 1 {
			w[i] = 0
			continue
		}
		t := 1 - u*u
		w[i] = t * t
	}
	return w
}

// deviationWeights downweights detrended values far from the cross-panel
// median, using a 6*MAD bisquare cutoff. With short histories this is what
// keeps a single shock out of the seasonal estimate: both observations of a
// phase get comparable weights unless one of them is an outlier.
func deviationWeights(detrended []float64) []float64 {
	n := len(detrended)
	sorted := append([]float64(nil), detrended...)
	sort.Float64s(sorted)
	med := median(sorted)

	dev := make([]float64, n)
	for i, v := range detrended {
		dev[i] = math.Abs(v - med)
	}
	sortedDev := append([]float64(nil), dev...)
	sort.Float64s(sortedDev)
	cutoff := 6 * median(sortedDev)

	w := make([]float64, n)
	if cutoff == 0 {
		for i := range w {
			w[i] = 1
		}
		return w
	}
	for i := range dev {
		u := dev[i] / cutoff
		if u >= 1 {
			w[i] = 0
			continue
		}
		t := 1 - u*u
		w[i] = t * t
	}
	return w
}

// median of an already sorted slice.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func meanAbs(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += math.Abs(v)
	}
	return s / float64(len(x))
}

func subSlices(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func maxAbsDelta(a, b []float64) float64 {
	var m float64
	for i := range a {
		if d := math.Abs(a[i] - b[i]); d > m {
			m = d
		}
	}
	return m
}
