// Package stats scores candidate-versus-reference counts and provides
// the descriptive statistics used in corpus summaries.
package stats

import (
	"math"
	"sort"
)

const (
	DefaultSmoothing = 0.5
	Z95              = 1.96
)

type Score struct {
	LogOdds float64 `json:"log_odds"`
	CILower float64 `json:"ci_lower"`
	CIUpper float64 `json:"ci_upper"`
}

// Significant reports whether the interval excludes zero in favour of
// the candidate corpus.
func (s Score) Significant() bool { return s.CILower > 0 }

// Rate is the additively smoothed rate (count+s)/(total+2s).
func Rate(count, total int, smoothing float64) float64 {
	return (float64(count) + smoothing) / (float64(total) + 2*smoothing)
}

// LogOdds compares the smoothed candidate rate with the smoothed
// reference rate and returns a 95% interval from the delta-method
// standard error over the four cells. Totals below their count are
// treated as equal to the count so the result stays finite. A
// smoothing value <= 0 is replaced by DefaultSmoothing, since zero counts
// would otherwise give infinite log-odds.
func LogOdds(candCount, refCount, candTotal, refTotal int, smoothing float64) Score {
	if smoothing <= 0 {
		smoothing = DefaultSmoothing
	}
	candCount, refCount = max(candCount, 0), max(refCount, 0)

	lo := math.Log(Rate(candCount, candTotal, smoothing) / Rate(refCount, refTotal, smoothing))
	se := math.Sqrt(
		1/(float64(candCount)+smoothing) +
			1/(float64(max(candTotal-candCount, 0))+smoothing) +
			1/(float64(refCount)+smoothing) +
			1/(float64(max(refTotal-refCount, 0))+smoothing),
	)
	return Score{
		LogOdds: lo,
		CILower: lo - Z95*se,
		CIUpper: lo + Z95*se,
	}
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Stdev is the sample standard deviation; zero below two values.
func Stdev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}

// CV is the coefficient of variation in percent.
func CV(values []float64) float64 {
	mean := Mean(values)
	if mean <= 0 {
		return 0
	}
	return Stdev(values) / mean * 100
}

// Median returns the upper median, sorted[n/2].
func Median(values []float64) float64 {
	return Percentile(values, 0.5)
}

// Percentile returns sorted[floor(n*p)], clamped to the last element.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	idx := int(float64(len(sorted)) * p)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Round rounds to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Ratio returns a/b, or nil when b is zero.
func Ratio(a, b float64) *float64 {
	if b == 0 {
		return nil
	}
	r := a / b
	return &r
}

func Ints(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
