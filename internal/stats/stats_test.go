package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finite(s Score) bool {
	for _, v := range []float64{s.LogOdds, s.CILower, s.CIUpper} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func TestLogOddsSign(t *testing.T) {
	for _, tc := range []struct{ cc, rc, ct, rt int }{
		{10, 1, 1000, 1000},
		{1, 10, 1000, 1000},
		{5, 5, 1000, 1000},
		{0, 0, 10, 500},
		{50, 3, 100, 20},
		{0, 7, 50, 60},
	} {
		s := LogOdds(tc.cc, tc.rc, tc.ct, tc.rt, DefaultSmoothing)
		cr := Rate(tc.cc, tc.ct, DefaultSmoothing)
		rr := Rate(tc.rc, tc.rt, DefaultSmoothing)
		assert.Equal(t, cr > rr, s.LogOdds > 0, "counts %+v", tc)
	}
}

func TestLogOddsMonotoneInCandidateCount(t *testing.T) {
	prev := math.Inf(-1)
	for cc := 0; cc <= 100; cc++ {
		s := LogOdds(cc, 10, 1000, 1000, DefaultSmoothing)
		require.Greater(t, s.LogOdds, prev, "candidate count %d", cc)
		prev = s.LogOdds
	}
}

func TestCINarrowsWithMoreData(t *testing.T) {
	prev := math.Inf(1)
	for _, k := range []int{1, 2, 4, 8, 16} {
		s := LogOdds(10*k, 5*k, 10000, 10000, DefaultSmoothing)
		width := s.CIUpper - s.CILower
		require.Less(t, width, prev, "scale %d", k)
		prev = width
	}
}

func TestLogOddsZeroCountsFinite(t *testing.T) {
	for _, total := range []int{1, 2, 10, 1000, 1 << 20} {
		s := LogOdds(0, 0, total, total, DefaultSmoothing)
		require.True(t, finite(s), "total %d: %+v", total, s)
		assert.InDelta(t, 0, s.LogOdds, 1e-12)
		assert.False(t, s.Significant())
	}
}

func TestLogOddsTotalsBelowCounts(t *testing.T) {
	// phrase counts can exceed the per-100-chars totals they are scored against
	s := LogOdds(100, 0, 68, 23, DefaultSmoothing)
	require.True(t, finite(s))
	assert.InDelta(t, 4.25, s.LogOdds, 0.01)
	assert.True(t, s.Significant())
}

func TestLogOddsKnownValue(t *testing.T) {
	s := LogOdds(100, 0, 1100, 600, DefaultSmoothing)
	assert.InDelta(t, 4.698, s.LogOdds, 0.01)
	assert.InDelta(t, 1.92, s.CILower, 0.02)
	assert.InDelta(t, s.LogOdds*2-s.CILower, s.CIUpper, 1e-9)
}

func TestLogOddsNonPositiveSmoothingUsesDefault(t *testing.T) {
	want := LogOdds(0, 5, 1000, 1000, DefaultSmoothing)
	for _, s := range []float64{0, -1} {
		got := LogOdds(0, 5, 1000, 1000, s)
		require.True(t, finite(got))
		assert.Equal(t, want, got)
	}
}

func TestDescriptive(t *testing.T) {
	vals := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(vals), 1e-9)
	assert.InDelta(t, 2.138, Stdev(vals), 1e-3)
	assert.InDelta(t, 42.76, CV(vals), 0.01)
	assert.Equal(t, 5.0, Median(vals))
	assert.Equal(t, 2.0, Percentile(vals, 0.1))
	assert.Equal(t, 9.0, Percentile(vals, 0.9))
	assert.Equal(t, 9.0, Percentile(vals, 1))

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Stdev([]float64{3}))
	assert.Zero(t, CV(nil))
	assert.Zero(t, Percentile(nil, 0.5))
	assert.Equal(t, []float64{1, 2}, Ints([]int{1, 2}))
	assert.Equal(t, 1.24, Round(1.2449, 2))
}

func TestRatio(t *testing.T) {
	assert.Nil(t, Ratio(1, 0))
	r := Ratio(3, 2)
	require.NotNil(t, r)
	assert.Equal(t, 1.5, *r)
}
