package aggregate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/grailbio/lrge/estimate"
)

func perReads(values ...float64) []estimate.PerRead {
	out := make([]estimate.PerRead, len(values))
	for i, v := range values {
		out[i] = estimate.PerRead{ID: string(rune('a' + i)), Estimate: v}
	}
	return out
}

func TestAggregateMedianOddCount(t *testing.T) {
	r := Aggregate(perReads(10, 20, 30), DefaultConfig())
	assert.Equal(t, 20.0, r.Estimate)
	assert.Equal(t, 3, r.N)
}

func TestAggregateQuantileInterpolation(t *testing.T) {
	// type-7 quantile over [10,20,30,40], q=0.5 -> h=(4-1)*0.5=1.5 -> 20+0.5*(30-20)=25
	r := Aggregate(perReads(10, 20, 30, 40), Config{QLow: 0.15, QHigh: 0.65})
	assert.InEpsilon(t, 25.0, r.Estimate, 1e-9)
}

func TestAggregateExcludesInfiniteByDefault(t *testing.T) {
	r := Aggregate(perReads(10, 20, math.Inf(1)), DefaultConfig())
	assert.Equal(t, 2, r.N)
	assert.Equal(t, 15.0, r.Estimate)
}

func TestAggregateIncludesInfiniteWhenRequested(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IncludeInfinite = true
	r := Aggregate(perReads(10, 20, math.Inf(1)), cfg)
	assert.Equal(t, 3, r.N)
	assert.Equal(t, 20.0, r.Estimate)
}

func TestAggregateEmptyYieldsNaN(t *testing.T) {
	r := Aggregate(nil, DefaultConfig())
	assert.True(t, math.IsNaN(r.Estimate))
	assert.Equal(t, 0, r.N)
}

func TestAggregateAllInfiniteExcludedYieldsNaN(t *testing.T) {
	r := Aggregate(perReads(math.Inf(1), math.Inf(1)), DefaultConfig())
	assert.True(t, math.IsNaN(r.Estimate))
	assert.Equal(t, 0, r.N)
}

func TestQuantileSingleValue(t *testing.T) {
	assert.Equal(t, 5.0, quantile([]float64{5}, 0.5))
}
