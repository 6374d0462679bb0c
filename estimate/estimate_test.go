package estimate

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/lrge/filter"
	"github.com/grailbio/lrge/reads"
	"github.com/grailbio/lrge/subset"
)

// buildSubset stages every given (id, length) pair into a ReadSubset via
// the real subset.Stage path, using a reservoir large enough to retain
// them all, so the subset carries realistic insertion order and totals.
func buildSubset(t *testing.T, ids []string, lengths []int) subset.ReadSubset {
	t.Helper()
	var sb strings.Builder
	for i, id := range ids {
		fmt.Fprintf(&sb, ">%s\n%s\n", id, strings.Repeat("A", lengths[i]))
	}
	r, err := reads.OpenReader(strings.NewReader(sb.String()))
	require.NoError(t, err)
	_, sub, err := subset.Stage(r, len(ids), nil, t.TempDir())
	require.NoError(t, err)
	return sub
}

func TestEstimateTwoSetZeroOverlap(t *testing.T) {
	target := buildSubset(t, []string{"t1", "t2"}, []int{1000, 2000})
	query := buildSubset(t, []string{"q1"}, []int{1500})

	oc := filter.Merge(nil)
	out, err := Estimate(context.Background(), oc, target, query, TwoSet, 100, 1, true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, math.IsInf(out[0].Estimate, 1))
}

func TestEstimateTwoSetFormula(t *testing.T) {
	target := buildSubset(t, []string{"t1", "t2"}, []int{1000, 3000}) // |T|=2, sum=4000, mean=2000
	query := buildSubset(t, []string{"q1"}, []int{1500})

	shard := filter.NewShard()
	shard.Add("q1", "t1")
	oc := filter.Merge([]*filter.Shard{shard})

	out, err := Estimate(context.Background(), oc, target, query, TwoSet, 100, 1, true)
	require.NoError(t, err)
	require.Len(t, out, 1)
	// |T|*(qlen+mean-2*OT)/o = 2*(1500+2000-200)/1 = 2*3300 = 6600
	assert.InEpsilon(t, 6600.0, out[0].Estimate, 1e-9)
}

func TestEstimateAllVsAllExcludesSelf(t *testing.T) {
	all := buildSubset(t, []string{"q1", "q2", "q3"}, []int{1000, 2000, 3000}) // sum=6000

	shard := filter.NewShard()
	shard.Add("q1", "q2")
	oc := filter.Merge([]*filter.Shard{shard})

	out, err := Estimate(context.Background(), oc, all, all, AllVsAll, 100, 1, true)
	require.NoError(t, err)
	require.Len(t, out, 3)

	var q1 PerRead
	for _, p := range out {
		if p.ID == "q1" {
			q1 = p
		}
	}
	// T excludes q1: |T|=2, sum=6000-1000=5000, mean=2500.
	// estimate = 2*(1000+2500-200)/1 = 2*3300=6600
	assert.InEpsilon(t, 6600.0, q1.Estimate, 1e-9)
}

func TestEstimateAllVsAllSubtractQueryDisabled(t *testing.T) {
	all := buildSubset(t, []string{"q1", "q2", "q3"}, []int{1000, 2000, 3000}) // sum=6000

	shard := filter.NewShard()
	shard.Add("q1", "q2")
	oc := filter.Merge([]*filter.Shard{shard})

	out, err := Estimate(context.Background(), oc, all, all, AllVsAll, 100, 1, false)
	require.NoError(t, err)

	var q1 PerRead
	for _, p := range out {
		if p.ID == "q1" {
			q1 = p
		}
	}
	// subtractQuery=false: T keeps q1, |T|=3, sum=6000, mean=2000.
	// estimate = 3*(1000+2000-200)/1 = 3*2800=8400
	assert.InEpsilon(t, 8400.0, q1.Estimate, 1e-9)
}

func TestEstimateClampsNegativeNumerator(t *testing.T) {
	target := buildSubset(t, []string{"t1"}, []int{10})
	query := buildSubset(t, []string{"q1"}, []int{5})

	shard := filter.NewShard()
	shard.Add("q1", "t1")
	oc := filter.Merge([]*filter.Shard{shard})

	// mean_T=10, qlen=5, OT=1000 => numerator negative, must clamp to 0.
	out, err := Estimate(context.Background(), oc, target, query, TwoSet, 1000, 1, true)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out[0].Estimate)
}

func TestEstimateParallelMatchesSerial(t *testing.T) {
	ids := make([]string, 50)
	lengths := make([]int, 50)
	for i := range ids {
		ids[i] = fmt.Sprintf("q%02d", i)
		lengths[i] = 1000 + i*10
	}
	target := buildSubset(t, []string{"t1", "t2"}, []int{5000, 6000})
	query := buildSubset(t, ids, lengths)

	shard := filter.NewShard()
	for _, id := range ids {
		shard.Add(id, "t1")
	}
	oc := filter.Merge([]*filter.Shard{shard})

	serial, err := Estimate(context.Background(), oc, target, query, TwoSet, 100, 1, true)
	require.NoError(t, err)
	parallel, err := Estimate(context.Background(), oc, target, query, TwoSet, 100, 8, true)
	require.NoError(t, err)

	require.Len(t, parallel, len(serial))
	for i := range serial {
		assert.Equal(t, serial[i], parallel[i])
	}
}
