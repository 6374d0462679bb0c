// Package estimate computes the per-read genome-size estimate of
// spec.md §4.5 from a drained overlap count table. Parallel block
// dispatch is grounded on the worker-pool style of
// github.com/grailbio/bio/cmd/bio-fusion, sized by the same threads value
// used for the overlap driver.
package estimate

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/grailbio/lrge/filter"
	"github.com/grailbio/lrge/subset"
)

// Mode selects which staging strategy produced the subsets being
// estimated over, since the |T| and Σ_T adjustment differs between them
// (spec.md §4.5).
type Mode int

const (
	// TwoSet estimates query reads against a disjoint target subset.
	TwoSet Mode = iota
	// AllVsAll estimates query reads against the same subset they were
	// drawn from, excluding each read from its own T.
	AllVsAll
)

// PerRead is one query read's estimated genome size.
type PerRead struct {
	ID       string
	Estimate float64
}

// Estimate computes one PerRead for each read in query, in query's
// insertion order. target is the index-side subset (for TwoSet) or
// ignored (for AllVsAll, where query doubles as T). overlapThreshold is
// OT in bases (spec.md default 100).
//
// blocks partitions query.Ids() into up to blocks contiguous chunks
// computed concurrently; a value <= 1 computes serially. No chunk
// depends on another, matching the "lazy sequence... parallel workers
// may compute blocks independently" guarantee of spec.md §4.5.
//
// subtractQuery governs the all-vs-all |T|/Σ_T adjustment (spec.md §4.5,
// §9 open question): when true, each read is excluded from its own T
// before the mean is formed; it has no effect in TwoSet mode.
func Estimate(ctx context.Context, counts filter.OverlapCounts, target, query subset.ReadSubset, mode Mode, overlapThreshold, blocks int, subtractQuery bool) ([]PerRead, error) {
	ids := query.Ids()
	out := make([]PerRead, len(ids))

	tLen, tSum := tParams(mode, target, query)

	compute := func(i int) {
		id := ids[i]
		qLen, _ := query.Length(id)
		out[i] = PerRead{ID: id, Estimate: estimateOne(mode, tLen, tSum, qLen, counts.Count(id), overlapThreshold, subtractQuery)}
	}

	if blocks <= 1 || len(ids) == 0 {
		for i := range ids {
			compute(i)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	chunk := (len(ids) + blocks - 1) / blocks
	for start := 0; start < len(ids); start += chunk {
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				compute(i)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// tParams returns T's fixed (read-independent) length and total-bases
// sum for TwoSet mode; for AllVsAll the per-read subtraction in
// estimateOne still needs query's raw totals, so it returns query's
// unadjusted Len/TotalLength here.
func tParams(mode Mode, target, query subset.ReadSubset) (int, int64) {
	if mode == TwoSet {
		return target.Len(), target.TotalLength()
	}
	return query.Len(), query.TotalLength()
}

func estimateOne(mode Mode, tLenRaw int, tSumRaw int64, qLen, overlapCount, overlapThreshold int, subtractQuery bool) float64 {
	if overlapCount == 0 {
		return math.Inf(1)
	}

	tLen := tLenRaw
	tSum := tSumRaw
	if mode == AllVsAll && subtractQuery {
		tLen--
		tSum -= int64(qLen)
	}
	if tLen <= 0 {
		return 0
	}

	mean := float64(tSum) / float64(tLen)
	numerator := float64(tLen) * (float64(qLen) + mean - 2*float64(overlapThreshold))
	if numerator < 0 || math.IsNaN(numerator) || math.IsInf(numerator, 0) {
		numerator = 0
	}
	return numerator / float64(overlapCount)
}
