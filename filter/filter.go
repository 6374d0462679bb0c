// Package filter applies the PAF predicate chain of spec.md §4.4 (self
// alignment, duplicate pair, internal match, overhang ratio) and
// accumulates OverlapCounts. The per-worker local map merged once at the
// end is grounded on the sharding philosophy of bam.FreePool in
// github.com/grailbio/bio/encoding/bam/pool.go: avoid a lock on every
// record by giving each worker its own accumulator.
package filter

import "github.com/grailbio/lrge/paf"

// Config controls the predicate chain's thresholds, mapping directly onto
// spec.md §4.4 and the CLI surface of spec.md §6.
type Config struct {
	// FilterInternal enables the contained/internal-match predicate.
	FilterInternal bool
	// InternalThreshold is the minimum flank length (bp) used by the
	// contained/internal classification. Default 1000.
	InternalThreshold int
	// OverhangRatio is the maximum allowed overhang-to-block-length ratio.
	// Default 0.2.
	OverhangRatio float64
}

// DefaultConfig matches spec.md §4.4's defaults.
func DefaultConfig() Config {
	return Config{
		FilterInternal:    true,
		InternalThreshold: 1000,
		OverhangRatio:     0.2,
	}
}

// Predicate reports whether a record survives a single filter stage.
type Predicate func(r *paf.Record) bool

// Chain builds the ordered predicate chain of spec.md §4.4. dup must be
// shared across every record offered to the resulting predicates so that
// duplicate-pair detection can see the whole stream; it is not safe for
// concurrent use by multiple goroutines without external synchronization
// (see Chain's caller, lrge.Engine.Run, which drains the overlap driver's
// record channel in a single goroutine).
func Chain(cfg Config, dup *seenPairs) []Predicate {
	chain := []Predicate{notSelfAlignment, dup.notDuplicate}
	if cfg.FilterInternal {
		chain = append(chain, internalMatch(cfg.InternalThreshold))
	}
	chain = append(chain, overhangRatio(cfg.OverhangRatio))
	return chain
}

// Keep reports whether r survives every predicate in chain, in order,
// short-circuiting on the first failure (spec.md §4.4: "any failure drops
// the record").
func Keep(chain []Predicate, r *paf.Record) bool {
	for _, p := range chain {
		if !p(r) {
			return false
		}
	}
	return true
}

func notSelfAlignment(r *paf.Record) bool {
	return r.QueryName != r.TargetName
}

// internalMatch implements minimap2's classic contained/internal rule
// (spec.md §4.4 item 3): a record is internal on side X when both X-start
// and (Xlen-Xend) exceed threshold; contained when both are below it; the
// record is dropped when one side is contained and the other internal.
func internalMatch(threshold int) Predicate {
	return func(r *paf.Record) bool {
		qInternal := r.QueryStart > threshold && r.QueryLen-r.QueryEnd > threshold
		qContained := r.QueryStart <= threshold && r.QueryLen-r.QueryEnd <= threshold
		tInternal := r.TargetStart > threshold && r.TargetLen-r.TargetEnd > threshold
		tContained := r.TargetStart <= threshold && r.TargetLen-r.TargetEnd <= threshold
		if (qContained && tInternal) || (tContained && qInternal) {
			return false
		}
		return true
	}
}

// overhangRatio implements spec.md §4.4 item 4.
func overhangRatio(ratio float64) Predicate {
	return func(r *paf.Record) bool {
		overhang := min(r.QueryStart, r.TargetStart) + min(r.QueryLen-r.QueryEnd, r.TargetLen-r.TargetEnd)
		return float64(overhang) <= ratio*float64(r.BlockLen)
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
