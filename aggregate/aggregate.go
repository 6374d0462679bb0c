// Package aggregate reduces a slice of per-read genome-size estimates to
// a single reported result, per spec.md §4.6. Quantile interpolation uses
// the "type-7" rule, the same convention used by R's default quantile()
// and by numpy's default percentile().
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/grailbio/base/log"

	"github.com/grailbio/lrge/estimate"
)

// Config controls which estimates are eligible and which quantiles bound
// the reported interval (spec.md §4.6 defaults).
type Config struct {
	IncludeInfinite bool
	QLow            float64
	QHigh           float64
}

// DefaultConfig matches spec.md §4.6.
func DefaultConfig() Config {
	return Config{IncludeInfinite: false, QLow: 0.15, QHigh: 0.65}
}

// Result is the final reported estimate: a point value (the median) plus
// the lower/upper quantile bound requested by cfg.
type Result struct {
	Estimate float64
	Low      float64
	High     float64
	N        int // number of estimates that went into the quantiles
}

// String renders a human-friendly one-line summary suitable for the log
// sink (spec.md §6: "the final estimate in human-friendly units and the
// quantile interval go to the log sink").
// The unit (bp, kb, Mb or Gb) is chosen from the point estimate and also
// applied to the interval bounds.
func (r Result) String() string {
	unit, div := "bp", 1.0
	switch {
	case r.Estimate >= 1e9:
		unit, div = "Gb", 1e9
	case r.Estimate >= 1e6:
		unit, div = "Mb", 1e6
	case r.Estimate >= 1e3:
		unit, div = "kb", 1e3
	}
	return fmt.Sprintf("genome size estimate: %.2f %s (%.2f-%.2f %s, n=%d)", r.Estimate/div, unit, r.Low/div, r.High/div, unit, r.N)
}

// Aggregate reduces per-read estimates to a Result. When the filtered
// vector is empty, or every estimate is infinite and infinities are
// excluded, it logs a warning and returns a Result of all-NaN rather than
// an error (spec.md §4.6: "reports success with a warning").
func Aggregate(estimates []estimate.PerRead, cfg Config) Result {
	values := make([]float64, 0, len(estimates))
	for _, e := range estimates {
		if math.IsInf(e.Estimate, 1) && !cfg.IncludeInfinite {
			continue
		}
		values = append(values, e.Estimate)
	}

	if len(values) == 0 {
		switch {
		case len(estimates) == 0:
			log.Printf("lrge: no query reads to estimate from; reporting NaN")
		default:
			log.Printf("lrge: no overlaps were found (every estimate was infinite); reporting NaN")
		}
		return Result{Estimate: math.NaN(), Low: math.NaN(), High: math.NaN(), N: 0}
	}

	sort.Float64s(values)
	return Result{
		Estimate: quantile(values, 0.5),
		Low:      quantile(values, cfg.QLow),
		High:     quantile(values, cfg.QHigh),
		N:        len(values),
	}
}

// quantile implements the type-7 interpolation rule over a pre-sorted
// slice: for rank h = (n-1)*q, v[floor(h)] + (h-floor(h))*(v[ceil(h)]-v[floor(h)]).
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := (float64(n) - 1) * q
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
