package lrge

import (
	"context"
	"fmt"
	"os"

	"github.com/grailbio/base/log"

	"github.com/grailbio/lrge/aggregate"
	"github.com/grailbio/lrge/estimate"
	"github.com/grailbio/lrge/filter"
	"github.com/grailbio/lrge/overlap"
	"github.com/grailbio/lrge/overlap/mm2"
	"github.com/grailbio/lrge/reads"
	"github.com/grailbio/lrge/subset"
)

// Engine owns one end-to-end run of the estimation pipeline: staging,
// overlap mapping, filtering, per-read estimation, and aggregation
// (spec.md §3's C1-C6 dependency chain).
type Engine struct {
	Config Config
}

// Run executes the pipeline and returns the aggregated result.
func (e Engine) Run(ctx context.Context) (aggregate.Result, error) {
	if err := e.Config.Validate(); err != nil {
		return aggregate.Result{}, err
	}

	tempDir, cleanup, err := e.scopedTempDir()
	if err != nil {
		return aggregate.Result{}, err
	}
	defer cleanup()

	r, err := reads.Open(e.Config.Input)
	if err != nil {
		return aggregate.Result{}, err
	}
	defer r.Close() // nolint: errcheck

	preset := mm2.PresetAvaOnt
	if e.Config.Platform == PlatformPB {
		preset = mm2.PresetAvaPb
	}

	var (
		refPath, qryPath string
		target, query    subset.ReadSubset
		mode             estimate.Mode
	)
	if e.Config.AllVsAll() {
		n := int(*e.Config.Num)
		path, sub, err := subset.Stage(r, n, e.Config.Seed, tempDir)
		if err != nil {
			return aggregate.Result{}, err
		}
		refPath, qryPath = path, path
		target, query = sub, sub
		mode = estimate.AllVsAll
	} else {
		tPath, t, qPath, q, err := subset.StageTwo(r, int(e.Config.Target), int(e.Config.Query), e.Config.Seed, tempDir)
		if err != nil {
			return aggregate.Result{}, err
		}
		// The smaller-cumulative-length side is the natural reference, since
		// the index is built over it and peak index memory tracks its size.
		// UseMinRef inverts this when the caller wants the opposite tradeoff.
		queryIsSmaller := q.TotalLength() < t.TotalLength()
		if queryIsSmaller == e.Config.UseMinRef {
			refPath, qryPath = qPath, tPath
			target, query = q, t
		} else {
			refPath, qryPath = tPath, qPath
			target, query = t, q
		}
		mode = estimate.TwoSet
	}

	driver := overlap.Driver{Preset: preset}
	pafCh, driverErrCh, driverStats := driver.Run(ctx, refPath, qryPath, int(e.Config.Threads))

	filterCfg := filter.Config{
		FilterInternal:    e.Config.FilterInternal,
		InternalThreshold: 1000,
		OverhangRatio:     e.Config.OverhangRatio,
	}
	dup := filter.NewSeenPairs()
	chain := filter.Chain(filterCfg, dup)

	var persist *os.File
	if e.Config.PersistPAF != "" {
		persist, err = os.Create(e.Config.PersistPAF)
		if err != nil {
			return aggregate.Result{}, Wrap(Io, err, "create", e.Config.PersistPAF)
		}
		defer persist.Close() // nolint: errcheck
	}

	shard := filter.NewShard()
	for rec := range pafCh {
		rec := rec
		if persist != nil {
			fmt.Fprintf(persist, "%s\t%d\t%d\t%d\t%c\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n", // nolint: errcheck
				rec.QueryName, rec.QueryLen, rec.QueryStart, rec.QueryEnd, rec.Strand,
				rec.TargetName, rec.TargetLen, rec.TargetStart, rec.TargetEnd,
				rec.Matches, rec.BlockLen, rec.MapQ)
		}
		if !filter.Keep(chain, &rec) {
			continue
		}
		shard.Add(rec.QueryName, rec.TargetName)
	}
	if err := <-driverErrCh; err != nil {
		return aggregate.Result{}, err
	}
	if driverStats.DroppedLines > 0 {
		log.Printf("overlap: dropped %d unparseable PAF line(s)", driverStats.DroppedLines)
	}
	counts := filter.Merge([]*filter.Shard{shard})

	estimates, err := estimate.Estimate(ctx, counts, target, query, mode, int(e.Config.OverlapThreshold), int(e.Config.Threads), e.Config.SubtractQueryInAllVsAll)
	if err != nil {
		return aggregate.Result{}, err
	}

	result := aggregate.Aggregate(estimates, aggregate.Config{
		IncludeInfinite: e.Config.IncludeInfinite,
		QLow:            e.Config.QLow,
		QHigh:           e.Config.QHigh,
	})
	log.Printf("%s", result.String())
	return result, nil
}

func (e Engine) scopedTempDir() (path string, cleanup func(), err error) {
	dir := e.Config.TempDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "lrge-")
		if err != nil {
			return "", nil, Wrap(Io, err, "create scratch directory")
		}
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", nil, Wrap(Io, err, "create scratch directory", dir)
		}
	}
	keep := e.Config.KeepTemp
	return dir, func() {
		if !keep {
			os.RemoveAll(dir) // nolint: errcheck
		}
	}, nil
}
