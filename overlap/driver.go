// Package overlap runs the native minimap2 overlap step of spec.md §4.3
// over a reference and query FASTA, decoding the resulting PAF stream
// concurrently. Its worker fan-out is grounded on the reqCh/resCh pattern
// of processRequests in github.com/grailbio/bio/cmd/bio-fusion.
package overlap

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/grailbio/base/log"

	"github.com/grailbio/lrge/overlap/mm2"
	"github.com/grailbio/lrge/paf"
	"github.com/grailbio/lrge/reads"
)

// Driver maps a query set against a reference set with libminimap2 and
// decodes the resulting PAF lines into paf.Record values.
type Driver struct {
	Preset mm2.Preset
}

// job is one query read handed from the feeder to a mapping worker.
type job struct {
	id  string
	seq []byte
}

// Stats accumulates counters updated concurrently by mapping workers.
// Read its fields only after the record channel returned by Driver.Run
// has closed.
type Stats struct {
	// DroppedLines counts PAF lines that failed to parse and were
	// dropped rather than surfaced as a run error (spec.md §4.3, §7).
	DroppedLines int64
}

// Run builds an index over refPath, streams qryPath's reads against it
// using up to threads mapping workers, and returns a channel of decoded
// PAF records alongside an error channel and a Stats the caller may
// inspect once draining completes. Both channels close once the query
// stream is exhausted or ctx is cancelled; the caller must drain records
// until the record channel closes to observe a terminal error on the
// error channel (spec.md §5 "Backpressure").
func (d Driver) Run(ctx context.Context, refPath, qryPath string, threads int) (<-chan paf.Record, <-chan error, *Stats) {
	records := make(chan paf.Record, threads*4)
	errc := make(chan error, 1)
	stats := &Stats{}

	go func() {
		defer close(records)
		defer close(errc)

		idx, err := mm2.BuildIndex(refPath, d.Preset, threads)
		if err != nil {
			errc <- err
			return
		}
		defer idx.Close()

		qr, err := reads.Open(qryPath)
		if err != nil {
			errc <- err
			return
		}
		defer qr.Close()

		g, gctx := errgroup.WithContext(ctx)
		jobs := make(chan job, threads*4)

		g.Go(func() error {
			defer close(jobs)
			for {
				rec, ok := qr.Next()
				if !ok {
					return qr.Err()
				}
				select {
				case jobs <- job{id: rec.ID, seq: rec.Seq}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})

		if threads < 1 {
			threads = 1
		}
		for w := 0; w < threads; w++ {
			g.Go(func() error {
				aligner, err := mm2.NewAligner(idx, d.Preset)
				if err != nil {
					return err
				}
				defer aligner.Close()

				for {
					select {
					case j, ok := <-jobs:
						if !ok {
							return nil
						}
						aligner.MapOne(j.id, j.seq, func(line []byte) {
							rec, err := paf.Parse(line)
							if err != nil {
								atomic.AddInt64(&stats.DroppedLines, 1)
								if log.At(log.Debug) {
									log.Debug.Printf("overlap: dropping unparseable PAF line for %s: %v", j.id, err)
								}
								return
							}
							select {
							case records <- rec:
							case <-gctx.Done():
							}
						})
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			})
		}

		if err := g.Wait(); err != nil && ctx.Err() == nil {
			errc <- err
		}
	}()

	return records, errc, stats
}
