// Command lrge estimates genome size from a set of long sequencing reads
// by observing read-overlap frequency, without assembly or a reference.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/lrge"
)

var (
	output           = flag.String("output", "-", "output path for the estimate ('-' for stdout)")
	target           = flag.Uint("target", 10000, "number of reads to stage as the target subset (two-set mode)")
	query            = flag.Uint("query", 5000, "number of reads to stage as the query subset (two-set mode)")
	num              = flag.Uint("num", 0, "if > 0, stage a single subset of this size and run all-vs-all")
	platform         = flag.String("platform", "ont", "sequencing platform: ont or pb")
	threads          = flag.Uint("threads", 1, "number of worker threads")
	keepTemp         = flag.Bool("keep-temp", false, "do not delete the scratch directory on exit")
	tempDir          = flag.String("temp-dir", "", "scratch directory (default: a new OS temp directory)")
	seed             = flag.Uint64("seed", 0, "RNG seed for reservoir sampling (0 means unset/random)")
	includeInfinite  = flag.Bool("include-infinite", false, "include reads with zero overlaps in the quantile computation")
	floatOutput      = flag.Bool("float-output", false, "emit the estimate as a floating-point number")
	qLow             = flag.Float64("q-low", 0.15, "lower quantile of the reported interval")
	qHigh            = flag.Float64("q-high", 0.65, "upper quantile of the reported interval")
	overhangRatio    = flag.Float64("overhang-ratio", 0.2, "maximum overhang-to-block-length ratio")
	overlapThreshold = flag.Uint("overlap-threshold", 100, "minimum overlap length in bases (OT)")
	filterInternal   = flag.Bool("filter-internal", true, "drop contained/internal match pairs")
	useMinRef        = flag.Bool("use-min-ref", true, "index the smaller-cumulative-length side in two-set mode")
	persistPAF       = flag.String("persist-paf", "", "if set, also write the parsed, pre-filter overlap records to this path")
)

func main() {
	shutdown := grail.Init()
	defer shutdown()
	flag.Parse()

	cfg := lrge.DefaultConfig()
	cfg.Input = flag.Arg(0)
	cfg.Output = *output
	cfg.Target = uint32(*target)
	cfg.Query = uint32(*query)
	if *num > 0 {
		n := uint32(*num)
		cfg.Num = &n
	}
	switch *platform {
	case "ont":
		cfg.Platform = lrge.PlatformONT
	case "pb":
		cfg.Platform = lrge.PlatformPB
	default:
		log.Fatalf("unknown platform %q: must be ont or pb", *platform)
	}
	cfg.Threads = uint32(*threads)
	cfg.KeepTemp = *keepTemp
	cfg.TempDir = *tempDir
	if *seed != 0 {
		s := *seed
		cfg.Seed = &s
	}
	cfg.IncludeInfinite = *includeInfinite
	cfg.FloatOutput = *floatOutput
	cfg.QLow = *qLow
	cfg.QHigh = *qHigh
	cfg.OverhangRatio = *overhangRatio
	cfg.OverlapThreshold = uint32(*overlapThreshold)
	cfg.FilterInternal = *filterInternal
	cfg.UseMinRef = *useMinRef
	cfg.PersistPAF = *persistPAF

	if err := run(cfg); err != nil {
		log.Error.Printf("lrge: %v", err)
		os.Exit(1)
	}
}

func run(cfg lrge.Config) error {
	ctx := vcontext.Background()

	engine := lrge.Engine{Config: cfg}
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if cfg.Output != "-" && cfg.Output != "" {
		f, err := file.Create(ctx, cfg.Output)
		if err != nil {
			return lrge.Wrap(lrge.Io, err, "create output", cfg.Output)
		}
		defer f.Close(ctx) // nolint: errcheck
		out = f.Writer(ctx)
	}

	switch {
	case cfg.FloatOutput:
		_, err = fmt.Fprintf(out, "%g\n", result.Estimate)
	case math.IsNaN(result.Estimate):
		_, err = fmt.Fprintln(out, "0")
	default:
		_, err = fmt.Fprintf(out, "%.0f\n", result.Estimate)
	}
	return err
}
