package lrge

// Platform selects the minimap2 overlap preset by sequencing technology.
type Platform string

const (
	PlatformONT Platform = "ont"
	PlatformPB  Platform = "pb"
)

// Config is the full configuration record accepted by the estimation
// engine, mirroring the CLI surface of spec.md §6.
type Config struct {
	// Input is a FASTA/FASTQ path, optionally compressed; "-" or "" means
	// standard input.
	Input string
	// Output is the estimate sink path; "-" or "" means standard output.
	Output string

	// Target is the size of the staged target subset (two-set mode).
	Target uint32
	// Query is the size of the staged query subset (two-set mode).
	Query uint32
	// Num, if non-nil, selects all-vs-all mode and is the size of the
	// single staged subset.
	Num *uint32

	Platform Platform
	Threads  uint32

	KeepTemp bool
	TempDir  string

	Seed *uint64

	IncludeInfinite bool
	FloatOutput     bool
	QLow            float64
	QHigh           float64

	OverhangRatio     float64
	OverlapThreshold  uint32
	FilterInternal    bool
	UseMinRef         bool

	// PersistPAF, when set, additionally writes every parsed record to this
	// path before filtering, as its 12 mandatory PAF columns. Optional tags
	// and lines that failed to parse are not written.
	PersistPAF string

	// SubtractQueryInAllVsAll governs the §4.5 all-vs-all |T|/Σ_T
	// adjustment; it exists only so the open question in spec.md §9 has a
	// single toggle point. DefaultConfig sets it to true and the CLI does
	// not expose it (see DESIGN.md).
	SubtractQueryInAllVsAll bool
}

// DefaultConfig matches the defaults enumerated in spec.md §6.
func DefaultConfig() Config {
	return Config{
		Output:                  "-",
		Target:                  10000,
		Query:                   5000,
		Platform:                PlatformONT,
		Threads:                 1,
		IncludeInfinite:         false,
		FloatOutput:             false,
		QLow:                    0.15,
		QHigh:                   0.65,
		OverhangRatio:           0.2,
		OverlapThreshold:        100,
		FilterInternal:          true,
		UseMinRef:               true,
		SubtractQueryInAllVsAll: true,
	}
}

// Validate surfaces only the genuinely ambiguous configuration identified
// by spec.md §6: q_low >= q_high. query+target exceeding the available
// read count is not an error; staging simply shrinks to what is
// available.
func (c Config) Validate() error {
	if c.QLow >= c.QHigh {
		return Errorf(BadConfig, "q_low (%v) must be less than q_high (%v)", c.QLow, c.QHigh)
	}
	return nil
}

// AllVsAll reports whether this configuration selects the all-vs-all
// staging strategy.
func (c Config) AllVsAll() bool { return c.Num != nil }
