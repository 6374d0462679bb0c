package subset

import (
	"bufio"
	cryptorand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/grailbio/lrge"
	"github.com/grailbio/lrge/reads"
)

// acceptable reports whether id can be handed across the cgo boundary to
// the native aligner as a null-terminated byte string: no interior NUL, no
// whitespace (spec.md §4.2).
func acceptable(id string) bool {
	return !strings.ContainsAny(id, "\x00 \t\r\n")
}

// reservoir implements Algorithm R reservoir sampling: it does not require
// knowing the stream length in advance, matching spec.md §9's guidance to
// use Algorithm R or L keyed by the caller's seed.
type reservoir struct {
	k     int
	seen  int
	items []reads.Record
}

func newReservoir(k int) *reservoir {
	return &reservoir{k: k, items: make([]reads.Record, 0, k)}
}

func (rv *reservoir) consider(rec reads.Record, rng *rand.Rand) {
	rv.seen++
	if len(rv.items) < rv.k {
		rv.items = append(rv.items, rec)
		return
	}
	if rv.k == 0 {
		return
	}
	j := rng.Intn(rv.seen)
	if j < rv.k {
		rv.items[j] = rec
	}
}

func seededRand(seed *uint64) *rand.Rand {
	var s uint64
	if seed != nil {
		s = *seed
	} else {
		var buf [8]byte
		if _, err := cryptorand.Read(buf[:]); err != nil {
			// crypto/rand.Read on a live OS source does not fail in
			// practice; a zero seed is a harmless, if unlikely, fallback.
			s = 0
		} else {
			s = binary.LittleEndian.Uint64(buf[:])
		}
	}
	return rand.New(rand.NewSource(int64(s)))
}

// Stage reservoir-samples up to k reads from r and writes them to a FASTA
// file in a temporary location under dir, returning the file path and the
// resulting ReadSubset. It implements the single-subset (all-vs-all) mode
// of spec.md §4.2.
func Stage(r *reads.Reader, k int, seed *uint64, dir string) (path string, sub ReadSubset, err error) {
	rng := seededRand(seed)
	rv := newReservoir(k)
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		rv.consider(rec, rng)
	}
	if err := r.Err(); err != nil {
		return "", ReadSubset{}, err
	}
	return writeFASTA(dir, "reads.fa", rv.items)
}

// StageTwo reservoir-samples two disjoint subsets, target (size kt) and
// query (size kq), from a single pass over r. Each record is assigned to
// exactly one reservoir by a deterministic coin flip drawn from the same
// seeded stream used for reservoir replacement, so the two subsets are
// disjoint by construction (spec.md §4.2).
func StageTwo(r *reads.Reader, kt, kq int, seed *uint64, dir string) (targetPath string, target ReadSubset, queryPath string, query ReadSubset, err error) {
	rng := seededRand(seed)
	rt := newReservoir(kt)
	rq := newReservoir(kq)
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		if rng.Intn(2) == 0 {
			rt.consider(rec, rng)
		} else {
			rq.consider(rec, rng)
		}
	}
	if err := r.Err(); err != nil {
		return "", ReadSubset{}, "", ReadSubset{}, err
	}
	targetPath, target, err = writeFASTA(dir, "target.fa", rt.items)
	if err != nil {
		return "", ReadSubset{}, "", ReadSubset{}, err
	}
	queryPath, query, err = writeFASTA(dir, "query.fa", rq.items)
	if err != nil {
		return "", ReadSubset{}, "", ReadSubset{}, err
	}
	return targetPath, target, queryPath, query, nil
}

func writeFASTA(dir, name string, recs []reads.Record) (string, ReadSubset, error) {
	path := dir + string(os.PathSeparator) + name
	f, err := os.Create(path)
	if err != nil {
		return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "create", path)
	}
	defer f.Close() // nolint: errcheck

	w := bufio.NewWriter(f)
	sub := newReadSubset(len(recs))
	for _, rec := range recs {
		if !acceptable(rec.ID) {
			return "", ReadSubset{}, lrge.Errorf(lrge.InvalidId, "read id %q is not acceptable to the native aligner", rec.ID)
		}
		if _, err := fmt.Fprintf(w, ">%s\n", rec.ID); err != nil {
			return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "write header", path)
		}
		if _, err := w.Write(rec.Seq); err != nil {
			return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "write sequence", path)
		}
		if err := w.WriteByte('\n'); err != nil {
			return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "write sequence", path)
		}
		sub.add(rec.ID, rec.Length)
	}
	if err := w.Flush(); err != nil {
		return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "flush", path)
	}
	if err := f.Sync(); err != nil {
		return "", ReadSubset{}, lrge.Wrap(lrge.Io, err, "sync", path)
	}
	return path, sub, nil
}
