// Package reads provides a streaming reader over FASTA/FASTQ files, with
// transparent detection of gzip, zstd, bzip2 and xz compression. It is
// grounded on the scanning style of encoding/fastq.Scanner and
// encoding/fasta.New in github.com/grailbio/bio, generalized to accept
// either format and any of the four compression codecs from a single
// entry point, since the estimation engine must accept ONT or PacBio
// reads in whichever the caller happens to have on disk.
package reads

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/grailbio/lrge"
)

// Record is a single sequencing read. Quality is nil for FASTA input.
// Identity is the first whitespace-delimited token of the header, split on
// both spaces and tabs, matching spec.md's Read data model.
type Record struct {
	ID      string
	Length  int
	Seq     []byte
	Quality []byte
}

// Reader yields Records from a single-pass, in-order stream. Compression is
// sniffed from the leading bytes; file-extension is never consulted.
type Reader struct {
	br     *bufio.Reader
	closer io.Closer
	format format
	err    error
	done   bool
}

type format int

const (
	formatUnknown format = iota
	formatFASTA
	formatFASTQ
)

// Open opens path for reading. Path "-" denotes stdin; compression is still
// sniffed from the leading bytes of the stream in that case.
func Open(path string) (*Reader, error) {
	if path == "-" || path == "" {
		r, err := OpenReader(os.Stdin)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, lrge.Wrap(lrge.Io, err, "open", path)
	}
	r, err := OpenReader(f)
	if err != nil {
		f.Close() // nolint: errcheck
		return nil, err
	}
	r.closer = f
	return r, nil
}

// OpenReader wraps an already-open stream, detecting compression from its
// leading bytes.
func OpenReader(r io.Reader) (*Reader, error) {
	decoded, err := detectAndDecompress(r)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(decoded, 1<<20)
	// The format is decided by the first non-whitespace byte.
	var b []byte
	for {
		b, err = br.Peek(1)
		if err != nil && err != io.EOF {
			return nil, lrge.Wrap(lrge.Io, err, "peek record header")
		}
		if len(b) == 0 || (b[0] != ' ' && b[0] != '\t' && b[0] != '\r' && b[0] != '\n') {
			break
		}
		br.ReadByte() // nolint: errcheck
	}
	rd := &Reader{br: br}
	if len(b) == 0 {
		rd.done = true
		return rd, nil
	}
	switch b[0] {
	case '>':
		rd.format = formatFASTA
	case '@':
		rd.format = formatFASTQ
	default:
		return nil, lrge.Errorf(lrge.InvalidRecord, "unrecognised record start byte %q", b[0])
	}
	return rd, nil
}

// Next returns the next record and true, or a zero Record and false when the
// stream is exhausted or an error occurred; call Err to distinguish the two.
func (r *Reader) Next() (Record, bool) {
	if r.err != nil || r.done {
		return Record{}, false
	}
	var rec Record
	var ok bool
	switch r.format {
	case formatFASTA:
		rec, ok = r.nextFASTA()
	case formatFASTQ:
		rec, ok = r.nextFASTQ()
	default:
		r.done = true
		return Record{}, false
	}
	if !ok {
		r.done = true
	}
	return rec, ok
}

// Err returns the first error encountered, if any.
func (r *Reader) Err() error { return r.err }

// Close releases the underlying file handle, if Open was used.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

func splitID(header []byte) string {
	if i := bytes.IndexAny(header, " \t"); i >= 0 {
		return string(header[:i])
	}
	return string(header)
}
