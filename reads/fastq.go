package reads

import (
	"bufio"
	"io"

	"github.com/grailbio/lrge"
)

// nextFASTQ reads one 4-line FASTQ record, in the same spirit as
// fastq.Scanner.Scan in github.com/grailbio/bio/encoding/fastq: it requires
// the id line to start with '@' and the third line to start with '+', but
// does not otherwise validate seq/qual agreement in length.
func (r *Reader) nextFASTQ() (Record, bool) {
	idLine, ok := r.scanLine()
	if !ok {
		return Record{}, false
	}
	if len(idLine) == 0 || idLine[0] != '@' {
		r.err = lrge.Errorf(lrge.InvalidRecord, "expected '@' header, got %q", idLine)
		return Record{}, false
	}
	id := splitID(idLine[1:])

	seqLine, ok := r.scanLine()
	if !ok {
		r.err = lrge.Errorf(lrge.InvalidRecord, "truncated FASTQ record for %q: missing sequence line", id)
		return Record{}, false
	}
	seq := append([]byte(nil), seqLine...)

	plusLine, ok := r.scanLine()
	if !ok {
		r.err = lrge.Errorf(lrge.InvalidRecord, "truncated FASTQ record for %q: missing '+' line", id)
		return Record{}, false
	}
	if len(plusLine) == 0 || plusLine[0] != '+' {
		r.err = lrge.Errorf(lrge.InvalidRecord, "expected '+' separator for %q, got %q", id, plusLine)
		return Record{}, false
	}

	qualLine, ok := r.scanLine()
	if !ok {
		r.err = lrge.Errorf(lrge.InvalidRecord, "truncated FASTQ record for %q: missing quality line", id)
		return Record{}, false
	}
	qual := append([]byte(nil), qualLine...)

	return Record{ID: id, Length: len(seq), Seq: seq, Quality: qual}, true
}

// scanLine reads a single newline-delimited line, trimming the trailing
// '\n' and, if present, '\r'. It returns false at end of stream.
//
// ReadSlice alone would fail with bufio.ErrBufferFull on a single-line
// sequence longer than the buffer, which ultra-long nanopore reads
// routinely are; the loop below accumulates such lines across multiple
// underlying reads instead of treating ErrBufferFull as a hard error.
func (r *Reader) scanLine() ([]byte, bool) {
	var line []byte
	for {
		chunk, err := r.br.ReadSlice('\n')
		if err == bufio.ErrBufferFull {
			line = append(line, chunk...)
			continue
		}
		if len(chunk) == 0 && err != nil {
			if err != io.EOF {
				r.err = lrge.Wrap(lrge.Io, err, "read")
				return nil, false
			}
			if len(line) == 0 {
				return nil, false
			}
			break
		}
		line = append(line, chunk...)
		if err != nil && err != io.EOF {
			r.err = lrge.Wrap(lrge.Io, err, "read")
			return nil, false
		}
		break
	}
	line = trimEOL(line)
	return line, true
}

func trimEOL(b []byte) []byte {
	n := len(b)
	if n > 0 && b[n-1] == '\n' {
		n--
	}
	if n > 0 && b[n-1] == '\r' {
		n--
	}
	return b[:n]
}
