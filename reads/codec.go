package reads

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"io"

	"github.com/grailbio/lrge"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Magic byte prefixes for each supported compression codec, per spec.md
// §4.1. File-extension is never consulted; detection is always by sniffing.
var (
	magicGzip  = []byte{0x1F, 0x8B}
	magicZstd  = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicBzip2 = []byte{0x42, 0x5A, 0x68}
	magicXz    = []byte{0xFD, 0x37, 0x7A, 0x58, 0x5A, 0x00}
)

const sniffLen = 6

// detectAndDecompress peeks at the leading bytes of r and wraps it in the
// matching decompressor, falling back to the raw stream for uncompressed
// text. It never consults a file name or extension.
func detectAndDecompress(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return nil, lrge.Wrap(lrge.Io, err, "sniff compression header")
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		// klauspost/compress/gzip.Reader concatenates multi-member gzip
		// streams transparently by default (Multistream is on unless
		// explicitly disabled), satisfying spec.md's multi-member
		// requirement.
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, lrge.Wrap(lrge.Io, err, "open gzip stream")
		}
		return gz, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstdNewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	case bytes.HasPrefix(head, magicBzip2):
		return bzip2.NewReader(br), nil
	case bytes.HasPrefix(head, magicXz):
		return xzNewReader(br)
	default:
		return br, nil
	}
}

// zstdReadCloser wraps a klauspost/compress/zstd.Decoder so that it can be
// returned as an io.Reader. It adds no methods of its own, and nothing in
// this package calls the decoder's Close.
type zstdReadCloser struct {
	*zstd.Decoder
}

func zstdNewReader(r io.Reader) (io.Reader, error) {
	d, err := zstd.NewReader(r)
	if err != nil {
		return nil, lrge.Wrap(lrge.Io, err, "open zstd stream")
	}
	return &zstdReadCloser{d}, nil
}
