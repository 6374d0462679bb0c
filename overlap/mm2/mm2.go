//go:build cgo
// +build cgo

// Package mm2 is a cgo binding to libminimap2, the native overlap library
// referenced throughout spec.md §4.3 and §9. It owns the index handle and
// the per-thread mapping buffers exclusively: the index is built in one
// call and released on Close, and read ids crossing the boundary are
// copied into a wrapper-owned arena of null-terminated C strings that live
// for exactly the duration of the call that may reference them
// (spec.md §9 "Native aligner lifetime").
//
// The cgo/!cgo split mirrors github.com/grailbio/bio/encoding/bgzf's
// writer_cgo.go / writer_nocgo.go pair: building without cgo yields a
// package that reports IndexBuild rather than failing to link.
package mm2

/*
#cgo pkg-config: minimap2
#include <stdlib.h>
#include "minimap.h"

static void mm_lrge_set_batch(mm_idxopt_t *io, uint64_t n) {
	io->batch_size = n;
	io->mini_batch_size = n;
}
*/
import "C"

import (
	"os"
	"sync"
	"unsafe"

	"github.com/grailbio/lrge"
)

// Preset selects the minimap2 overlap preset. Only the two presets named
// by spec.md §4.3 are supported.
type Preset string

const (
	PresetAvaOnt Preset = "ava-ont"
	PresetAvaPb  Preset = "ava-pb"
)

// Index wraps a single-part minimap2 minimizer index. It is built over
// exactly one file, with the batch size forced to cover the whole
// reference so the aligner never splits into multiple index parts
// (spec.md §9 "Avoiding multi-part indexing": a multi-part index changes
// PAF pairing semantics and would break the filter's deduplication).
type Index struct {
	mu  sync.Mutex
	ptr *C.mm_idx_t
}

// refBatchSlack is added to the measured reference size when forcing a
// single-part index, so that off-by-one accounting in the underlying
// batching logic can never trigger a second part.
const refBatchSlack = 1 << 20 // 1 MiB

// BuildIndex constructs a single-part index over refPath using preset,
// with nThreads worker threads for index construction.
func BuildIndex(refPath string, preset Preset, nThreads int) (*Index, error) {
	size, err := fileSize(refPath)
	if err != nil {
		return nil, lrge.Wrap(lrge.IndexBuild, err, "stat reference", refPath)
	}

	var iopt C.mm_idxopt_t
	var mopt C.mm_mapopt_t
	cPreset := C.CString(string(preset))
	defer C.free(unsafe.Pointer(cPreset))
	if C.mm_set_opt(cPreset, &iopt, &mopt) < 0 {
		return nil, lrge.Errorf(lrge.IndexBuild, "unknown minimap2 preset %q", preset)
	}
	C.mm_lrge_set_batch(&iopt, C.uint64_t(size)+refBatchSlack)

	cPath := C.CString(refPath)
	defer C.free(unsafe.Pointer(cPath))

	reader := C.mm_idx_reader_open(cPath, &iopt, nil)
	if reader == nil {
		return nil, lrge.Errorf(lrge.IndexBuild, "failed to open reference %q", refPath)
	}
	defer C.mm_idx_reader_close(reader)

	idx := C.mm_idx_reader_read(reader, C.int(nThreads))
	if idx == nil {
		return nil, lrge.Errorf(lrge.IndexBuild, "failed to build index over %q", refPath)
	}
	// A second call to mm_idx_reader_read returning non-nil would mean the
	// reference was split into more than one part, which must not happen
	// given refBatchSlack; we do not loop reading further parts.
	if extra := C.mm_idx_reader_read(reader, C.int(nThreads)); extra != nil {
		C.mm_idx_destroy(extra)
		C.mm_idx_destroy(idx)
		return nil, lrge.Errorf(lrge.IndexBuild, "reference %q produced a multi-part index despite forced batch size", refPath)
	}

	C.mm_mapopt_update(&mopt, idx)
	return &Index{ptr: idx}, nil
}

// Close releases the native index. It must be called exactly once.
func (ix *Index) Close() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.ptr != nil {
		C.mm_idx_destroy(ix.ptr)
		ix.ptr = nil
	}
}

func fileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}
