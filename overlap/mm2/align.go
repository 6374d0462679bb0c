//go:build cgo
// +build cgo

package mm2

/*
#include <stdlib.h>
#include "minimap.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/grailbio/lrge"
)

// arena owns a batch of null-terminated C strings for the duration of a
// single mapping call, freeing them together rather than piecemeal
// (spec.md §9: read ids crossing the boundary live only as long as the
// call that may reference them).
type arena struct {
	ptrs []unsafe.Pointer
}

func (a *arena) cstring(s string) *C.char {
	p := C.CString(s)
	a.ptrs = append(a.ptrs, unsafe.Pointer(p))
	return (*C.char)(p)
}

func (a *arena) free() {
	for _, p := range a.ptrs {
		C.free(p)
	}
	a.ptrs = nil
}

// Aligner wraps the per-thread mm_tbuf_t buffer used by mm_map. One Aligner
// is built per worker goroutine and reused across the whole query stream;
// mm_tbuf_t is not safe to share across goroutines.
type Aligner struct {
	idx  *Index
	mopt C.mm_mapopt_t
	tbuf *C.mm_tbuf_t
}

// NewAligner derives mapping options for preset against idx.
func NewAligner(idx *Index, preset Preset) (*Aligner, error) {
	var iopt C.mm_idxopt_t
	var mopt C.mm_mapopt_t
	cPreset := C.CString(string(preset))
	defer C.free(unsafe.Pointer(cPreset))
	if C.mm_set_opt(cPreset, &iopt, &mopt) < 0 {
		return nil, lrge.Errorf(lrge.IndexBuild, "unknown minimap2 preset %q", preset)
	}
	C.mm_mapopt_update(&mopt, idx.ptr)
	tbuf := C.mm_tbuf_init()
	if tbuf == nil {
		return nil, lrge.Errorf(lrge.Internal, "failed to allocate minimap2 thread buffer")
	}
	return &Aligner{idx: idx, mopt: mopt, tbuf: tbuf}, nil
}

// Close releases the per-thread buffer. It must be called exactly once.
func (a *Aligner) Close() {
	if a.tbuf != nil {
		C.mm_tbuf_destroy(a.tbuf)
		a.tbuf = nil
	}
}

// MapOne maps a single query sequence (name, bases) against the index,
// invoking out once per reported alignment with one PAF text line
// (sans trailing newline).
//
// A fresh arena is used per call rather than shared across the whole
// stream, so C-string lifetime is always scoped to the call that
// references it, per spec.md §9.
func (a *Aligner) MapOne(name string, bases []byte, out func(line []byte)) {
	if len(bases) == 0 {
		return
	}
	ar := &arena{}
	defer ar.free()

	cName := ar.cstring(name)
	cSeq := (*C.char)(unsafe.Pointer(&bases[0]))

	var nRegs C.int
	regs := C.mm_map(a.idx.ptr, C.int(len(bases)), cSeq, &nRegs, a.tbuf, &a.mopt, cName)
	defer func() {
		for i := C.int(0); i < nRegs; i++ {
			reg := (*C.mm_reg1_t)(unsafe.Pointer(uintptr(unsafe.Pointer(regs)) + uintptr(i)*C.sizeof_mm_reg1_t))
			C.free(unsafe.Pointer(reg.p))
		}
		C.free(unsafe.Pointer(regs))
	}()

	for i := C.int(0); i < nRegs; i++ {
		reg := (*C.mm_reg1_t)(unsafe.Pointer(uintptr(unsafe.Pointer(regs)) + uintptr(i)*C.sizeof_mm_reg1_t))
		// reg.p (base-level alignment) is nil for every hit under the ava
		// presets, which do not request CIGARs, so it is not checked here.
		if reg.rid < 0 {
			continue // no target sequence: not a usable overlap.
		}
		tName := C.GoString(C.mm_idx_name(a.idx.ptr, C.int(reg.rid)))
		tLen := int(C.mm_idx_seq_len(a.idx.ptr, C.int(reg.rid)))
		strand := byte('+')
		if reg.rev != 0 {
			strand = '-'
		}
		line := formatPAF(name, len(bases), int(reg.qs), int(reg.qe), strand,
			tName, tLen, int(reg.rs), int(reg.re),
			int(reg.mlen), int(reg.blen), int(reg.mapq))
		out(line)
	}
}

func formatPAF(qname string, qlen, qs, qe int, strand byte, tname string, tlen, ts, te, mlen, blen, mapq int) []byte {
	return []byte(fmt.Sprintf("%s\t%d\t%d\t%d\t%c\t%s\t%d\t%d\t%d\t%d\t%d\t%d\ttp:A:P",
		qname, qlen, qs, qe, strand, tname, tlen, ts, te, mlen, blen, mapq))
}
