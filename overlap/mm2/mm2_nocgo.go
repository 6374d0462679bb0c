//go:build !cgo
// +build !cgo

package mm2

import "github.com/grailbio/lrge"

// Preset selects the minimap2 overlap preset.
type Preset string

const (
	PresetAvaOnt Preset = "ava-ont"
	PresetAvaPb  Preset = "ava-pb"
)

// Index is unusable in a build without cgo; every constructor reports
// IndexBuild instead of failing to link, mirroring
// github.com/grailbio/bio/encoding/bgzf's writer_nocgo.go.
type Index struct{}

func BuildIndex(refPath string, preset Preset, nThreads int) (*Index, error) {
	return nil, lrge.Errorf(lrge.IndexBuild, "minimap2 overlap driver requires a cgo build")
}

func (ix *Index) Close() {}

// Aligner is unusable in a build without cgo.
type Aligner struct{}

func NewAligner(idx *Index, preset Preset) (*Aligner, error) {
	return nil, lrge.Errorf(lrge.IndexBuild, "minimap2 overlap driver requires a cgo build")
}

func (a *Aligner) Close() {}

func (a *Aligner) MapOne(name string, bases []byte, out func(line []byte)) {}
