// Package paf parses PAF (Pairwise mApping Format) records emitted by the
// minimap2 overlap driver. Its field-by-field parsing style is grounded on
// blast.ParseTabular in github.com/kortschak/ins/blast, adapted from
// BLAST's 12-column tabular format to PAF's 12 mandatory columns plus a
// variable bag of optional tag:type:value fields.
package paf

import (
	"bytes"
	"strconv"

	"github.com/grailbio/lrge"
)

// Tag is an optional PAF `tag:type:value` field.
type Tag struct {
	Type  byte
	Value string
}

// Record is a single PAF alignment line. Coordinates are 0-based,
// half-open, matching spec.md's PafRecord data model.
type Record struct {
	QueryName   string
	QueryLen    int
	QueryStart  int
	QueryEnd    int
	Strand      byte // '+' or '-'
	TargetName  string
	TargetLen   int
	TargetStart int
	TargetEnd   int
	Matches     int
	BlockLen    int
	MapQ        int
	Tags        map[string]Tag
}

const minFields = 12

// Parse parses a single PAF line. A parse error here is, per spec.md §4.3,
// meant to be logged and the line dropped by the caller, not propagated as
// a fatal failure.
func Parse(line []byte) (Record, error) {
	f := bytes.Split(bytes.TrimRight(line, "\r\n"), []byte("\t"))
	if len(f) < minFields {
		return Record{}, lrge.Errorf(lrge.InvalidRecord, "paf: want at least %d fields, got %d: %q", minFields, len(f), line)
	}

	var r Record
	var err error
	r.QueryName = string(f[0])
	if r.QueryLen, err = atoi(f[1]); err != nil {
		return Record{}, err
	}
	if r.QueryStart, err = atoi(f[2]); err != nil {
		return Record{}, err
	}
	if r.QueryEnd, err = atoi(f[3]); err != nil {
		return Record{}, err
	}
	if len(f[4]) != 1 || (f[4][0] != '+' && f[4][0] != '-') {
		return Record{}, lrge.Errorf(lrge.InvalidRecord, "paf: bad strand field %q", f[4])
	}
	r.Strand = f[4][0]
	r.TargetName = string(f[5])
	if r.TargetLen, err = atoi(f[6]); err != nil {
		return Record{}, err
	}
	if r.TargetStart, err = atoi(f[7]); err != nil {
		return Record{}, err
	}
	if r.TargetEnd, err = atoi(f[8]); err != nil {
		return Record{}, err
	}
	if r.Matches, err = atoi(f[9]); err != nil {
		return Record{}, err
	}
	if r.BlockLen, err = atoi(f[10]); err != nil {
		return Record{}, err
	}
	if r.MapQ, err = atoi(f[11]); err != nil {
		return Record{}, err
	}

	if len(f) > minFields {
		r.Tags = make(map[string]Tag, len(f)-minFields)
		for _, tf := range f[minFields:] {
			parts := bytes.SplitN(tf, []byte(":"), 3)
			if len(parts) != 3 {
				continue // malformed optional field: ignore, not fatal.
			}
			r.Tags[string(parts[0])] = Tag{Type: parts[1][0], Value: string(parts[2])}
		}
	}

	if !(0 <= r.QueryStart && r.QueryStart < r.QueryEnd && r.QueryEnd <= r.QueryLen) {
		return Record{}, lrge.Errorf(lrge.InvalidRecord, "paf: invalid query coordinates %d..%d of %d for %s", r.QueryStart, r.QueryEnd, r.QueryLen, r.QueryName)
	}
	if !(0 <= r.TargetStart && r.TargetStart < r.TargetEnd && r.TargetEnd <= r.TargetLen) {
		return Record{}, lrge.Errorf(lrge.InvalidRecord, "paf: invalid target coordinates %d..%d of %d for %s", r.TargetStart, r.TargetEnd, r.TargetLen, r.TargetName)
	}

	return r, nil
}

func atoi(b []byte) (int, error) {
	n, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil {
		return 0, lrge.Wrap(lrge.InvalidRecord, err, "paf: bad integer field", string(b))
	}
	return n, nil
}
