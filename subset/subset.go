// Package subset reservoir-samples a bounded number of reads from a
// (possibly much larger) stream and stages them to disk as uncompressed
// FASTA, recording their lengths. It implements spec.md's C2 component.
//
// ReadSubset's insertion-order-preserving map mirrors the seqNames/seqs
// pairing in github.com/grailbio/bio/encoding/fasta's eager reader.
package subset

// ReadSubset is an insertion-ordered mapping from read id to read length.
// Membership is fixed once staging completes.
type ReadSubset struct {
	ids     []string
	lengths map[string]int
}

func newReadSubset(capacity int) ReadSubset {
	return ReadSubset{
		ids:     make([]string, 0, capacity),
		lengths: make(map[string]int, capacity),
	}
}

func (s *ReadSubset) add(id string, length int) {
	if _, exists := s.lengths[id]; !exists {
		s.ids = append(s.ids, id)
	}
	s.lengths[id] = length
}

// Len returns the number of reads in the subset.
func (s ReadSubset) Len() int { return len(s.ids) }

// Ids returns the read ids in insertion order. The caller must not mutate
// the returned slice.
func (s ReadSubset) Ids() []string { return s.ids }

// Length returns the recorded length of id and whether id is a member.
func (s ReadSubset) Length(id string) (int, bool) {
	l, ok := s.lengths[id]
	return l, ok
}

// TotalLength returns the sum of the lengths of every read in the subset,
// accumulated as an integer running sum per spec.md §9's numerical
// stability note (converted to float64 only where the formula requires).
func (s ReadSubset) TotalLength() int64 {
	var total int64
	for _, id := range s.ids {
		total += int64(s.lengths[id])
	}
	return total
}
