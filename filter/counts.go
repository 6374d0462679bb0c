package filter

// OverlapCounts holds, for each read id, the number of retained PAF records
// in which that id appeared as either query or target name (spec.md §3).
type OverlapCounts struct {
	counts map[string]int
	total  int
}

// Shard is a per-worker-local accumulator merged once into an OverlapCounts
// at the end of draining, avoiding a lock on every record (spec.md §9
// "Concurrent counting", grounded on bam.FreePool's per-P sharding in
// github.com/grailbio/bio/encoding/bam/pool.go).
type Shard struct {
	counts map[string]int
	total  int
}

// NewShard constructs an empty per-worker accumulator.
func NewShard() *Shard {
	return &Shard{counts: make(map[string]int)}
}

// Add records one retained overlap between qname and tname.
func (s *Shard) Add(qname, tname string) {
	s.counts[qname]++
	s.counts[tname]++
	s.total++
}

// Merge folds a set of shards into a single OverlapCounts. Invariant
// (spec.md §4.4): sum(counts) == 2*Total().
func Merge(shards []*Shard) OverlapCounts {
	oc := OverlapCounts{counts: make(map[string]int)}
	for _, s := range shards {
		for id, n := range s.counts {
			oc.counts[id] += n
		}
		oc.total += s.total
	}
	return oc
}

// Count returns the retained overlap count for id.
func (oc OverlapCounts) Count(id string) int { return oc.counts[id] }

// Total returns the total number of retained PAF records.
func (oc OverlapCounts) Total() int { return oc.total }
