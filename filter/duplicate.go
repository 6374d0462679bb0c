package filter

import "github.com/grailbio/lrge/paf"

// seenPairs tracks unordered {qname, tname} pairs already observed, keyed by
// the lexicographically smaller id, a separator, and the larger id
// (spec.md §4.4 item 2). It is owned by a single consumer goroutine; see
// Chain's doc comment.
type seenPairs struct {
	seen map[string]struct{}
}

// NewSeenPairs constructs an empty duplicate-pair tracker.
func NewSeenPairs() *seenPairs {
	return &seenPairs{seen: make(map[string]struct{})}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

func (d *seenPairs) notDuplicate(r *paf.Record) bool {
	key := pairKey(r.QueryName, r.TargetName)
	if _, ok := d.seen[key]; ok {
		return false
	}
	d.seen[key] = struct{}{}
	return true
}
