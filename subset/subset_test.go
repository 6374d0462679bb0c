package subset

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grailbio/lrge/reads"
)

func fastaStream(n int, length int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, ">read%d\n%s\n", i, strings.Repeat("A", length))
	}
	return sb.String()
}

func TestStageRetainsAllWhenUnderCapacity(t *testing.T) {
	r, err := reads.OpenReader(strings.NewReader(fastaStream(5, 100)))
	require.NoError(t, err)

	_, sub, err := Stage(r, 10, nil, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 5, sub.Len())
	assert.Equal(t, int64(500), sub.TotalLength())
}

func TestStageCapsAtReservoirSize(t *testing.T) {
	r, err := reads.OpenReader(strings.NewReader(fastaStream(100, 10)))
	require.NoError(t, err)

	_, sub, err := Stage(r, 7, nil, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7, sub.Len())
}

func TestStageIsDeterministicGivenSeed(t *testing.T) {
	stream := fastaStream(200, 50)
	seed := uint64(42)

	r1, err := reads.OpenReader(strings.NewReader(stream))
	require.NoError(t, err)
	_, sub1, err := Stage(r1, 10, &seed, t.TempDir())
	require.NoError(t, err)

	r2, err := reads.OpenReader(strings.NewReader(stream))
	require.NoError(t, err)
	_, sub2, err := Stage(r2, 10, &seed, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, sub1.Ids(), sub2.Ids())
}

func TestStageTwoProducesDisjointSubsets(t *testing.T) {
	seed := uint64(7)
	r, err := reads.OpenReader(strings.NewReader(fastaStream(100, 20)))
	require.NoError(t, err)

	_, target, _, query, err := StageTwo(r, 20, 20, &seed, t.TempDir())
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, id := range target.Ids() {
		seen[id] = true
	}
	for _, id := range query.Ids() {
		assert.False(t, seen[id], "query id %q also present in target", id)
	}
}

func TestAcceptableRejectsWhitespaceAndNUL(t *testing.T) {
	assert.True(t, acceptable("read1"))
	assert.False(t, acceptable("read 1"))
	assert.False(t, acceptable("read\t1"))
	assert.False(t, acceptable("read\x001"))
}

func TestWriteFASTARejectsUnacceptableID(t *testing.T) {
	// splitID already strips header whitespace, so only a NUL embedded in
	// the token itself can still make it through to the acceptable check.
	r, err := reads.OpenReader(strings.NewReader(">bad\x00id\nACGT\n"))
	require.NoError(t, err)
	_, _, err = Stage(r, 10, nil, t.TempDir())
	assert.Error(t, err)
}
