package reads

import (
	"bytes"
	"compress/gzip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []Record {
	t.Helper()
	var out []Record
	for {
		rec, ok := r.Next()
		if !ok {
			break
		}
		out = append(out, rec)
	}
	require.NoError(t, r.Err())
	return out
}

func TestFASTARecords(t *testing.T) {
	const in = ">read1 extra description\nACGTACGT\nACGT\n>read2\nTTTT\n"
	r, err := OpenReader(strings.NewReader(in))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "read1", recs[0].ID)
	assert.Equal(t, []byte("ACGTACGTACGT"), recs[0].Seq)
	assert.Equal(t, 12, recs[0].Length)
	assert.Nil(t, recs[0].Quality)
	assert.Equal(t, "read2", recs[1].ID)
	assert.Equal(t, []byte("TTTT"), recs[1].Seq)
}

func TestFASTQRecords(t *testing.T) {
	const in = "@read1 extra\nACGT\n+\nIIII\n@read2\nTTTT\n+\nJJJJ\n"
	r, err := OpenReader(strings.NewReader(in))
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 2)
	assert.Equal(t, "read1", recs[0].ID)
	assert.Equal(t, []byte("ACGT"), recs[0].Seq)
	assert.Equal(t, []byte("IIII"), recs[0].Quality)
}

func TestFASTQTruncatedRecord(t *testing.T) {
	const in = "@read1\nACGT\n+\n"
	r, err := OpenReader(strings.NewReader(in))
	require.NoError(t, err)
	_, ok := r.Next()
	assert.False(t, ok)
	assert.Error(t, r.Err())
}

func TestEmptyStream(t *testing.T) {
	r, err := OpenReader(strings.NewReader(""))
	require.NoError(t, err)
	_, ok := r.Next()
	assert.False(t, ok)
	assert.NoError(t, r.Err())
}

func TestUnrecognisedFormat(t *testing.T) {
	_, err := OpenReader(strings.NewReader("not a fasta or fastq file\n"))
	assert.Error(t, err)
}

func TestGzipDetection(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	_, err := gw.Write([]byte(">read1\nACGT\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())

	r, err := OpenReader(&buf)
	require.NoError(t, err)
	recs := readAll(t, r)
	require.Len(t, recs, 1)
	assert.Equal(t, "read1", recs[0].ID)
}
