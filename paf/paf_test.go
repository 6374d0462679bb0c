package paf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	line := []byte("read1\t5000\t100\t4900\t+\tread2\t6000\t200\t5000\t4500\t4800\t60\ttp:A:P\tcm:i:312")
	r, err := Parse(line)
	require.NoError(t, err)
	assert.Equal(t, "read1", r.QueryName)
	assert.Equal(t, 5000, r.QueryLen)
	assert.Equal(t, 100, r.QueryStart)
	assert.Equal(t, 4900, r.QueryEnd)
	assert.Equal(t, byte('+'), r.Strand)
	assert.Equal(t, "read2", r.TargetName)
	assert.Equal(t, 6000, r.TargetLen)
	assert.Equal(t, 200, r.TargetStart)
	assert.Equal(t, 5000, r.TargetEnd)
	assert.Equal(t, 4500, r.Matches)
	assert.Equal(t, 4800, r.BlockLen)
	assert.Equal(t, 60, r.MapQ)
	require.Contains(t, r.Tags, "tp")
	assert.Equal(t, "P", r.Tags["tp"].Value)
	require.Contains(t, r.Tags, "cm")
	assert.Equal(t, "312", r.Tags["cm"].Value)
}

func TestParseMissingFields(t *testing.T) {
	_, err := Parse([]byte("read1\t5000\t100"))
	assert.Error(t, err)
}

func TestParseBadStrand(t *testing.T) {
	_, err := Parse([]byte("read1\t5000\t100\t4900\tx\tread2\t6000\t200\t5000\t4500\t4800\t60"))
	assert.Error(t, err)
}

func TestParseInvalidCoordinates(t *testing.T) {
	// qend <= qstart violates the half-open interval invariant.
	_, err := Parse([]byte("read1\t5000\t4900\t4900\t+\tread2\t6000\t200\t5000\t4500\t4800\t60"))
	assert.Error(t, err)
}

func TestParseNoOptionalTags(t *testing.T) {
	r, err := Parse([]byte("read1\t5000\t100\t4900\t+\tread2\t6000\t200\t5000\t4500\t4800\t60"))
	require.NoError(t, err)
	assert.Empty(t, r.Tags)
}
