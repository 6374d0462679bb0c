package lrge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsInvertedQuantiles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QLow = 0.7
	cfg.QHigh = 0.2
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Equal(t, BadConfig, KindOf(err))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestAllVsAllToggle(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.AllVsAll())
	n := uint32(1000)
	cfg.Num = &n
	assert.True(t, cfg.AllVsAll())
}
