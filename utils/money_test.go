package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.234))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 0.0, Round2(0))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.2, RoundTo(1.23, 1))
	assert.Equal(t, 1.0, RoundTo(1.23, 0))
	assert.Equal(t, 1.233, RoundTo(1.2334, 3))
}
