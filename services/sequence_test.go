package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPrefix(t *testing.T) {
	assert.Equal(t, "JC/", defaultPrefix("job.card"))
	assert.Equal(t, "RO/", defaultPrefix("repair.order"))
	assert.Equal(t, "X/", defaultPrefix("x"))
}

func TestNextByCodeSeededSequence(t *testing.T) {
	db := setupTestDB(t)

	ref, err := NextByCode(db, SequenceJobCard)
	require.NoError(t, err)
	assert.Equal(t, "JC/00001", ref)

	ref, err = NextByCode(db, SequenceJobCard)
	require.NoError(t, err)
	assert.Equal(t, "JC/00002", ref)
}

func TestNextByCodeCreatesOnFirstUse(t *testing.T) {
	db := setupTestDB(t)

	ref, err := NextByCode(db, "gate.pass")
	require.NoError(t, err)
	assert.Equal(t, "GP/00001", ref)

	ref, err = NextByCode(db, "gate.pass")
	require.NoError(t, err)
	assert.Equal(t, "GP/00002", ref)
}

func TestNextByCodeIndependentSequences(t *testing.T) {
	db := setupTestDB(t)

	jc, err := NextByCode(db, SequenceJobCard)
	require.NoError(t, err)
	ro, err := NextByCode(db, SequenceRepairOrder)
	require.NoError(t, err)

	assert.Equal(t, "JC/00001", jc)
	assert.Equal(t, "RO/00001", ro)
}
