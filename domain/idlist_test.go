package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDListRemoveFirstOccurrence(t *testing.T) {
	l := IDList{3, 1, 3, 2}
	l.Remove(3)
	assert.Equal(t, IDList{1, 3, 2}, l)

	// Removing an absent id is a no-op.
	l.Remove(99)
	assert.Equal(t, IDList{1, 3, 2}, l)
}

func TestIDListAddKeepsOrder(t *testing.T) {
	var l IDList
	l.Add(4)
	l.Add(1)
	l.Add(3)
	assert.Equal(t, IDList{4, 1, 3}, l)
	assert.True(t, l.Contains(1))
	assert.False(t, l.Contains(2))
}

func TestIDListValue(t *testing.T) {
	var nilList IDList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = IDList{1, 2}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", v)
}

func TestIDListScan(t *testing.T) {
	var l IDList
	require.NoError(t, l.Scan(nil))
	assert.Equal(t, IDList{}, l)

	require.NoError(t, l.Scan("[4,1,3]"))
	assert.Equal(t, IDList{4, 1, 3}, l)

	require.NoError(t, l.Scan([]byte("")))
	assert.Equal(t, IDList{}, l)

	assert.Error(t, l.Scan(42))
}
