package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetListClearsLoadingAndError(t *testing.T) {
	s := NewSlice[string]()
	s.SetLoading(true)
	s.SetError("boom")

	s.SetList([]string{"a", "b"})

	snap := s.Snapshot()
	assert.Equal(t, []string{"a", "b"}, snap.Items)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
}

func TestSetCurrentClearsLoadingAndError(t *testing.T) {
	s := NewSlice[int]()
	s.SetLoading(true)
	s.SetError("boom")

	v := 7
	s.SetCurrent(&v)

	snap := s.Snapshot()
	assert.Equal(t, 7, *snap.Current)
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)

	s.SetCurrent(nil)
	assert.Nil(t, s.Snapshot().Current)
}

func TestSetErrorKeepsItemsAndClearsLoading(t *testing.T) {
	s := NewSlice[string]()
	s.SetList([]string{"kept"})
	s.SetLoading(true)

	s.SetError("backend unavailable")

	snap := s.Snapshot()
	assert.Equal(t, []string{"kept"}, snap.Items)
	assert.Equal(t, "backend unavailable", snap.Err)
	assert.False(t, snap.Loading)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewSlice[string]()
	s.SetList([]string{"a"})

	snap := s.Snapshot()
	snap.Items[0] = "mutated"
	v := "other"
	snap.Current = &v

	fresh := s.Snapshot()
	assert.Equal(t, []string{"a"}, fresh.Items)
	assert.Nil(t, fresh.Current)
}
