package indexrefs

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlfake/internal/row"
)

func TestUniqueLeafAddLookupRemove(t *testing.T) {
	s := NewStore()
	s.Add("idx_email", []string{"a@example.com"}, true, row.IntID(1))

	ids, ok := s.Lookup("idx_email", []string{"a@example.com"})
	require.True(t, ok)
	assert.Equal(t, []row.ID{row.IntID(1)}, ids)

	s.Remove("idx_email", []string{"a@example.com"}, true, row.IntID(1))
	_, ok = s.Lookup("idx_email", []string{"a@example.com"})
	assert.False(t, ok)
}

func TestNonUniqueSetAccumulates(t *testing.T) {
	s := NewStore()
	s.Add("idx_city", []string{"nyc"}, false, row.IntID(1))
	s.Add("idx_city", []string{"nyc"}, false, row.IntID(2))

	ids, ok := s.Lookup("idx_city", []string{"nyc"})
	require.True(t, ok)
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	assert.Equal(t, []row.ID{row.IntID(1), row.IntID(2)}, ids)

	s.Remove("idx_city", []string{"nyc"}, false, row.IntID(1))
	ids, ok = s.Lookup("idx_city", []string{"nyc"})
	require.True(t, ok)
	assert.Equal(t, []row.ID{row.IntID(2)}, ids)
}

func TestCompositePathCollapsesEmptyBranch(t *testing.T) {
	s := NewStore()
	s.Add("idx_bc", []string{"1", NullSentinel}, false, row.IntID(7))

	s.Remove("idx_bc", []string{"1", NullSentinel}, false, row.IntID(7))

	_, ok := s.Lookup("idx_bc", []string{"1", NullSentinel})
	assert.False(t, ok)
	// the outer branch for "1" should also have collapsed away
	idx := s.indexes["idx_bc"]
	assert.Len(t, idx.root, 0)
}

func TestCloneIsIndependent(t *testing.T) {
	s := NewStore()
	s.Add("idx_email", []string{"a@example.com"}, true, row.IntID(1))

	clone := s.Clone()
	clone.Add("idx_email", []string{"b@example.com"}, true, row.IntID(2))

	_, ok := s.Lookup("idx_email", []string{"b@example.com"})
	assert.False(t, ok, "mutating the clone must not affect the original store")
}
