package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDuplicateIndexName(t *testing.T) {
	s := &TableSchema{
		Fields: []Column{{Name: "email", Type: TypeString}},
		Indexes: []Index{
			{Name: "idx_email", Fields: []string{"email"}},
			{Name: "idx_email", Fields: []string{"email"}},
		},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate index name")
}

func TestValidateUnknownColumn(t *testing.T) {
	s := &TableSchema{
		Fields:  []Column{{Name: "email", Type: TypeString}},
		Indexes: []Index{{Name: "idx_x", Fields: []string{"nope"}}},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent column")
}

func TestIsSinglePrimary(t *testing.T) {
	single := Index{Kind: KindPrimary, Fields: []string{"id"}}
	composite := Index{Kind: KindPrimary, Fields: []string{"a", "b"}}
	assert.True(t, single.IsSinglePrimary())
	assert.False(t, composite.IsSinglePrimary())
}
