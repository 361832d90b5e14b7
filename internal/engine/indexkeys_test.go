package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

func TestComputeApplicableIndexesMatchesAssignedColumn(t *testing.T) {
	s := &schema.TableSchema{
		Fields: []schema.Column{{Name: "id", Type: schema.TypeInt}, {Name: "email", Type: schema.TypeString}},
		Indexes: []schema.Index{
			{Name: "PRIMARY", Kind: schema.KindPrimary, Fields: []string{"id"}},
			{Name: "uq_email", Kind: schema.KindUnique, Fields: []string{"email"}},
		},
	}
	out := ComputeApplicableIndexes(s, []string{"email"}, false)
	assert.Len(t, out, 1)
	assert.Equal(t, "uq_email", out[0].Index.Name)
	assert.True(t, out[0].StoreAsUnique)
}

func TestComputeApplicableIndexesIncludesAllOnPKChange(t *testing.T) {
	s := &schema.TableSchema{
		Fields: []schema.Column{{Name: "id", Type: schema.TypeInt}, {Name: "email", Type: schema.TypeString}},
		Indexes: []schema.Index{
			{Name: "PRIMARY", Kind: schema.KindPrimary, Fields: []string{"id"}},
			{Name: "uq_email", Kind: schema.KindUnique, Fields: []string{"email"}},
		},
	}
	out := ComputeApplicableIndexes(s, []string{"id"}, true)
	assert.Len(t, out, 2) // both indexes apply; the single-column PRIMARY is excluded later by ComputeIndexKeys
}

func TestComputeIndexKeysSkipsSinglePrimary(t *testing.T) {
	applicable := []ApplicableIndex{{Index: schema.Index{Name: "PRIMARY", Kind: schema.KindPrimary, Fields: []string{"id"}}, StoreAsUnique: true}}
	r := row.NewRow()
	r.Set("id", sqlvalue.NewInt(7))
	keys := ComputeIndexKeys(applicable, r)
	assert.Empty(t, keys)
}

func TestComputeIndexKeysDegradesOnFinalPositionNull(t *testing.T) {
	applicable := []ApplicableIndex{{Index: schema.Index{Name: "uq_bc", Kind: schema.KindUnique, Fields: []string{"b", "c"}}, StoreAsUnique: true}}
	r := row.NewRow()
	r.Set("b", sqlvalue.NewInt(1))
	r.Set("c", sqlvalue.Null)
	keys := ComputeIndexKeys(applicable, r)
	assert.Len(t, keys, 1)
	assert.Equal(t, []string{"1", indexrefs.NullSentinel}, keys[0].Path)
	assert.False(t, keys[0].StoreAsUnique)
}

func TestComputeIndexKeysSkipsOnFirstPositionNull(t *testing.T) {
	applicable := []ApplicableIndex{{Index: schema.Index{Name: "uq_bc", Kind: schema.KindUnique, Fields: []string{"b", "c"}}, StoreAsUnique: true}}
	r := row.NewRow()
	r.Set("c", sqlvalue.NewInt(1))
	keys := ComputeIndexKeys(applicable, r)
	assert.Empty(t, keys)
}
