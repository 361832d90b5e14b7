package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlfake/internal/row"
	"sqlfake/internal/sqlexpr"
	"sqlfake/internal/sqlvalue"
)

func nameAgeDataset() *row.Dataset {
	d := row.NewDataset()
	add := func(id int64, name string, age int64) {
		r := row.NewRow()
		r.Set("name", sqlvalue.NewString(name))
		r.Set("age", sqlvalue.NewInt(age))
		d.Set(row.IntID(id), r)
	}
	add(1, "carol", 30)
	add(2, "alice", 30)
	add(3, "bob", 25)
	return d
}

func TestApplyOrderByAscendingWithStableTies(t *testing.T) {
	dataset := nameAgeDataset()
	materialized, err := MaterializeOrderKeys(dataset, &fakeConn{}, []OrderRule{
		{Expr: sqlexpr.NewColumnRef("age")},
	})
	require.NoError(t, err)

	out := ApplyOrderBy(materialized, []OrderRule{{Expr: sqlexpr.NewColumnRef("age")}})
	assert.Equal(t, []row.ID{row.IntID(3), row.IntID(1), row.IntID(2)}, out.Keys())
}

func TestApplyOrderByIsIdempotent(t *testing.T) {
	dataset := nameAgeDataset()
	rules := []OrderRule{{Expr: sqlexpr.NewColumnRef("age")}}
	materialized, err := MaterializeOrderKeys(dataset, &fakeConn{}, rules)
	require.NoError(t, err)

	once := ApplyOrderBy(materialized, rules)
	twice := ApplyOrderBy(once, rules)
	assert.Equal(t, once.Keys(), twice.Keys())
}

func TestApplyOrderByDescending(t *testing.T) {
	dataset := nameAgeDataset()
	rules := []OrderRule{{Expr: sqlexpr.NewColumnRef("age"), Desc: true}}
	materialized, err := MaterializeOrderKeys(dataset, &fakeConn{}, rules)
	require.NoError(t, err)

	out := ApplyOrderBy(materialized, rules)
	assert.Equal(t, row.IntID(1), out.Keys()[0])
	assert.Equal(t, "age", rules[0].Expr.Name())
}
