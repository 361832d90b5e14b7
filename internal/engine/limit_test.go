package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlfake/internal/row"
	"sqlfake/internal/sqlvalue"
)

func sequentialDataset(n int) *row.Dataset {
	d := row.NewDataset()
	for i := int64(0); i < int64(n); i++ {
		r := row.NewRow()
		r.Set("n", sqlvalue.NewInt(i))
		d.Set(row.IntID(i), r)
	}
	return d
}

func TestApplyLimitNoLimitReturnsUnchanged(t *testing.T) {
	dataset := sequentialDataset(5)
	out := ApplyLimit(dataset, 0, 0, false)
	assert.Same(t, dataset, out)
}

func TestApplyLimitPagesThroughOffset(t *testing.T) {
	dataset := sequentialDataset(5)
	out := ApplyLimit(dataset, 2, 2, true)
	assert.Equal(t, []row.ID{row.IntID(2), row.IntID(3)}, out.Keys())
}

func TestApplyLimitOffsetPastEndIsEmpty(t *testing.T) {
	dataset := sequentialDataset(3)
	out := ApplyLimit(dataset, 10, 5, true)
	assert.Equal(t, 0, out.Len())
}

func TestApplyLimitRowCountBeyondRemainderClamps(t *testing.T) {
	dataset := sequentialDataset(3)
	out := ApplyLimit(dataset, 1, 100, true)
	assert.Equal(t, []row.ID{row.IntID(1), row.IntID(2)}, out.Keys())
}
