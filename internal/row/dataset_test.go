package row

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlfake/internal/sqlvalue"
)

func newTestRow(id int64) *Row {
	r := NewRow()
	r.Set("id", sqlvalue.NewInt(id))
	return r
}

func TestRekeyPreservesPosition(t *testing.T) {
	d := NewDataset()
	d.Set(IntID(10), newTestRow(10))
	d.Set(IntID(20), newTestRow(20))
	d.Set(IntID(30), newTestRow(30))

	d.Rekey(IntID(20), IntID(25), newTestRow(25))

	var ids []int64
	for _, k := range d.Keys() {
		ids = append(ids, k.i)
	}
	assert.Equal(t, []int64{10, 25, 30}, ids)
}

func TestSliceRetainsOrder(t *testing.T) {
	d := NewDataset()
	d.Set(IntID(1), newTestRow(1))
	d.Set(IntID(2), newTestRow(2))
	d.Set(IntID(3), newTestRow(3))

	sliced := d.Slice([]ID{IntID(3), IntID(1)})
	var ids []int64
	for _, k := range sliced.Keys() {
		ids = append(ids, k.i)
	}
	assert.Equal(t, []int64{3, 1}, ids)
}

func TestRowFakeValuesChannel(t *testing.T) {
	r := NewRow()
	r.Set("count", sqlvalue.NewInt(4))
	values := NewRow()
	values.Set("count", sqlvalue.NewInt(3))

	withFake := r.WithFakeValues(values)
	v, ok := withFake.Get(FakeValuesPrefix + "count")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v.Int())

	stripped := withFake.StripSynthetic()
	_, ok = stripped.Get(FakeValuesPrefix + "count")
	assert.False(t, ok)
}
