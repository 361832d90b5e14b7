package queryctx

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sqlfake/internal/row"
)

func TestMarkDirtyRequiresInRequest(t *testing.T) {
	c := New()
	c.MarkDirty("users", row.IntID(7))
	assert.False(t, c.IntersectsDirty("users", []row.ID{row.IntID(7)}))

	c.InRequest = true
	c.MarkDirty("users", row.IntID(7))
	assert.True(t, c.IntersectsDirty("users", []row.ID{row.IntID(7)}))
	assert.False(t, c.IntersectsDirty("other_table", []row.ID{row.IntID(7)}))
}

func TestResetClearsDirtySet(t *testing.T) {
	c := New()
	c.InRequest = true
	c.MarkDirty("users", row.IntID(1))
	c.Reset()
	assert.False(t, c.IntersectsDirty("users", []row.ID{row.IntID(1)}))
}
