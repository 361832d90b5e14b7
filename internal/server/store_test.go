package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sqlfake/internal/indexrefs"
	"sqlfake/internal/row"
	"sqlfake/internal/schema"
	"sqlfake/internal/sqlvalue"
)

func TestCreateTableAndSaveTableRoundTrips(t *testing.T) {
	s := NewStore()
	s.CreateTable("shop", "users", &schema.TableSchema{Name: "users"})

	dataset := row.NewDataset()
	r := row.NewRow()
	r.Set("id", sqlvalue.NewInt(1))
	dataset.Set(row.IntID(1), r)

	err := s.SaveTable("shop", "users", dataset, indexrefs.NewStore(), nil)
	require.NoError(t, err)

	tbl, ok := s.GetTable("shop", "users")
	require.True(t, ok)
	assert.Equal(t, 1, tbl.Dataset.Len())
}

func TestSaveTableUnknownTableErrors(t *testing.T) {
	s := NewStore()
	err := s.SaveTable("shop", "missing", row.NewDataset(), indexrefs.NewStore(), nil)
	assert.Error(t, err)
}

func TestNextAutoIncrementCounts(t *testing.T) {
	s := NewStore()
	s.CreateTable("shop", "users", &schema.TableSchema{Name: "users"})

	first, err := s.NextAutoIncrement("shop", "users")
	require.NoError(t, err)
	second, err := s.NextAutoIncrement("shop", "users")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestConnectionTracksDatabaseAndLastInsertID(t *testing.T) {
	s := NewStore()
	conn := s.NewConnection("shop")
	assert.Equal(t, "shop", conn.CurrentDatabase())

	conn.UseDatabase("other")
	assert.Equal(t, "other", conn.CurrentDatabase())

	conn.RecordLastInsertID(42)
	assert.Equal(t, int64(42), conn.LastInsertID())
}
